// Package domain holds identifier types shared across modules.
//
// IDs are distinct named types so the compiler rejects cross-assignments
// between identifier kinds. Application IDs come from the origination system
// and are opaque strings, not UUIDs; they are validated at trust boundaries
// with the Parse helpers below.
package domain

import (
	"strings"

	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
)

// ApplicationID identifies a credit application in the origination system.
// One investigation exists per application (1:1), so it also keys the
// investigation record.
type ApplicationID string

// InvestigatorID identifies the field investigator taken from the auth token.
type InvestigatorID string

const maxApplicationIDLength = 64

// ParseApplicationID validates an external application identifier.
// IDs must be non-empty, at most 64 characters, and free of whitespace:
// they are embedded verbatim into storage keys (invc_<id>).
func ParseApplicationID(raw string) (ApplicationID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "application id is required")
	}
	if len(trimmed) > maxApplicationIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "application id must be 64 characters or less")
	}
	if strings.ContainsAny(trimmed, " \t\n") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "application id must not contain whitespace")
	}
	return ApplicationID(trimmed), nil
}

func (id ApplicationID) String() string { return string(id) }
