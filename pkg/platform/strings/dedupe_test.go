package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims and drops blanks",
			input:    []string{" 55511111 ", "", "  ", "55522222"},
			expected: []string{"55511111", "55522222"},
		},
		{
			name:     "dedupes preserving order",
			input:    []string{"granos", "abarrotes", "granos"},
			expected: []string{"granos", "abarrotes"},
		},
		{
			name:     "preserves case",
			input:    []string{"Granos", "granos"},
			expected: []string{"Granos", "granos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "lowercases before deduping",
			input:    []string{"Granos", "granos", "GRANOS"},
			expected: []string{"granos"},
		},
		{
			name:     "trims lowercases and dedupes",
			input:    []string{"  ABARROTES ", "granos", "Abarrotes"},
			expected: []string{"abarrotes", "granos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}
