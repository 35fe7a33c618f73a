// Package handler exposes the investigation engine over HTTP. Every mutation
// returns the full record so offline-capable clients can replace their local
// copy instead of patching it.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/completion"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/service"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/httputil"
	"github.com/edd1080/project-olympo-sub002/pkg/requestcontext"
)

// Service defines the investigation operations the handler needs.
type Service interface {
	Create(ctx context.Context, applicationID id.ApplicationID, declared models.DeclaredData) (*models.Investigation, error)
	Get(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error)
	UpdateObserved(ctx context.Context, applicationID id.ApplicationID, field models.FieldKey, value models.FieldValue) (*models.Investigation, error)
	RecordDifference(ctx context.Context, applicationID id.ApplicationID, diff models.Difference) (*models.Investigation, error)
	RemoveDifference(ctx context.Context, applicationID id.ApplicationID, field models.FieldKey) (*models.Investigation, error)
	SetDifferenceComment(ctx context.Context, applicationID id.ApplicationID, field models.FieldKey, comment string) (*models.Investigation, error)
	CapturePhoto(ctx context.Context, applicationID id.ApplicationID, slot models.Slot, capture service.CaptureInput) (*models.Investigation, error)
	RetakePhoto(ctx context.Context, applicationID id.ApplicationID, slot models.Slot) (*models.Investigation, error)
	Validate(ctx context.Context, applicationID id.ApplicationID) (models.ValidationResult, error)
	Progress(ctx context.Context, applicationID id.ApplicationID) (completion.Progress, error)
	Finish(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error)
}

// Handler wires investigation endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an investigation handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts investigation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/investigations", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Route("/{applicationID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Patch("/observed", h.HandleUpdateObserved)
			r.Post("/differences", h.HandleRecordDifference)
			r.Delete("/differences/{field}", h.HandleRemoveDifference)
			r.Put("/differences/{field}/comment", h.HandleSetComment)
			r.Post("/photos/{slot}", h.HandleCapturePhoto)
			r.Delete("/photos/{slot}", h.HandleRetakePhoto)
			r.Get("/validation", h.HandleValidation)
			r.Get("/progress", h.HandleProgress)
			r.Post("/finish", h.HandleFinish)
		})
	})
}

// applicationID parses the path parameter. ok=false means the error response
// was already written.
func (h *Handler) applicationID(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return appID, true
}

// slot parses the photo slot path parameter.
func (h *Handler) slot(w http.ResponseWriter, r *http.Request) (models.Slot, bool) {
	slot, err := models.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return slot, true
}

// fieldKey parses the field path parameter.
func (h *Handler) fieldKey(w http.ResponseWriter, r *http.Request) (models.FieldKey, bool) {
	field, err := models.ParseFieldKey(chi.URLParam(r, "field"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return field, true
}

// HandleCreate handles POST /investigations.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[CreateRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	appID, err := id.ParseApplicationID(req.ApplicationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Create(ctx, appID, req.Declared)
	if err != nil {
		h.logger.ErrorContext(ctx, "investigation create failed",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", appID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromInvestigation(record))
}

// HandleGet handles GET /investigations/{applicationID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	record, err := h.service.Get(r.Context(), appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromInvestigation(record))
}

// HandleUpdateObserved handles PATCH /investigations/{applicationID}/observed.
func (h *Handler) HandleUpdateObserved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[ObservedRequest](w, r, h.logger)
	if !ok {
		return
	}
	field, value, err := req.ParsedValue()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.UpdateObserved(ctx, appID, field, value)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromInvestigation(record))
}

// HandleRecordDifference handles POST /investigations/{applicationID}/differences.
func (h *Handler) HandleRecordDifference(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[DifferenceRequest](w, r, h.logger)
	if !ok {
		return
	}
	diff, err := req.ToDifference()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.RecordDifference(r.Context(), appID, diff)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromInvestigation(record))
}

// HandleRemoveDifference handles DELETE /investigations/{applicationID}/differences/{field}.
func (h *Handler) HandleRemoveDifference(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	field, ok := h.fieldKey(w, r)
	if !ok {
		return
	}
	record, err := h.service.RemoveDifference(r.Context(), appID, field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromInvestigation(record))
}

// HandleSetComment handles PUT /investigations/{applicationID}/differences/{field}/comment.
func (h *Handler) HandleSetComment(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	field, ok := h.fieldKey(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[CommentRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.service.SetDifferenceComment(r.Context(), appID, field, req.Comment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromInvestigation(record))
}

// HandleCapturePhoto handles POST /investigations/{applicationID}/photos/{slot}.
func (h *Handler) HandleCapturePhoto(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	slot, ok := h.slot(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[PhotoRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.CapturePhoto(r.Context(), appID, slot, service.CaptureInput{
		URL:       req.URL,
		Geotag:    req.Coordinate(),
		Timestamp: req.Timestamp,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromInvestigation(record))
}

// HandleRetakePhoto handles DELETE /investigations/{applicationID}/photos/{slot}.
func (h *Handler) HandleRetakePhoto(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	slot, ok := h.slot(w, r)
	if !ok {
		return
	}
	record, err := h.service.RetakePhoto(r.Context(), appID, slot)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromInvestigation(record))
}

// HandleValidation handles GET /investigations/{applicationID}/validation.
func (h *Handler) HandleValidation(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	result, err := h.service.Validate(r.Context(), appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromValidation(result))
}

// HandleProgress handles GET /investigations/{applicationID}/progress.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	progress, err := h.service.Progress(r.Context(), appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProgress(progress))
}

// HandleFinish handles POST /investigations/{applicationID}/finish.
func (h *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	record, err := h.service.Finish(ctx, appID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			h.logger.ErrorContext(ctx, "investigation finish failed",
				"request_id", requestcontext.RequestID(ctx),
				"application_id", appID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "investigation finished",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", appID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromInvestigation(record))
}
