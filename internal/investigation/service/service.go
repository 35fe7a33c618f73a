// Package service orchestrates the investigation aggregate: it owns the
// in-memory session records, routes every mutation through difference
// detection and photometry, and drives the debounced persistence.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/edd1080/project-olympo-sub002/internal/geo"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/completion"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/detector"
	invcmetrics "github.com/edd1080/project-olympo-sub002/internal/investigation/metrics"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	dErrors "github.com/edd1080/project-olympo-sub002/pkg/domain-errors"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/sentinel"
	"github.com/edd1080/project-olympo-sub002/pkg/requestcontext"
)

const (
	defaultDebounce       = 500 * time.Millisecond
	defaultPhotoTolerance = 10.0
)

// Service is the mutation API for investigation records. It serializes
// mutations per process with one mutex: the engine is a single-investigator,
// single-device field tool, so per-record ordering is all that matters and
// contention is negligible.
//
// The in-memory record is authoritative for the session. Persistence is a
// debounced side effect; its failures are logged, counted, and swallowed.
// Uniqueness of an investigation per application is only enforced in-process
// and at the storage key: two devices writing the same application id are
// last-save-wins by design.
type Service struct {
	store     RecordStore
	publisher CompletedPublisher
	logger    *slog.Logger
	metrics   *invcmetrics.Metrics
	autosave  *autosaver
	tracer    trace.Tracer

	photoTolerance float64
	detectorOpts   detector.Options

	mu      sync.Mutex
	records map[id.ApplicationID]*models.Investigation
}

// CaptureInput is the contract with the (external) capture subsystem: a data
// URI or resource reference, an optional geotag, and the capture time.
type CaptureInput struct {
	URL       string
	Geotag    *geo.Coordinate
	Timestamp time.Time
}

// New constructs the investigation service.
func New(store RecordStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("record store is required")
	}

	cfg := &serviceConfig{
		debounce:       defaultDebounce,
		photoTolerance: defaultPhotoTolerance,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	s := &Service{
		store:          store,
		publisher:      cfg.publisher,
		logger:         cfg.logger,
		metrics:        cfg.metrics,
		tracer:         otel.Tracer("investigation"),
		photoTolerance: cfg.photoTolerance,
		detectorOpts: detector.Options{
			ThresholdPercent:   cfg.thresholdPercent,
			ListOverlapPercent: cfg.listOverlapPercent,
		},
		records: make(map[id.ApplicationID]*models.Investigation),
	}
	s.autosave = newAutosaver(store, cfg.logger, cfg.metrics, cfg.debounce, s.snapshot)
	return s, nil
}

// snapshot clones the current record state for the autosaver.
func (s *Service) snapshot(applicationID id.ApplicationID) *models.Investigation {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[applicationID]
	if !ok {
		return nil
	}
	return record.Clone()
}

// Create opens the investigation for an application from its declared
// snapshot. Exactly one investigation exists per application; an in-process
// or persisted duplicate is a conflict.
func (s *Service) Create(ctx context.Context, applicationID id.ApplicationID, declared models.DeclaredData) (*models.Investigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[applicationID]; ok {
		return nil, dErrors.New(dErrors.CodeConflict, "investigation already exists for this application")
	}
	if _, err := s.findStored(ctx, applicationID); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "investigation already exists for this application")
	}

	record, err := models.NewInvestigation(applicationID, declared, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	s.records[applicationID] = record

	// Initial write is synchronous so the record exists durably before the
	// first field edit; failure is swallowed like any other persistence error.
	s.persistLocked(ctx, record)

	if s.metrics != nil {
		s.metrics.InvestigationsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "investigation created",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", applicationID,
	)
	return record.Clone(), nil
}

// Get returns a copy of the record, loading it from the store when this
// process has not touched it yet. Corrupt payloads are treated as absent.
func (s *Service) Get(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.loadLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// UpdateObserved records an observed value for one field and reconciles the
// difference list for that field: a mismatch beyond threshold upserts a
// Difference (preserving any comment), agreement removes it.
func (s *Service) UpdateObserved(ctx context.Context, applicationID id.ApplicationID, field models.FieldKey, value models.FieldValue) (*models.Investigation, error) {
	ctx, span := s.tracer.Start(ctx, "investigation.UpdateObserved",
		trace.WithAttributes(attribute.String("field", string(field))))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.mutableLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	record.SetObserved(field, value, now)

	declared, ok := record.Declared.Value(field)
	if ok {
		outcome := detector.Compare(declared, value, s.detectorOpts)
		switch {
		case outcome.Match:
			if record.RemoveDifference(field, now) && s.metrics != nil {
				s.metrics.DifferencesCleared.Inc()
			}
		default:
			isNew := record.DifferenceFor(field) == nil
			record.UpsertDifference(detector.NewDifference(field, declared, value, outcome.Delta), now)
			if isNew && s.metrics != nil {
				s.metrics.DifferencesDetected.Inc()
			}
		}
	}

	s.autosave.Schedule(applicationID)
	return record.Clone(), nil
}

// RecordDifference is the direct entry point for externally driven detection
// (guarantor-match confirmation) that does not flow through UpdateObserved.
func (s *Service) RecordDifference(ctx context.Context, applicationID id.ApplicationID, diff models.Difference) (*models.Investigation, error) {
	if _, err := models.ParseFieldKey(string(diff.Field)); err != nil {
		return nil, err
	}
	if diff.Severity == "" {
		diff.Severity = models.SeverityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.mutableLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	isNew := record.DifferenceFor(diff.Field) == nil
	record.UpsertDifference(diff, requestcontext.Now(ctx))
	if isNew && s.metrics != nil {
		s.metrics.DifferencesDetected.Inc()
	}
	s.autosave.Schedule(applicationID)
	return record.Clone(), nil
}

// RemoveDifference explicitly clears a difference.
func (s *Service) RemoveDifference(ctx context.Context, applicationID id.ApplicationID, field models.FieldKey) (*models.Investigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.mutableLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if record.RemoveDifference(field, requestcontext.Now(ctx)) {
		if s.metrics != nil {
			s.metrics.DifferencesCleared.Inc()
		}
		s.autosave.Schedule(applicationID)
	}
	return record.Clone(), nil
}

// SetDifferenceComment attaches the explanatory comment required before the
// record can finish.
func (s *Service) SetDifferenceComment(ctx context.Context, applicationID id.ApplicationID, field models.FieldKey, comment string) (*models.Investigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.mutableLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := record.SetDifferenceComment(field, comment, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	s.autosave.Schedule(applicationID)
	return record.Clone(), nil
}

// CapturePhoto stores a captured photo in its slot, replacing any prior one,
// and recomputes photometry. A capture without geotag is accepted:
// geolocation acquisition can fail or be denied without blocking the visit.
func (s *Service) CapturePhoto(ctx context.Context, applicationID id.ApplicationID, slot models.Slot, capture CaptureInput) (*models.Investigation, error) {
	ctx, span := s.tracer.Start(ctx, "investigation.CapturePhoto",
		trace.WithAttributes(attribute.String("slot", string(slot))))
	defer span.End()

	if capture.URL == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "photo url is required")
	}
	timestamp := capture.Timestamp
	if timestamp.IsZero() {
		timestamp = requestcontext.Now(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.mutableLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	photo := models.EvidencePhoto{
		Ref:       uuid.NewString(),
		URL:       capture.URL,
		Geotag:    capture.Geotag,
		Timestamp: timestamp,
	}
	record.SetPhoto(slot, photo, s.photoTolerance, requestcontext.Now(ctx))

	if s.metrics != nil {
		s.metrics.PhotosCaptured.Inc()
	}
	s.autosave.Schedule(applicationID)
	return record.Clone(), nil
}

// RetakePhoto discards the current photo for a slot ahead of a new capture.
func (s *Service) RetakePhoto(ctx context.Context, applicationID id.ApplicationID, slot models.Slot) (*models.Investigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.mutableLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	record.ClearPhoto(slot, s.photoTolerance, requestcontext.Now(ctx))
	s.autosave.Schedule(applicationID)
	return record.Clone(), nil
}

// Validate runs the completion gate without mutating anything.
func (s *Service) Validate(ctx context.Context, applicationID id.ApplicationID) (models.ValidationResult, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadLocked(ctx, applicationID)
	if err != nil {
		return models.ValidationResult{}, err
	}
	result := completion.Validate(record)
	if s.metrics != nil {
		s.metrics.ObserveValidate(start)
	}
	return result, nil
}

// Progress computes the non-gating section progress view.
func (s *Service) Progress(ctx context.Context, applicationID id.ApplicationID) (completion.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadLocked(ctx, applicationID)
	if err != nil {
		return completion.Progress{}, err
	}
	return completion.ComputeProgress(record), nil
}

// Finish transitions the record to its terminal state. It re-runs the
// completion gate and fails with the full blocked-reason list when the
// record is incomplete, so the UI can render an actionable checklist.
func (s *Service) Finish(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error) {
	ctx, span := s.tracer.Start(ctx, "investigation.Finish",
		trace.WithAttributes(attribute.String("application_id", string(applicationID))))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if record.IsTerminal() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "investigation is already completed")
	}

	result := completion.Validate(record)
	if !result.IsValid {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "investigation is incomplete").
			WithReasons(result.BlockedReasons)
	}

	if err := record.ApplyCompletion(requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	// Terminal state persists synchronously; a pending debounce write of the
	// pre-completion state is superseded.
	s.autosave.Cancel(applicationID)
	s.persistLocked(ctx, record)

	if s.publisher != nil {
		if err := s.publisher.PublishCompleted(ctx, record.Clone()); err != nil {
			// Hand-off rides the offline outbox; a failure here only means
			// the sync layer will retry, never that finishing fails.
			s.logger.WarnContext(ctx, "completed investigation hand-off deferred",
				"application_id", applicationID,
				"error", err,
			)
		}
	}

	if s.metrics != nil {
		s.metrics.InvestigationsCompleted.Inc()
	}
	s.logger.InfoContext(ctx, "investigation completed",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", applicationID,
		"differences", len(record.Differences),
		"warnings", len(result.Warnings),
	)
	return record.Clone(), nil
}

// FlushPending forces all debounced writes, used on shutdown.
func (s *Service) FlushPending(ctx context.Context) {
	s.autosave.Flush(ctx)
}

// mutableLocked loads a record and rejects mutation of terminal records.
func (s *Service) mutableLocked(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error) {
	record, err := s.loadLocked(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if record.IsTerminal() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "completed investigation is read-only")
	}
	return record, nil
}

// loadLocked returns the session record, falling back to the store once.
// Callers hold s.mu.
func (s *Service) loadLocked(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error) {
	if record, ok := s.records[applicationID]; ok {
		return record, nil
	}
	record, err := s.findStored(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	s.records[applicationID] = record
	return record, nil
}

// findStored loads from the store, mapping corrupt payloads to not-found:
// the caller falls back to re-initializing from declared application data.
func (s *Service) findStored(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error) {
	record, err := s.store.Find(ctx, applicationID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrCorrupt) {
			s.logger.WarnContext(ctx, "discarding corrupt persisted investigation",
				"application_id", applicationID,
				"error", err,
			)
			return nil, dErrors.New(dErrors.CodeNotFound, "investigation not found")
		}
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "investigation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load investigation")
	}
	return record, nil
}

// persistLocked writes synchronously with persistence-failure semantics:
// log, count, and keep going with the in-memory record.
func (s *Service) persistLocked(ctx context.Context, record *models.Investigation) {
	if err := s.store.Save(ctx, record.Clone()); err != nil {
		if s.metrics != nil {
			s.metrics.PersistenceFailures.Inc()
		}
		s.logger.ErrorContext(ctx, "persist failed; in-memory record remains authoritative",
			"application_id", record.ApplicationID,
			"error", err,
		)
	}
}
