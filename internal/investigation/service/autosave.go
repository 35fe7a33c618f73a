package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	invcmetrics "github.com/edd1080/project-olympo-sub002/internal/investigation/metrics"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
)

// saveTimeout bounds one autosave write so a hung store cannot pile up
// goroutines behind the debounce timers.
const saveTimeout = 5 * time.Second

// autosaver coalesces rapid successive mutations into a single write of the
// latest record state. A new mutation inside the window supersedes the
// pending timer instead of queueing a second write, so a crash mid-window
// loses at most the last sub-window of edits. Write failures are logged and
// swallowed: the in-memory record stays authoritative for the session.
type autosaver struct {
	store    RecordStore
	logger   *slog.Logger
	metrics  *invcmetrics.Metrics
	debounce time.Duration

	// snapshot returns a clone of the current record state at fire time,
	// or nil if the record vanished. Taking the clone under the service
	// lock keeps serialization out of the mutation path.
	snapshot func(id.ApplicationID) *models.Investigation

	mu     sync.Mutex
	timers map[id.ApplicationID]*time.Timer
}

func newAutosaver(store RecordStore, logger *slog.Logger, metrics *invcmetrics.Metrics, debounce time.Duration, snapshot func(id.ApplicationID) *models.Investigation) *autosaver {
	return &autosaver{
		store:    store,
		logger:   logger,
		metrics:  metrics,
		debounce: debounce,
		snapshot: snapshot,
		timers:   make(map[id.ApplicationID]*time.Timer),
	}
}

// Schedule arms (or re-arms) the debounced write for one record.
func (a *autosaver) Schedule(applicationID id.ApplicationID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if timer, ok := a.timers[applicationID]; ok {
		timer.Stop()
	}
	a.timers[applicationID] = time.AfterFunc(a.debounce, func() {
		a.fire(applicationID)
	})
}

func (a *autosaver) fire(applicationID id.ApplicationID) {
	a.mu.Lock()
	delete(a.timers, applicationID)
	a.mu.Unlock()

	a.write(applicationID)
}

func (a *autosaver) write(applicationID id.ApplicationID) {
	record := a.snapshot(applicationID)
	if record == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := a.store.Save(ctx, record); err != nil {
		if a.metrics != nil {
			a.metrics.PersistenceFailures.Inc()
		}
		a.logger.ErrorContext(ctx, "autosave failed; in-memory record remains authoritative",
			"application_id", applicationID,
			"error", err,
		)
		return
	}
	if a.metrics != nil {
		a.metrics.AutosaveWrites.Inc()
	}
}

// Cancel drops any pending write for a record without firing it. Used after
// a synchronous save already persisted the latest state.
func (a *autosaver) Cancel(applicationID id.ApplicationID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if timer, ok := a.timers[applicationID]; ok {
		timer.Stop()
		delete(a.timers, applicationID)
	}
}

// Flush forces every pending write immediately. Called on shutdown so the
// debounce window never loses the tail of a session on a clean exit.
func (a *autosaver) Flush(ctx context.Context) {
	a.mu.Lock()
	pending := make([]id.ApplicationID, 0, len(a.timers))
	for applicationID, timer := range a.timers {
		timer.Stop()
		pending = append(pending, applicationID)
	}
	a.timers = make(map[id.ApplicationID]*time.Timer)
	a.mu.Unlock()

	for _, applicationID := range pending {
		select {
		case <-ctx.Done():
			return
		default:
		}
		a.write(applicationID)
	}
}
