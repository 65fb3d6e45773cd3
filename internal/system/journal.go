package system

import (
	"context"
	"time"

	"github.com/capitalcove/harbor/internal/core/event"
	coresys "github.com/capitalcove/harbor/internal/core/system"
	"github.com/capitalcove/harbor/internal/persist"
	"github.com/capitalcove/harbor/internal/world"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TripWriter stores journal rows. persist.JournalRepo implements it.
type TripWriter interface {
	InsertTrips(ctx context.Context, rows []persist.TripRow) error
}

// JournalSystem records completed trips for offline analysis, batching
// them and flushing every interval ticks. Phase 4 (Persist).
type JournalSystem struct {
	writer     TripWriter
	director   world.Director
	session    uuid.UUID
	log        *zap.Logger
	pending    []persist.TripRow
	maxPending int
	interval   int
	tickCount  int
	elapsed    float64
	written    int
}

func NewJournalSystem(bus *event.Bus, writer TripWriter, dir world.Director, session uuid.UUID, intervalTicks, maxPending int, log *zap.Logger) *JournalSystem {
	s := &JournalSystem{
		writer:     writer,
		director:   dir,
		session:    session,
		log:        log,
		maxPending: maxPending,
		interval:   intervalTicks,
	}
	event.Subscribe(bus, s.record)
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

// Pending is how many trips wait for the next flush.
func (s *JournalSystem) Pending() int { return len(s.pending) }

// Written is how many trips have been stored.
func (s *JournalSystem) Written() int { return s.written }

func (s *JournalSystem) record(e event.TripCompleted) {
	phase := ""
	if s.director != nil {
		phase = string(s.director.Phase())
	}
	s.pending = append(s.pending, persist.TripRow{
		ID:         uuid.New(),
		SessionID:  s.session,
		Slot:       e.Slot,
		BoatType:   e.Type.String(),
		Phase:      phase,
		Revenue:    e.Revenue,
		Catch:      e.Catch,
		Tutorial:   e.Tutorial,
		SimSeconds: s.elapsed,
		RecordedAt: time.Now(),
	})
	if s.maxPending > 0 && len(s.pending) > s.maxPending {
		drop := len(s.pending) - s.maxPending
		s.pending = append(s.pending[:0], s.pending[drop:]...)
		s.log.Warn("trip journal backlog trimmed", zap.Int("dropped", drop))
	}
}

func (s *JournalSystem) Update(dt time.Duration) {
	s.elapsed += dt.Seconds()
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Flush writes every pending trip now. Called on the interval and once
// more at shutdown. Failed batches stay pending for the next attempt.
func (s *JournalSystem) Flush() {
	if len(s.pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writer.InsertTrips(ctx, s.pending); err != nil {
		s.log.Error("trip journal flush failed", zap.Int("pending", len(s.pending)), zap.Error(err))
		return
	}
	s.written += len(s.pending)
	s.log.Debug("trip journal flushed", zap.Int("trips", len(s.pending)))
	s.pending = s.pending[:0]
}
