package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/capitalcove/harbor/internal/boat"
	"github.com/capitalcove/harbor/internal/core/event"
	"github.com/capitalcove/harbor/internal/persist"
	"github.com/capitalcove/harbor/internal/world"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

type fakeWriter struct {
	rows []persist.TripRow
	fail bool
}

func (f *fakeWriter) InsertTrips(_ context.Context, rows []persist.TripRow) error {
	if f.fail {
		return errors.New("db down")
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func deliver(bus *event.Bus) {
	bus.SwapBuffers()
	bus.DispatchAll()
}

func TestJournalFlushesOnInterval(t *testing.T) {
	bus := event.NewBus()
	w := &fakeWriter{}
	session := uuid.New()
	sys := NewJournalSystem(bus, w, world.NewStatic(world.PhaseCrunch), session, 3, 0, zaptest.NewLogger(t))

	event.Emit(bus, event.TripCompleted{Slot: 2, Type: boat.Trawler, Revenue: 120, Catch: 60})
	event.Emit(bus, event.TripCompleted{Slot: 0, Type: boat.Row, Revenue: 40, Catch: 20})
	deliver(bus)
	if sys.Pending() != 2 {
		t.Fatalf("expected 2 pending trips, got %d", sys.Pending())
	}

	sys.Update(time.Second)
	sys.Update(time.Second)
	if len(w.rows) != 0 {
		t.Fatal("expected no flush before the interval")
	}
	sys.Update(time.Second)
	if len(w.rows) != 2 || sys.Pending() != 0 || sys.Written() != 2 {
		t.Fatalf("expected 2 rows written, got %d (pending %d)", len(w.rows), sys.Pending())
	}
	r := w.rows[0]
	if r.SessionID != session || r.BoatType != "trawler" || r.Phase != "CRUNCH" || r.Revenue != 120 {
		t.Fatalf("unexpected row %+v", r)
	}
	if r.ID == uuid.Nil || r.ID == w.rows[1].ID {
		t.Fatal("expected distinct row ids")
	}
}

func TestJournalKeepsTripsWhenWriteFails(t *testing.T) {
	bus := event.NewBus()
	w := &fakeWriter{fail: true}
	sys := NewJournalSystem(bus, w, nil, uuid.New(), 1, 2, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		event.Emit(bus, event.TripCompleted{Slot: i, Type: boat.Row})
	}
	deliver(bus)
	if sys.Pending() != 2 {
		t.Fatalf("expected backlog trimmed to 2, got %d", sys.Pending())
	}
	sys.Update(time.Second)
	if sys.Pending() != 2 || sys.Written() != 0 {
		t.Fatalf("expected failed flush to keep trips, pending %d", sys.Pending())
	}

	w.fail = false
	sys.Flush()
	if len(w.rows) != 2 || w.rows[0].Slot != 1 || w.rows[1].Slot != 2 {
		t.Fatalf("expected the newest two trips stored, got %+v", w.rows)
	}
}
