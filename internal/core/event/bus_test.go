package event

import "testing"

type ping struct{ n int }
type pong struct{ n int }

func TestEventsAreDeliveredNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.n) })

	Emit(b, ping{1})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("expected nothing before the swap, got %v", got)
	}
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected [1], got %v", got)
	}
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 {
		t.Fatalf("expected events delivered once, got %v", got)
	}
}

func TestEmitDuringDispatchLandsNextTick(t *testing.T) {
	b := NewBus()
	var pongs []int
	Subscribe(b, func(p ping) { Emit(b, pong{p.n * 10}) })
	Subscribe(b, func(p pong) { pongs = append(pongs, p.n) })

	Emit(b, ping{2})
	b.SwapBuffers()
	b.DispatchAll()
	if len(pongs) != 0 {
		t.Fatalf("expected no re-entrant delivery, got %v", pongs)
	}
	if Pending[pong](b) != 1 {
		t.Fatalf("expected one pending pong, got %d", Pending[pong](b))
	}
	b.SwapBuffers()
	b.DispatchAll()
	if len(pongs) != 1 || pongs[0] != 20 {
		t.Fatalf("expected [20], got %v", pongs)
	}
}

func TestDispatchFollowsFirstEmissionOrder(t *testing.T) {
	b := NewBus()
	var seq []string
	Subscribe(b, func(pong) { seq = append(seq, "pong") })
	Subscribe(b, func(ping) { seq = append(seq, "ping") })

	for i := 0; i < 20; i++ {
		seq = seq[:0]
		Emit(b, pong{})
		Emit(b, ping{})
		b.SwapBuffers()
		b.DispatchAll()
		if len(seq) != 2 || seq[0] != "pong" || seq[1] != "ping" {
			t.Fatalf("expected [pong ping], got %v", seq)
		}
	}
}
