package ecs

import "testing"

type tag struct{ n int }

func TestEntityPoolReusesSlotWithNewGeneration(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	if a.IsZero() || !p.Alive(a) {
		t.Fatalf("fresh id %v should be alive and non-zero", a)
	}
	p.Destroy(a)
	if p.Alive(a) {
		t.Fatalf("destroyed id still alive")
	}
	b := p.Create()
	if b.Index() != a.Index() {
		t.Fatalf("expected slot %d to be reused, got %d", a.Index(), b.Index())
	}
	if b.Generation() == a.Generation() || p.Alive(a) {
		t.Fatalf("stale id must not resolve after reuse")
	}
	if p.Live() != 1 {
		t.Fatalf("live = %d, want 1", p.Live())
	}
}

func TestStoreIteratesInInsertionOrderAfterRemove(t *testing.T) {
	s := NewPtrComponentStore[tag]()
	ids := []EntityID{NewEntityID(1, 1), NewEntityID(2, 1), NewEntityID(3, 1), NewEntityID(4, 1)}
	for i, id := range ids {
		s.Set(id, &tag{n: i})
	}
	s.Remove(ids[1])

	var got []int
	s.Each(func(_ EntityID, c *tag) { got = append(got, c.n) })
	want := []int{0, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDestroyQueueDeduplicates(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[tag]()
	w.Registry().Register("tags", s)

	id := w.CreateEntity()
	s.Set(id, &tag{})
	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	if !w.Pending(id) {
		t.Fatalf("marked id should be pending")
	}
	if n, records := w.FlushDestroyQueue(); n != 1 || records != 1 {
		t.Fatalf("flushed %d entities and %d records, want 1 and 1", n, records)
	}
	if w.Alive(id) || s.Has(id) {
		t.Fatalf("entity or component survived flush")
	}
	if w.Pending(id) {
		t.Fatalf("queue not cleared")
	}
}

func TestEach2VisitsOnlySharedEntities(t *testing.T) {
	a := NewPtrComponentStore[tag]()
	b := NewPtrComponentStore[tag]()
	x, y := NewEntityID(1, 1), NewEntityID(2, 1)
	a.Set(x, &tag{n: 1})
	a.Set(y, &tag{n: 2})
	b.Set(y, &tag{n: 20})

	visits := 0
	Each2(a, b, func(id EntityID, ca, cb *tag) {
		visits++
		if id != y || ca.n != 2 || cb.n != 20 {
			t.Fatalf("unexpected visit %v %d %d", id, ca.n, cb.n)
		}
	})
	if visits != 1 {
		t.Fatalf("visits = %d, want 1", visits)
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	r.Register("tags", NewPtrComponentStore[tag]())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate store name")
		}
	}()
	r.Register("tags", NewPtrComponentStore[tag]())
}

func TestRemoveAllCountsHeldRecords(t *testing.T) {
	r := NewRegistry()
	a, b := NewPtrComponentStore[tag](), NewPtrComponentStore[tag]()
	r.Register("a", a)
	r.Register("b", b)
	id := NewEntityID(1, 0)
	a.Set(id, &tag{})
	if n := r.RemoveAll(id); n != 1 || a.Has(id) {
		t.Fatalf("removed %d records, want 1", n)
	}
	if got := r.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("names = %v", got)
	}
}
