package component

import "testing"

func TestAgeWakesExpiresAfterTwoSeconds(t *testing.T) {
	wakes := []Wake{{Age: 0}, {Age: 1.5}, {Age: 1.9}}
	wakes = AgeWakes(wakes, 0.25)
	if len(wakes) != 2 {
		t.Fatalf("expected 2 live wakes, got %d", len(wakes))
	}
	if wakes[0].Age != 0.25 || wakes[1].Age != 1.75 {
		t.Fatalf("unexpected ages %+v", wakes)
	}
	wakes = AgeWakes(wakes, 0.25)
	if len(wakes) != 1 {
		t.Fatalf("expected 1 live wake, got %d", len(wakes))
	}
}

func TestWakeFadesAndExpands(t *testing.T) {
	w := Wake{Age: 1}
	if w.Opacity() != 0.5 || w.Scale() != 2 {
		t.Fatalf("expected opacity 0.5 scale 2, got %v %v", w.Opacity(), w.Scale())
	}
}
