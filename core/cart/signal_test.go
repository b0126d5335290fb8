package cart

import (
	"testing"
	"time"
)

func TestSignalExpires(t *testing.T) {
	sig := NewSignals(20 * time.Millisecond)
	defer sig.Stop()

	sig.Mark("visitor", 1)
	if !sig.Active("visitor", 1) {
		t.Fatal("pulse should be live right after marking")
	}

	time.Sleep(60 * time.Millisecond)
	if sig.Active("visitor", 1) {
		t.Fatal("pulse should have expired")
	}
}

func TestSignalsAreIndependent(t *testing.T) {
	sig := NewSignals(40 * time.Millisecond)
	defer sig.Stop()

	sig.Mark("visitor", 1)
	time.Sleep(25 * time.Millisecond)

	// Marking a second product must not cancel or extend the first.
	sig.Mark("visitor", 2)
	if !sig.Active("visitor", 1) {
		t.Fatal("first pulse should still be live")
	}

	time.Sleep(25 * time.Millisecond)
	if sig.Active("visitor", 1) {
		t.Error("first pulse should have expired on its own clock")
	}
	if !sig.Active("visitor", 2) {
		t.Error("second pulse should still be live")
	}

	got := sig.All("visitor")
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected only product 2 live, got %v", got)
	}
}

func TestSignalRemarkRestartsClock(t *testing.T) {
	sig := NewSignals(40 * time.Millisecond)
	defer sig.Stop()

	sig.Mark("visitor", 1)
	time.Sleep(25 * time.Millisecond)
	sig.Mark("visitor", 1)
	time.Sleep(25 * time.Millisecond)

	if !sig.Active("visitor", 1) {
		t.Error("re-marking should have restarted the pulse clock")
	}
}

func TestSignalScopesAreIsolated(t *testing.T) {
	sig := NewSignals(time.Minute)
	defer sig.Stop()

	sig.Mark("visitor-a", 1)
	if sig.Active("visitor-b", 1) {
		t.Error("one visitor's pulse must not leak into another's")
	}
	if got := sig.All("visitor-b"); len(got) != 0 {
		t.Errorf("expected no pulses for visitor-b, got %v", got)
	}
}
