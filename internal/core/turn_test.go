package core

import (
	"testing"
	"time"
)

func TestAdmitCommitWhenIdle(t *testing.T) {
	tr := NewTurnTracker()
	if got := tr.AdmitCommit(); got != AdmitStart {
		t.Fatalf("idle tracker should admit, got %v", got)
	}
}

func TestAdmitCommitRejectsFreshTurn(t *testing.T) {
	tr := NewTurnTracker()
	tr.StartTurn()

	if got := tr.AdmitCommit(); got != AdmitReject {
		t.Fatalf("active turn with recent fragment should reject, got %v", got)
	}
	if !tr.Active() {
		t.Error("rejected commit must leave the turn active")
	}
}

func TestAdmitCommitCancelsStaleTurn(t *testing.T) {
	tr := NewTurnTracker()
	tr.StartTurn()
	tr.mu.Lock()
	tr.lastFragment = time.Now().Add(-StaleAfter - 50*time.Millisecond)
	tr.mu.Unlock()

	if got := tr.AdmitCommit(); got != AdmitCancelFirst {
		t.Fatalf("stale turn should authorize cancel, got %v", got)
	}
	if tr.Active() {
		t.Error("cancel admission must transition the tracker to idle")
	}
	// The next commit starts a fresh turn without another cancel.
	if got := tr.AdmitCommit(); got != AdmitStart {
		t.Errorf("tracker should be idle after cancel, got %v", got)
	}
}

func TestAdmitCommitExactlyAtThresholdRejects(t *testing.T) {
	tr := NewTurnTracker()
	tr.StartTurn()
	tr.mu.Lock()
	tr.lastFragment = time.Now().Add(-StaleAfter + 20*time.Millisecond)
	tr.mu.Unlock()

	if got := tr.AdmitCommit(); got != AdmitReject {
		t.Fatalf("elapsed <= threshold must reject, got %v", got)
	}
}

func TestFragmentDefersStaleness(t *testing.T) {
	tr := NewTurnTracker()
	tr.StartTurn()
	tr.mu.Lock()
	tr.lastFragment = time.Now().Add(-time.Second)
	tr.mu.Unlock()

	tr.Fragment()
	if got := tr.AdmitCommit(); got != AdmitReject {
		t.Fatalf("fragment should reset the staleness clock, got %v", got)
	}
}

func TestFinishReturnsToIdle(t *testing.T) {
	tr := NewTurnTracker()
	tr.StartTurn()
	tr.Finish()

	if tr.Active() {
		t.Error("tracker should be idle after Finish")
	}
	if got := tr.AdmitCommit(); got != AdmitStart {
		t.Errorf("idle tracker should admit, got %v", got)
	}
}
