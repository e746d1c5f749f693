package domain

import (
	"testing"
	"time"
)

func TestWindow_AdmitsUpToMaxThenReportsWait(t *testing.T) {
	t0 := time.Unix(1000, 0)
	w := NewWindow(2, time.Second)

	if _, ok := w.Admit(t0); !ok {
		t.Fatalf("expected first admission")
	}
	if _, ok := w.Admit(t0.Add(100 * time.Millisecond)); !ok {
		t.Fatalf("expected second admission")
	}

	wait, ok := w.Admit(t0.Add(300 * time.Millisecond))
	if ok {
		t.Fatalf("expected third admission to be refused")
	}
	if wait != 700*time.Millisecond {
		t.Fatalf("expected wait=700ms, got %s", wait)
	}
	if w.Admitted() != 2 {
		t.Fatalf("refused admission must not change the counter, got %d", w.Admitted())
	}
}

func TestWindow_OldestAdmissionLeavesAtDuration(t *testing.T) {
	t0 := time.Unix(1000, 0)
	w := NewWindow(2, time.Second)
	w.Admit(t0)
	w.Admit(t0.Add(900 * time.Millisecond))

	if _, ok := w.Admit(t0.Add(999 * time.Millisecond)); ok {
		t.Fatalf("expected refusal while both admissions are inside the window")
	}
	if _, ok := w.Admit(t0.Add(time.Second)); !ok {
		t.Fatalf("expected admission once the oldest one left the window")
	}
	if got := w.Start(); !got.Equal(t0.Add(900 * time.Millisecond)) {
		t.Fatalf("expected start to move to the oldest retained admission, got %v", got)
	}

	// a janela é deslizante: a admissão de 900ms ainda segura a próxima
	wait, ok := w.Admit(t0.Add(time.Second))
	if ok {
		t.Fatalf("expected refusal, window is full again")
	}
	if wait != 900*time.Millisecond {
		t.Fatalf("expected wait=900ms, got %s", wait)
	}
}

func TestWindow_ExpireEmptiesAfterIdle(t *testing.T) {
	t0 := time.Unix(0, 0)
	w := NewWindow(3, time.Second)
	w.Admit(t0)
	w.Admit(t0)

	w.Expire(t0.Add(5 * time.Second))
	if w.Admitted() != 0 {
		t.Fatalf("expected empty window, got %d", w.Admitted())
	}
	if !w.Start().IsZero() {
		t.Fatalf("expected zero start on empty window")
	}
	if w.Remaining() != 3 {
		t.Fatalf("expected remaining=3, got %d", w.Remaining())
	}
}

func TestNewWindow_ClampsMax(t *testing.T) {
	w := NewWindow(0, time.Second)
	if w.Max != 1 {
		t.Fatalf("expected max clamped to 1, got %d", w.Max)
	}
}
