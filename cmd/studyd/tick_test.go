package main

import (
	"context"
	"errors"
	"math"
	"testing"

	"studyhub"
)

func TestEngine_Tick(t *testing.T) {
	t.Parallel()

	t.Run("no active session is a no-op", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["s1"] = &session{id: "s1", remainingMinutes: 10, initialMinutes: 10, mode: studyhub.FocusMode}
		te.engine.tick(context.Background())
		if len(te.repo.updateCalls) != 0 {
			t.Error("expected no persistence when nothing is active")
		}
		if te.sink.snapshots != 0 {
			t.Error("expected no snapshot push when nothing changed")
		}
	})

	t.Run("advances only active sessions", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["a"] = &session{id: "a", remainingMinutes: 10, remainingSeconds: 30, initialMinutes: 10, isActive: true, mode: studyhub.FocusMode}
		te.engine.sessions["b"] = &session{id: "b", remainingMinutes: 10, remainingSeconds: 30, initialMinutes: 10, mode: studyhub.FocusMode}
		te.engine.tick(context.Background())

		if got := te.engine.sessions["a"].remainingSeconds; got != 29 {
			t.Errorf("active session: expected 29s, got %d", got)
		}
		if got := te.engine.sessions["b"].remainingSeconds; got != 30 {
			t.Errorf("inactive session: expected untouched 30s, got %d", got)
		}
		if len(te.repo.updateCalls) != 1 {
			t.Errorf("expected exactly the changed session persisted, got %d", len(te.repo.updateCalls))
		}
	})

	t.Run("minute boundary credits stats", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["s1"] = &session{id: "s1", remainingMinutes: 10, remainingSeconds: 0, initialMinutes: 10, isActive: true, mode: studyhub.FocusMode}
		te.engine.tick(context.Background())

		s := te.engine.sessions["s1"]
		if s.remainingMinutes != 9 || s.remainingSeconds != 59 {
			t.Errorf("expected 9:59, got %d:%02d", s.remainingMinutes, s.remainingSeconds)
		}
		if te.engine.stats.stats.CompletedTodayMinutes != 1 {
			t.Errorf("expected 1 credited minute, got %d", te.engine.stats.stats.CompletedTodayMinutes)
		}
	})

	t.Run("manual completion fires side effects once", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["s1"] = &session{
			id: "s1", title: "Deep Work", selectedSoundID: "bell", mode: studyhub.FocusMode,
			remainingMinutes: 0, remainingSeconds: 0, initialMinutes: 25, isActive: true,
		}
		te.engine.tick(context.Background())

		s := te.engine.sessions["s1"]
		if s.isActive {
			t.Error("expected session inactive after completion")
		}
		if s.remainingMinutes != 0 || s.remainingSeconds != 0 {
			t.Error("expected remaining to stay at 0:00")
		}
		if len(te.sink.cues) != 1 || te.sink.cues[0] != "bell" {
			t.Errorf("expected one sound cue for %q, got %v", "bell", te.sink.cues)
		}
		if len(te.sink.toasts) != 1 {
			t.Errorf("expected one toast, got %d", len(te.sink.toasts))
		}
		if te.engine.stats.stats.CompletedTodayMinutes != 1 {
			t.Errorf("expected final partial-minute credit, got %d", te.engine.stats.stats.CompletedTodayMinutes)
		}

		// the next tick must not re-run completion
		te.engine.tick(context.Background())
		if len(te.sink.cues) != 1 {
			t.Error("completion side effects ran twice")
		}
	})

	t.Run("auto-cycle focus to break", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["s1"] = &session{
			id: "s1", title: "Pomodoro", selectedSoundID: defaultSoundID,
			remainingMinutes: 0, remainingSeconds: 0, initialMinutes: 25,
			isActive: true, mode: studyhub.FocusMode, autoCycle: true,
		}
		te.engine.tick(context.Background())

		s := te.engine.sessions["s1"]
		if s.mode != studyhub.BreakMode {
			t.Errorf("expected break mode, got %v", s.mode)
		}
		if s.remainingMinutes != 5 || s.remainingSeconds != 0 {
			t.Errorf("expected 5:00, got %d:%02d", s.remainingMinutes, s.remainingSeconds)
		}
		if !s.isActive {
			t.Error("auto-cycle must keep the session running")
		}
		if te.engine.stats.stats.CompletedTodayMinutes != 25 {
			t.Errorf("expected 25 credited minutes for the focus block, got %d", te.engine.stats.stats.CompletedTodayMinutes)
		}
	})

	t.Run("auto-cycle break to focus", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["s1"] = &session{
			id: "s1", title: "Pomodoro", selectedSoundID: defaultSoundID,
			remainingMinutes: 0, remainingSeconds: 0, initialMinutes: 5,
			isActive: true, mode: studyhub.BreakMode, autoCycle: true,
		}
		te.engine.tick(context.Background())

		s := te.engine.sessions["s1"]
		if s.mode != studyhub.FocusMode {
			t.Errorf("expected focus mode, got %v", s.mode)
		}
		if s.remainingMinutes != 25 || s.remainingSeconds != 0 {
			t.Errorf("expected 25:00, got %d:%02d", s.remainingMinutes, s.remainingSeconds)
		}
		if !s.isActive {
			t.Error("auto-cycle must keep the session running")
		}
		// breaks do not credit study minutes
		if te.engine.stats.stats.CompletedTodayMinutes != 0 {
			t.Errorf("expected no credit for a break, got %d", te.engine.stats.stats.CompletedTodayMinutes)
		}
	})

	t.Run("removal between ticks leaves others correct", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["a"] = &session{id: "a", remainingMinutes: 5, remainingSeconds: 10, initialMinutes: 5, isActive: true, mode: studyhub.FocusMode}
		te.engine.sessions["b"] = &session{id: "b", remainingMinutes: 5, remainingSeconds: 10, initialMinutes: 5, isActive: true, mode: studyhub.FocusMode}

		te.engine.tick(context.Background())
		te.engine.RemoveSession(context.Background(), "a")
		te.engine.tick(context.Background())

		if got := te.engine.sessions["b"].remainingSeconds; got != 8 {
			t.Errorf("expected survivor at 5:08, got 5:%02d", got)
		}
		if _, ok := te.engine.sessions["a"]; ok {
			t.Error("expected removed session gone")
		}
	})
}

func TestEngine_FinishSession(t *testing.T) {
	t.Parallel()

	newLinkedSession := func() *session {
		return &session{
			id: "s1", title: "Algorithms practice", linkedCourseID: "course-7",
			remainingMinutes: 15, remainingSeconds: 0, initialMinutes: 25,
			isActive: true, mode: studyhub.FocusMode, selectedSoundID: defaultSoundID,
		}
	}

	t.Run("saves elapsed hours to the course", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["s1"] = newLinkedSession()
		te.courses.getFunc = func(context.Context, studyhub.CourseID) (studyhub.Course, error) {
			return studyhub.Course{ID: "course-7", Title: "Algorithms", CompletedHours: 2}, nil
		}

		if err := te.engine.FinishSession(context.Background(), "s1"); err != nil {
			t.Fatalf("FinishSession failed: %v", err)
		}

		// 10 elapsed minutes out of 25 → 10/60 hours on top of the stored 2
		if len(te.courses.updatedHours) != 1 {
			t.Fatalf("expected 1 course update, got %d", len(te.courses.updatedHours))
		}
		want := 2 + 600.0/3600
		if math.Abs(te.courses.updatedHours[0]-want) > 1e-9 {
			t.Errorf("expected %.4f completed hours, got %.4f", want, te.courses.updatedHours[0])
		}

		s := te.engine.sessions["s1"]
		if s.isActive || s.remainingMinutes != 25 || s.remainingSeconds != 0 {
			t.Errorf("expected session reset to 25:00 inactive, got active=%v %d:%02d", s.isActive, s.remainingMinutes, s.remainingSeconds)
		}
		if len(te.sink.toasts) != 1 || te.sink.toasts[0].kind != "success" {
			t.Errorf("expected success toast, got %v", te.sink.toasts)
		}
	})

	t.Run("zero elapsed makes no external call", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		s := newLinkedSession()
		s.remainingMinutes = 25
		te.engine.sessions["s1"] = s

		if err := te.engine.FinishSession(context.Background(), "s1"); err != nil {
			t.Fatal(err)
		}
		if te.courses.getCalls != 0 || len(te.courses.updatedHours) != 0 {
			t.Error("expected no course calls for zero elapsed time")
		}
		if len(te.sink.toasts) != 1 || te.sink.toasts[0].kind != "info" {
			t.Errorf("expected informational toast, got %v", te.sink.toasts)
		}
	})

	t.Run("course update failure leaves session unchanged", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		te.engine.sessions["s1"] = newLinkedSession()
		te.courses.updateFunc = func(context.Context, studyhub.CourseID, float64) error {
			return errors.New("update failed")
		}

		if err := te.engine.FinishSession(context.Background(), "s1"); err == nil {
			t.Fatal("expected error when course update fails")
		}
		s := te.engine.sessions["s1"]
		if !s.isActive || s.remainingMinutes != 15 {
			t.Error("session state must be unchanged after a failed save")
		}
		if len(te.sink.toasts) != 1 || te.sink.toasts[0].kind != "error" {
			t.Errorf("expected error toast, got %v", te.sink.toasts)
		}
	})

	t.Run("no linked course is a no-op", func(t *testing.T) {
		t.Parallel()

		te := newTestEngine()
		s := newLinkedSession()
		s.linkedCourseID = ""
		te.engine.sessions["s1"] = s

		if err := te.engine.FinishSession(context.Background(), "s1"); err != nil {
			t.Fatal(err)
		}
		if te.courses.getCalls != 0 {
			t.Error("expected no course calls without a linked course")
		}
	})
}
