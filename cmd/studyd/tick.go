package main

import (
	"context"
	"time"

	"studyhub"
)

func (e *Engine) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

type completionEvent struct {
	title   string
	soundID string
	minutes int
}

// tick advances every active session by one second. A tick that changes
// nothing persists nothing and pushes nothing.
func (e *Engine) tick(ctx context.Context) {
	e.mu.Lock()

	var completions []completionEvent
	changed := make(map[string]studyhub.SessionRecord)
	credited := 0
	for _, s := range e.sessions {
		prevInitial := s.initialMinutes
		switch s.advance() {
		case tickIdle:
			continue
		case tickCountdown:
		case tickMinuteBoundary:
			// coarse per-minute accrual; finishSession reconciles nothing
			credited++
		case tickCompleted:
			// final partial minute
			credited++
			completions = append(completions, completionEvent{title: s.title, soundID: s.selectedSoundID, minutes: prevInitial})
		case tickFocusEnded:
			credited += focusMinutes
			completions = append(completions, completionEvent{title: "Focus Ended", soundID: s.selectedSoundID, minutes: prevInitial})
		case tickBreakEnded:
			completions = append(completions, completionEvent{title: "Break Ended", soundID: s.selectedSoundID, minutes: prevInitial})
		}
		changed[s.id] = s.toRecord()
	}

	if len(changed) == 0 {
		e.mu.Unlock()
		return
	}
	if credited > 0 {
		e.stats.creditMinutes(ctx, credited)
	}
	e.mu.Unlock()

	// write-through: this tick's mutations land in one transaction
	err := e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for id, record := range changed {
			if _, err := e.repo.UpdateSession(ctx, studyhub.SessionID(id), record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		e.l.Error("failed to persist tick", "err", err)
	}

	for _, c := range completions {
		e.notifier.sessionCompleted(c)
	}
	e.pushSnapshot()
}
