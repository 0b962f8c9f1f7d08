package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"studyhub"
)

const (
	lastRolloverDateKey   = "last_study_reset_date"
	rolloverDateLayout    = "2006-01-02"
	defaultDailyGoalHours = 4
)

// statsEngine owns the daily aggregate. Callers hold the engine lock; the
// goal notification is handed off through notify and never blocks.
type statsEngine struct {
	stats            studyhub.StatsRecord
	lastNotifiedGoal float64

	repo   studyhub.StatsRepo
	notify func(title, message string, severity studyhub.Severity)
	l      log.Logger
}

func newStatsEngine(repo studyhub.StatsRepo, notify func(string, string, studyhub.Severity), logger log.Logger) *statsEngine {
	return &statsEngine{
		repo:   repo,
		notify: notify,
		l:      logger,
	}
}

func (se *statsEngine) restore(ctx context.Context) error {
	stats, found, err := se.repo.GetStats(ctx)
	if err != nil {
		return err
	}
	if !found {
		stats = studyhub.StatsRecord{DailyGoalHours: defaultDailyGoalHours}
		if err := se.repo.SaveStats(ctx, stats); err != nil {
			return err
		}
	}
	se.stats = stats
	return nil
}

func (se *statsEngine) creditMinutes(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	se.stats.CompletedTodayMinutes += n
	if err := se.repo.SaveStats(ctx, se.stats); err != nil {
		se.l.Error("failed to save stats", "err", err)
	}
	se.maybeNotifyGoalReached()
}

func (se *statsEngine) updateDailyGoal(ctx context.Context, hours float64) {
	se.stats.DailyGoalHours = hours
	// watermark resets whenever the goal changes
	se.lastNotifiedGoal = 0
	if err := se.repo.SaveStats(ctx, se.stats); err != nil {
		se.l.Error("failed to save stats", "err", err)
	}
	se.maybeNotifyGoalReached()
}

// goalProgress is the percentage of the daily goal completed, clamped to 100.
func (se *statsEngine) goalProgress() float64 {
	goalMinutes := se.stats.DailyGoalHours * 60
	if goalMinutes <= 0 {
		return 0
	}
	p := float64(se.stats.CompletedTodayMinutes) / goalMinutes * 100
	if p > 100 {
		p = 100
	}
	return p
}

func (se *statsEngine) maybeNotifyGoalReached() {
	goal := se.stats.DailyGoalHours
	if goal <= 0 || se.lastNotifiedGoal == goal {
		return
	}
	if se.goalProgress() < 100 {
		return
	}
	se.lastNotifiedGoal = goal
	se.notify(
		"Goal Achieved!",
		fmt.Sprintf("You completed %g hours of studying today. Keep shining!", goal),
		studyhub.SuccessSeverity,
	)
}

func (se *statsEngine) rolloverIfNeeded(ctx context.Context, now time.Time) error {
	today := now.Format(rolloverDateLayout)
	prev, err := se.repo.GetValue(ctx, lastRolloverDateKey)
	if err != nil {
		return err
	}
	if prev == today {
		return nil
	}

	se.stats, _ = rollover(se.stats, prev, today)
	if err := se.repo.SaveStats(ctx, se.stats); err != nil {
		return err
	}
	if err := se.repo.SetValue(ctx, lastRolloverDateKey, today); err != nil {
		return err
	}
	se.l.Info("daily stats rollover", "date", today, "streak", se.stats.StreakDays)
	return nil
}

// rollover applies the once-a-day reset. Same date is a no-op; otherwise
// today's total becomes yesterday's, the counter resets, and the streak
// increments only when prevDate is exactly one calendar day before today.
func rollover(stats studyhub.StatsRecord, prevDate, today string) (studyhub.StatsRecord, string) {
	if prevDate == today {
		return stats, prevDate
	}

	next := stats
	next.YesterdayMinutes = stats.CompletedTodayMinutes
	next.CompletedTodayMinutes = 0
	if isNextDay(prevDate, today) {
		next.StreakDays++
	} else if stats.CompletedTodayMinutes > 0 {
		next.StreakDays = 1
	}
	return next, today
}

func isNextDay(prevDate, today string) bool {
	prev, err := time.Parse(rolloverDateLayout, prevDate)
	if err != nil {
		return false
	}
	cur, err := time.Parse(rolloverDateLayout, today)
	if err != nil {
		return false
	}
	return prev.AddDate(0, 0, 1).Equal(cur)
}
