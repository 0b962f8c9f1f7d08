package main

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"studyhub"
)

func TestRollover(t *testing.T) {
	base := studyhub.StatsRecord{
		CompletedTodayMinutes: 90,
		DailyGoalHours:        4,
		StreakDays:            3,
		YesterdayMinutes:      10,
	}

	t.Run("same date is a no-op", func(t *testing.T) {
		next, date := rollover(base, "2026-08-28", "2026-08-28")
		assert.Equal(t, base, next)
		assert.Equal(t, "2026-08-28", date)
	})

	t.Run("consecutive day extends the streak", func(t *testing.T) {
		next, date := rollover(base, "2026-08-27", "2026-08-28")
		assert.Equal(t, 90, next.YesterdayMinutes)
		assert.Equal(t, 0, next.CompletedTodayMinutes)
		assert.Equal(t, 4, next.StreakDays)
		assert.Equal(t, "2026-08-28", date)
	})

	t.Run("gap with activity restarts the streak", func(t *testing.T) {
		next, _ := rollover(base, "2026-08-24", "2026-08-28")
		assert.Equal(t, 1, next.StreakDays)
		assert.Equal(t, 90, next.YesterdayMinutes)
	})

	t.Run("gap without activity leaves the streak alone", func(t *testing.T) {
		idle := base
		idle.CompletedTodayMinutes = 0
		next, _ := rollover(idle, "2026-08-24", "2026-08-28")
		assert.Equal(t, 3, next.StreakDays)
		assert.Equal(t, 0, next.YesterdayMinutes)
	})

	t.Run("month boundary counts as consecutive", func(t *testing.T) {
		next, _ := rollover(base, "2026-08-31", "2026-09-01")
		assert.Equal(t, 4, next.StreakDays)
	})

	t.Run("first run with no stored date", func(t *testing.T) {
		fresh := studyhub.StatsRecord{DailyGoalHours: 4}
		next, date := rollover(fresh, "", "2026-08-28")
		assert.Equal(t, 0, next.CompletedTodayMinutes)
		assert.Equal(t, 0, next.StreakDays)
		assert.Equal(t, "2026-08-28", date)
	})
}

func TestStatsEngine_RolloverIdempotent(t *testing.T) {
	repo := &mockStatsRepo{
		stats: studyhub.StatsRecord{CompletedTodayMinutes: 45, DailyGoalHours: 4, StreakDays: 2},
		found: true,
		values: map[string]string{
			lastRolloverDateKey: "2026-08-27",
		},
	}
	se := newStatsEngine(repo, func(string, string, studyhub.Severity) {}, *log.Default())
	assert.NoError(t, se.restore(context.Background()))

	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	assert.NoError(t, se.rolloverIfNeeded(context.Background(), now))
	assert.Equal(t, 0, se.stats.CompletedTodayMinutes)
	assert.Equal(t, 45, se.stats.YesterdayMinutes)
	assert.Equal(t, 3, se.stats.StreakDays)

	savesAfterFirst := repo.saves
	assert.NoError(t, se.rolloverIfNeeded(context.Background(), now))
	assert.Equal(t, savesAfterFirst, repo.saves, "second check on the same date must not write")
	assert.Equal(t, 3, se.stats.StreakDays)
	assert.Equal(t, 45, se.stats.YesterdayMinutes)
}

func TestStatsEngine_GoalNotification(t *testing.T) {
	var notified []string
	se := newStatsEngine(&mockStatsRepo{}, func(title, _ string, _ studyhub.Severity) {
		notified = append(notified, title)
	}, *log.Default())
	se.stats = studyhub.StatsRecord{DailyGoalHours: 1}

	ctx := context.Background()

	se.creditMinutes(ctx, 30)
	assert.Empty(t, notified, "below goal - no notification")

	se.creditMinutes(ctx, 30)
	assert.Len(t, notified, 1, "crossing 100%% notifies once")

	se.creditMinutes(ctx, 10)
	assert.Len(t, notified, 1, "must not repeat while the goal is unchanged")

	// raising the goal resets the watermark; progress is below 100 again
	se.updateDailyGoal(ctx, 2)
	assert.Len(t, notified, 1)

	se.creditMinutes(ctx, 50)
	assert.Len(t, notified, 2, "re-notifies after the goal changed and was reached again")
}

func TestStatsEngine_GoalProgressClamped(t *testing.T) {
	se := newStatsEngine(&mockStatsRepo{}, func(string, string, studyhub.Severity) {}, *log.Default())
	se.stats = studyhub.StatsRecord{DailyGoalHours: 1, CompletedTodayMinutes: 90}
	assert.Equal(t, float64(100), se.goalProgress())

	se.stats.CompletedTodayMinutes = 30
	assert.Equal(t, float64(50), se.goalProgress())

	se.stats.DailyGoalHours = 0
	assert.Equal(t, float64(0), se.goalProgress())
}
