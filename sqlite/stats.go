package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	"studyhub"
)

const (
	SelectStats = "SELECT completed_today_minutes, daily_goal_hours, streak_days, yesterday_minutes FROM study_stats WHERE id = 1"
)

type statsEntity struct {
	CompletedTodayMinutes int
	DailyGoalHours        float64
	StreakDays            int
	YesterdayMinutes      int
}

// statsRepo owns the single-row study_stats table and the kv table holding
// bare keys such as the last rollover date.
type statsRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
}

func NewStatsRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *statsRepo {
	return &statsRepo{dbGetter: dbGetter, l: logger}
}

func (r *statsRepo) GetStats(ctx context.Context) (studyhub.StatsRecord, bool, error) {
	db := r.dbGetter(ctx)
	row := db.QueryRowContext(ctx, SelectStats)

	var e statsEntity
	if err := row.Scan(&e.CompletedTodayMinutes, &e.DailyGoalHours, &e.StreakDays, &e.YesterdayMinutes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return studyhub.StatsRecord{}, false, nil
		}
		return studyhub.StatsRecord{}, false, err
	}

	return studyhub.StatsRecord{
		CompletedTodayMinutes: e.CompletedTodayMinutes,
		DailyGoalHours:        e.DailyGoalHours,
		StreakDays:            e.StreakDays,
		YesterdayMinutes:      e.YesterdayMinutes,
	}, true, nil
}

func (r *statsRepo) SaveStats(ctx context.Context, stats studyhub.StatsRecord) error {
	db := r.dbGetter(ctx)
	query := `INSERT INTO study_stats (id, completed_today_minutes, daily_goal_hours, streak_days, yesterday_minutes, updated_at)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	completed_today_minutes = excluded.completed_today_minutes,
	daily_goal_hours = excluded.daily_goal_hours,
	streak_days = excluded.streak_days,
	yesterday_minutes = excluded.yesterday_minutes,
	updated_at = excluded.updated_at`
	args := []any{
		stats.CompletedTodayMinutes,
		stats.DailyGoalHours,
		stats.StreakDays,
		stats.YesterdayMinutes,
		time.Now().Unix(),
	}
	r.l.Debug("saving stats", "query", query, "args", args)
	_, err := db.ExecContext(ctx, query, args...)
	return err
}

func (r *statsRepo) GetValue(ctx context.Context, key string) (string, error) {
	db := r.dbGetter(ctx)
	row := db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *statsRepo) SetValue(ctx context.Context, key, value string) error {
	db := r.dbGetter(ctx)
	query := "INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value"
	r.l.Debug("setting kv", "key", key, "value", value)
	_, err := db.ExecContext(ctx, query, key, value)
	return err
}
