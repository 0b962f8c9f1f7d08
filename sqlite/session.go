package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"studyhub"
)

const (
	SelectAllSessions = "SELECT id, title, linked_course_id, remaining_minutes, remaining_seconds, initial_minutes, is_active, mode, auto_cycle, selected_sound_id, created_at, updated_at FROM sessions"
)

type sessionEntity struct {
	ID               string
	Title            string
	LinkedCourseID   string
	RemainingMinutes int
	RemainingSeconds int
	InitialMinutes   int
	IsActive         bool
	Mode             uint8
	AutoCycle        bool
	SelectedSoundID  string
	CreatedAt        int64
	UpdatedAt        int64
}

type sessionRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
	*statsRepo
}

func NewSessionRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *sessionRepo {
	return &sessionRepo{
		l:         logger,
		dbGetter:  dbGetter,
		statsRepo: &statsRepo{dbGetter: dbGetter, l: logger},
	}
}

func (r *sessionRepo) InsertSession(ctx context.Context, session studyhub.SessionRecord) (studyhub.ExistingSessionRecord, error) {
	db := r.dbGetter(ctx)
	existingRecord := studyhub.ExistingSessionRecord{
		SessionRecord:  session,
		ExistingRecord: studyhub.NewExistingRecord[studyhub.SessionID](uuid.NewString()),
	}
	e := mapToSessionEntity(existingRecord)

	args := []any{
		e.ID,
		e.Title,
		e.LinkedCourseID,
		e.RemainingMinutes,
		e.RemainingSeconds,
		e.InitialMinutes,
		e.IsActive,
		e.Mode,
		e.AutoCycle,
		e.SelectedSoundID,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO sessions (id, title, linked_course_id, remaining_minutes, remaining_seconds, initial_minutes, is_active, mode, auto_cycle, selected_sound_id, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating session", "query", query, "args", args)
	_, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return studyhub.ExistingSessionRecord{}, err
	}

	return existingRecord, nil
}

func (r *sessionRepo) UpdateSession(ctx context.Context, id studyhub.SessionID, s studyhub.SessionRecord) (studyhub.ExistingSessionRecord, error) {
	existing, err := r.GetSession(ctx, id)
	if err != nil {
		return existing, err
	}

	existing.SessionRecord = s
	existing.UpdatedAt = time.Now()
	e := mapToSessionEntity(existing)

	query := "UPDATE sessions SET title = ?, linked_course_id = ?, remaining_minutes = ?, remaining_seconds = ?, initial_minutes = ?, is_active = ?, mode = ?, auto_cycle = ?, selected_sound_id = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.Title,
		e.LinkedCourseID,
		e.RemainingMinutes,
		e.RemainingSeconds,
		e.InitialMinutes,
		e.IsActive,
		e.Mode,
		e.AutoCycle,
		e.SelectedSoundID,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating session", "query", query, "args", args)
	_, err = r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return studyhub.ExistingSessionRecord{}, err
	}

	return existing, nil
}

func (r *sessionRepo) DeleteSession(ctx context.Context, id studyhub.SessionID) error {
	db := r.dbGetter(ctx)
	query := "DELETE FROM sessions WHERE id = ?"
	r.l.Debug("deleting session", "query", query, "id", id)
	_, err := db.ExecContext(ctx, query, id)
	return err
}

func (r *sessionRepo) GetSession(ctx context.Context, id studyhub.SessionID) (studyhub.ExistingSessionRecord, error) {
	if id == "" {
		return studyhub.ExistingSessionRecord{}, fmt.Errorf("provide id")
	}

	db := r.dbGetter(ctx)
	row := db.QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllSessions), id,
	)

	return extractSession(row)
}

func (r *sessionRepo) GetAllSessions(ctx context.Context) ([]studyhub.ExistingSessionRecord, error) {
	db := r.dbGetter(ctx)
	query := SelectAllSessions + " ORDER BY created_at"
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var sessions []studyhub.ExistingSessionRecord
	for rows.Next() {
		session, err := extractSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func extractSession(s scannable) (studyhub.ExistingSessionRecord, error) {
	var e sessionEntity
	if err := s.Scan(&e.ID, &e.Title, &e.LinkedCourseID, &e.RemainingMinutes, &e.RemainingSeconds, &e.InitialMinutes, &e.IsActive, &e.Mode, &e.AutoCycle, &e.SelectedSoundID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return studyhub.ExistingSessionRecord{}, ErrNotFound
		}
		return studyhub.ExistingSessionRecord{}, err
	}

	return mapToExistingSessionRecord(e), nil
}

func mapToSessionEntity(session studyhub.ExistingSessionRecord) sessionEntity {
	return sessionEntity{
		ID:               string(session.ID),
		Title:            session.Title,
		LinkedCourseID:   string(session.LinkedCourseID),
		RemainingMinutes: session.RemainingMinutes,
		RemainingSeconds: session.RemainingSeconds,
		InitialMinutes:   session.InitialMinutes,
		IsActive:         session.IsActive,
		Mode:             uint8(session.Mode),
		AutoCycle:        session.AutoCycle,
		SelectedSoundID:  session.SelectedSoundID,
		CreatedAt:        session.CreatedAt.Unix(),
		UpdatedAt:        session.UpdatedAt.Unix(),
	}
}

func mapToExistingSessionRecord(e sessionEntity) studyhub.ExistingSessionRecord {
	return studyhub.ExistingSessionRecord{
		ExistingRecord: studyhub.ExistingRecord[studyhub.SessionID]{
			ID:        studyhub.SessionID(e.ID),
			CreatedAt: time.Unix(e.CreatedAt, 0),
			UpdatedAt: time.Unix(e.UpdatedAt, 0),
		},
		SessionRecord: studyhub.SessionRecord{
			Title:            e.Title,
			LinkedCourseID:   studyhub.CourseID(e.LinkedCourseID),
			RemainingMinutes: e.RemainingMinutes,
			RemainingSeconds: e.RemainingSeconds,
			InitialMinutes:   e.InitialMinutes,
			IsActive:         e.IsActive,
			Mode:             studyhub.SessionMode(e.Mode),
			AutoCycle:        e.AutoCycle,
			SelectedSoundID:  e.SelectedSoundID,
		},
	}
}
