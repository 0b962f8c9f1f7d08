package main

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"

	"studyhub"
)

// uiSink is the push surface toward connected dashboard clients. All three
// calls are fire-and-forget from the engine's point of view.
type uiSink interface {
	Toast(message, kind string)
	SoundCue(soundID string)
	PushSnapshot(snapshot)
}

// Engine owns the session registry and the stats aggregate. All mutations
// go through its lock, so a tick and a UI operation never interleave
// within one logical change.
type Engine struct {
	mu             sync.Mutex
	sessions       map[string]*session
	stats          *statsEngine
	ambientSoundID string

	repo     studyhub.SessionRepo
	tx       transactor.Transactor
	notifs   studyhub.NotificationService
	courses  studyhub.CourseService
	notifier *notifier
	sink     uiSink
	l        log.Logger

	parentCtx context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewEngine(
	ctx context.Context,
	sessionRepo studyhub.SessionRepo,
	statsRepo studyhub.StatsRepo,
	tx transactor.Transactor,
	notifs studyhub.NotificationService,
	courses studyhub.CourseService,
	sink uiSink,
	logger log.Logger,
) *Engine {
	e := &Engine{
		sessions:  make(map[string]*session),
		repo:      sessionRepo,
		tx:        tx,
		notifs:    notifs,
		courses:   courses,
		sink:      sink,
		l:         logger,
		parentCtx: ctx,
	}
	e.stats = newStatsEngine(statsRepo, e.notifyAsync, logger)
	e.notifier = &notifier{engine: e}
	return e
}

// Restore loads persisted state. Timers never resume across restarts;
// every restored session comes back inactive. The daily rollover check
// runs here so a fresh calendar day is detected before the first tick.
func (e *Engine) Restore(ctx context.Context) error {
	records, err := e.repo.GetAllSessions(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		s := sessionFromRecord(r)
		s.isActive = false
		e.sessions[s.id] = s
	}

	if err := e.stats.restore(ctx); err != nil {
		return err
	}
	if err := e.stats.rolloverIfNeeded(ctx, time.Now()); err != nil {
		return err
	}

	e.l.Info("restored sessions", "count", len(records))
	return nil
}

func (e *Engine) Start() {
	ctx, cancel := context.WithCancel(e.parentCtx)
	e.cancel = cancel
	e.wg.Go(func() {
		e.run(ctx)
	})
}

func (e *Engine) Shutdown() error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for the tick loop and in-flight notification goroutines
	e.wg.Wait()
	return nil
}

func (e *Engine) AddSession(ctx context.Context, title string, courseID studyhub.CourseID) (sessionView, error) {
	if title == "" {
		title = defaultSessionTitle
	}
	record := studyhub.SessionRecord{
		Title:            title,
		LinkedCourseID:   courseID,
		RemainingMinutes: focusMinutes,
		RemainingSeconds: 0,
		InitialMinutes:   focusMinutes,
		IsActive:         false,
		Mode:             studyhub.FocusMode,
		AutoCycle:        false,
		SelectedSoundID:  defaultSoundID,
	}

	var inserted studyhub.ExistingSessionRecord
	err := e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = e.repo.InsertSession(ctx, record)
		return err
	})
	if err != nil {
		return sessionView{}, fmt.Errorf("failed to add session: %w", err)
	}

	s := sessionFromRecord(inserted)
	e.mu.Lock()
	e.sessions[s.id] = s
	e.mu.Unlock()

	e.notifyAsync("New Session", fmt.Sprintf("Created study session %q.", s.title), studyhub.InfoSeverity)
	e.pushSnapshot()
	return s.view(), nil
}

func (e *Engine) RemoveSession(ctx context.Context, id string) {
	e.mu.Lock()
	_, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()
	if !ok {
		return
	}

	if err := e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return e.repo.DeleteSession(ctx, studyhub.SessionID(id))
	}); err != nil {
		e.l.Error("failed to delete session", "id", id, "err", err)
	}
	e.pushSnapshot()
}

func (e *Engine) ToggleSession(ctx context.Context, id string) {
	e.mu.Lock()
	s := e.sessions[id]
	if s == nil {
		e.mu.Unlock()
		return
	}
	s.isActive = !s.isActive
	record, active, title := s.toRecord(), s.isActive, s.title
	e.mu.Unlock()

	e.persistSession(ctx, id, record)
	if active {
		e.notifyAsync("Session Started", fmt.Sprintf("Study session %q is now running.", title), studyhub.InfoSeverity)
	}
	e.pushSnapshot()
}

func (e *Engine) ResetSession(ctx context.Context, id string) {
	e.mu.Lock()
	s := e.sessions[id]
	if s == nil {
		e.mu.Unlock()
		return
	}
	s.isActive = false
	s.remainingMinutes = s.initialMinutes
	s.remainingSeconds = 0
	record := s.toRecord()
	e.mu.Unlock()

	e.persistSession(ctx, id, record)
	e.pushSnapshot()
}

type sessionPatch struct {
	Title          *string `json:"title"`
	InitialMinutes *int    `json:"initialMinutes"`
	Minutes        *int    `json:"minutes"`
	Seconds        *int    `json:"seconds"`
	AutoCycle      *bool   `json:"autoCycle"`
	SelectedSound  *string `json:"selectedSound"`
}

func (e *Engine) UpdateSession(ctx context.Context, id string, patch sessionPatch) {
	e.mu.Lock()
	s := e.sessions[id]
	if s == nil {
		e.mu.Unlock()
		return
	}
	if patch.Title != nil {
		s.title = *patch.Title
	}
	if patch.SelectedSound != nil {
		s.selectedSoundID = *patch.SelectedSound
	}
	if patch.AutoCycle != nil {
		s.autoCycle = *patch.AutoCycle
	}
	if patch.InitialMinutes != nil {
		s.initialMinutes = *patch.InitialMinutes
		// a duration change rebaselines the countdown unless the caller
		// supplied explicit remaining time
		if patch.Minutes == nil && patch.Seconds == nil {
			s.remainingMinutes = s.initialMinutes
			s.remainingSeconds = 0
		}
	}
	if patch.Minutes != nil {
		s.remainingMinutes = *patch.Minutes
	}
	if patch.Seconds != nil {
		s.remainingSeconds = *patch.Seconds
	}
	record := s.toRecord()
	e.mu.Unlock()

	e.persistSession(ctx, id, record)
	e.pushSnapshot()
}

// FinishSession saves the elapsed time of a linked-course session back to
// the course and resets the timer. It is the only operation whose external
// failure is surfaced to the user.
func (e *Engine) FinishSession(ctx context.Context, id string) error {
	e.mu.Lock()
	s := e.sessions[id]
	if s == nil || s.linkedCourseID == "" {
		e.mu.Unlock()
		return nil
	}
	courseID := s.linkedCourseID
	elapsedSeconds := s.elapsedSeconds()
	e.mu.Unlock()

	if elapsedSeconds <= 0 {
		e.sink.Toast("No progress to save", "info")
		return nil
	}

	course, err := e.courses.GetCourse(ctx, courseID)
	if err != nil {
		e.sink.Toast("Error saving progress", "error")
		return fmt.Errorf("failed to fetch course %s: %w", courseID, err)
	}

	spentHours := float64(elapsedSeconds) / 3600
	if err := e.courses.UpdateCourse(ctx, courseID, course.CompletedHours+spentHours); err != nil {
		e.sink.Toast("Error saving progress", "error")
		return fmt.Errorf("failed to update course %s: %w", courseID, err)
	}

	minutesSpent := int(math.Round(float64(elapsedSeconds) / 60))
	if minutesSpent < 1 {
		minutesSpent = 1
	}
	e.notifyAsync("Progress Updated", fmt.Sprintf("Added %d minutes to your progress in %q.", minutesSpent, course.Title), studyhub.SuccessSeverity)
	e.sink.Toast(fmt.Sprintf("Saved %d minutes to the course", minutesSpent), "success")

	e.ResetSession(ctx, id)
	return nil
}

func (e *Engine) UpdateDailyGoal(ctx context.Context, hours float64) {
	e.mu.Lock()
	e.stats.updateDailyGoal(ctx, hours)
	e.mu.Unlock()
	e.pushSnapshot()
}

// RolloverCheck re-runs the daily rollover; idempotent per calendar date.
func (e *Engine) RolloverCheck(ctx context.Context) error {
	e.mu.Lock()
	err := e.stats.rolloverIfNeeded(ctx, time.Now())
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.pushSnapshot()
	return nil
}

// SetAmbientSound selects the looped background track; empty id turns it
// off. Ambient playback is independent of the timers.
func (e *Engine) SetAmbientSound(id string) {
	e.mu.Lock()
	e.ambientSoundID = id
	e.mu.Unlock()
	e.pushSnapshot()
}

func (e *Engine) Snapshot() snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	ordered := make([]*session, 0, len(e.sessions))
	for _, s := range e.sessions {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].createdAt.Before(ordered[j].createdAt)
	})

	views := make([]sessionView, 0, len(ordered))
	active := 0
	for _, s := range ordered {
		if s.isActive {
			active++
		}
		views = append(views, s.view())
	}

	return snapshot{
		Sessions: views,
		Stats: statsView{
			CompletedToday: e.stats.stats.CompletedTodayMinutes,
			DailyGoal:      e.stats.stats.DailyGoalHours,
			Streak:         e.stats.stats.StreakDays,
			Yesterday:      e.stats.stats.YesterdayMinutes,
			Progress:       e.stats.goalProgress(),
		},
		ActiveSessionCount: active,
		AmbientSound:       e.ambientSoundID,
	}
}

func (e *Engine) pushSnapshot() {
	e.sink.PushSnapshot(e.Snapshot())
}

func (e *Engine) persistSession(ctx context.Context, id string, record studyhub.SessionRecord) {
	err := e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := e.repo.UpdateSession(ctx, studyhub.SessionID(id), record)
		return err
	})
	if err != nil {
		e.l.Error("failed to persist session", "id", id, "err", err)
	}
}

// notifyAsync records a navbar notification without blocking the caller;
// failures are logged and swallowed.
func (e *Engine) notifyAsync(title, message string, severity studyhub.Severity) {
	e.wg.Go(func() {
		ctx, cancel := context.WithTimeout(e.parentCtx, 10*time.Second)
		defer cancel()
		if err := e.notifs.CreateNotification(ctx, title, message, severity); err != nil {
			e.l.Error("failed to create notification", "title", title, "err", err)
		}
	})
}
