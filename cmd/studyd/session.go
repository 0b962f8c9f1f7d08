package main

import (
	"time"

	"studyhub"
)

const (
	focusMinutes = 25
	breakMinutes = 5

	defaultSessionTitle = "New Session"
)

type session struct {
	id             string
	title          string
	linkedCourseID studyhub.CourseID

	remainingMinutes int
	remainingSeconds int
	initialMinutes   int
	isActive         bool
	mode             studyhub.SessionMode
	autoCycle        bool
	selectedSoundID  string

	createdAt time.Time
}

func sessionFromRecord(r studyhub.ExistingSessionRecord) *session {
	return &session{
		id:               string(r.ID),
		title:            r.Title,
		linkedCourseID:   r.LinkedCourseID,
		remainingMinutes: r.RemainingMinutes,
		remainingSeconds: r.RemainingSeconds,
		initialMinutes:   r.InitialMinutes,
		isActive:         r.IsActive,
		mode:             r.Mode,
		autoCycle:        r.AutoCycle,
		selectedSoundID:  r.SelectedSoundID,
		createdAt:        r.CreatedAt,
	}
}

func (s session) toRecord() studyhub.SessionRecord {
	return studyhub.SessionRecord{
		Title:            s.title,
		LinkedCourseID:   s.linkedCourseID,
		RemainingMinutes: s.remainingMinutes,
		RemainingSeconds: s.remainingSeconds,
		InitialMinutes:   s.initialMinutes,
		IsActive:         s.isActive,
		Mode:             s.mode,
		AutoCycle:        s.autoCycle,
		SelectedSoundID:  s.selectedSoundID,
	}
}

// elapsedSeconds is the time consumed out of the configured duration.
func (s session) elapsedSeconds() int {
	return s.initialMinutes*60 - (s.remainingMinutes*60 + s.remainingSeconds)
}

type tickOutcome uint8

const (
	tickIdle tickOutcome = iota
	tickCountdown
	tickMinuteBoundary
	tickCompleted
	tickFocusEnded
	tickBreakEnded
)

// advance applies exactly one second of countdown. The completion
// transition runs at most once: a manual session that hits 0:00 is
// deactivated and reports tickIdle on every later call.
func (s *session) advance() tickOutcome {
	if !s.isActive {
		return tickIdle
	}

	if s.remainingSeconds > 0 {
		s.remainingSeconds--
		return tickCountdown
	}

	if s.remainingMinutes > 0 {
		s.remainingMinutes--
		s.remainingSeconds = 59
		return tickMinuteBoundary
	}

	// countdown exhausted
	if !s.autoCycle {
		s.isActive = false
		return tickCompleted
	}

	if s.mode == studyhub.FocusMode {
		s.mode = studyhub.BreakMode
		s.remainingMinutes = breakMinutes
		s.remainingSeconds = 0
		s.initialMinutes = breakMinutes
		return tickFocusEnded
	}

	s.mode = studyhub.FocusMode
	s.remainingMinutes = focusMinutes
	s.remainingSeconds = 0
	s.initialMinutes = focusMinutes
	return tickBreakEnded
}
