package main

// Views are the read-only projections pushed to the dashboard UI; field
// names follow the UI's session shape.

type sessionView struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	LinkedCourseID string `json:"courseId,omitempty"`
	Minutes        int    `json:"minutes"`
	Seconds        int    `json:"seconds"`
	InitialMinutes int    `json:"initialMinutes"`
	IsActive       bool   `json:"isActive"`
	Mode           string `json:"mode"`
	AutoCycle      bool   `json:"autoCycle"`
	SelectedSound  string `json:"selectedSound"`
}

type statsView struct {
	CompletedToday int     `json:"completedToday"`
	DailyGoal      float64 `json:"dailyGoal"`
	Streak         int     `json:"streak"`
	Yesterday      int     `json:"yesterday"`
	Progress       float64 `json:"progress"`
}

type snapshot struct {
	Sessions           []sessionView `json:"sessions"`
	Stats              statsView     `json:"stats"`
	ActiveSessionCount int           `json:"activeSessionCount"`
	AmbientSound       string        `json:"ambientSound,omitempty"`
}

func (s session) view() sessionView {
	return sessionView{
		ID:             s.id,
		Title:          s.title,
		LinkedCourseID: string(s.linkedCourseID),
		Minutes:        s.remainingMinutes,
		Seconds:        s.remainingSeconds,
		InitialMinutes: s.initialMinutes,
		IsActive:       s.isActive,
		Mode:           s.mode.String(),
		AutoCycle:      s.autoCycle,
		SelectedSound:  s.selectedSoundID,
	}
}
