package studyhub

type SessionMode uint8

const (
	_ SessionMode = iota
	FocusMode
	BreakMode
)

func (m SessionMode) String() string {
	switch m {
	case FocusMode:
		return "focus"
	case BreakMode:
		return "break"
	default:
		panic("no matching enum for SessionMode: " + string(rune(m)))
	}
}

type (
	SessionID string
	CourseID  string
)

// SessionRecord is the persisted state of one countdown timer. Mode and
// AutoCycle together drive the focus/break cycle; LinkedCourseID is empty
// for sessions that are not attached to a course.
type SessionRecord struct {
	Title          string
	LinkedCourseID CourseID

	RemainingMinutes int
	RemainingSeconds int
	InitialMinutes   int
	IsActive         bool
	Mode             SessionMode
	AutoCycle        bool
	SelectedSoundID  string
}

type ExistingSessionRecord struct {
	ExistingRecord[SessionID]
	SessionRecord
}

// StatsRecord is the single per-user daily study aggregate.
type StatsRecord struct {
	CompletedTodayMinutes int
	DailyGoalHours        float64
	StreakDays            int
	YesterdayMinutes      int
}
