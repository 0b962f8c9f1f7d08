package studyhub

import "context"

// Severity values match the dashboard API's notification `type` field.
type Severity uint8

const (
	InfoSeverity Severity = iota
	WarningSeverity
	SuccessSeverity
	ErrorSeverity
)

// NotificationService is the dashboard's navbar notification feed. Callers
// treat it as best-effort; the engine never fails an operation because a
// notification could not be recorded.
type NotificationService interface {
	CreateNotification(ctx context.Context, title, message string, severity Severity) error
}

type Course struct {
	ID             CourseID
	Title          string
	CompletedHours float64
}

// CourseService exposes the two course endpoints finishSession needs.
type CourseService interface {
	GetCourse(context.Context, CourseID) (Course, error)
	UpdateCourse(ctx context.Context, id CourseID, completedHours float64) error
}
