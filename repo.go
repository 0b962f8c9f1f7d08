package studyhub

import "context"

type SessionRepo interface {
	InsertSession(context.Context, SessionRecord) (ExistingSessionRecord, error)
	UpdateSession(context.Context, SessionID, SessionRecord) (ExistingSessionRecord, error)
	DeleteSession(context.Context, SessionID) error
	GetSession(context.Context, SessionID) (ExistingSessionRecord, error)
	GetAllSessions(context.Context) ([]ExistingSessionRecord, error)
}

type StatsRepo interface {
	// GetStats reports found=false when no snapshot has been saved yet.
	GetStats(context.Context) (stats StatsRecord, found bool, err error)
	SaveStats(context.Context, StatsRecord) error

	// GetValue returns "" for an absent key.
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
}
