package conference

import (
	"context"
	"time"
)

// Provider talks to the remote conferencing server (BigBlueButton, or its
// Scalelite load-balancing front end).
type Provider interface {
	// ListSessions returns the sessions currently known to the server,
	// with their moderators.
	ListSessions(ctx context.Context) ([]Session, error)
	// ListRecordings returns the recordings the server holds for the given
	// external meeting id. The same external id is reused across repeated
	// runs of a session, so results must be filtered by internal id.
	ListRecordings(ctx context.Context, externalMeetingID string) ([]Recording, error)
}

// Session is one meeting as reported by the server. Moderators holds the
// full names of MODERATOR-role attendees only; all other roles are dropped
// at this boundary and never reach the store.
type Session struct {
	Name       string
	ExternalID string
	InternalID string
	// CreatedAt is zero when the server sent a date the client could not parse.
	CreatedAt  time.Time
	Recorded   bool
	Moderators []string
}

type Recording struct {
	InternalID string
	Playbacks  []Playback
}

type Playback struct {
	URL          string
	ThumbnailURL string
}
