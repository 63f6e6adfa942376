package models

import "time"

// Meeting is one concrete run of a conference session, tracked both on the
// conference server and locally. internal_meeting_id is the join key: the
// remote meeting_id is stable across runs of the same room and therefore
// not unique over time.
type Meeting struct {
	ID                uint      `gorm:"column:id;primaryKey" json:"id"`
	MeetingID         string    `gorm:"column:meeting_id;type:text;index" json:"meeting_id"`
	InternalMeetingID string    `gorm:"column:internal_meeting_id;type:text;uniqueIndex" json:"internal_meeting_id"`
	MeetingName       string    `gorm:"column:meeting_name;type:text" json:"meeting_name"`
	SessionDate       time.Time `gorm:"column:session_date;type:timestamptz" json:"session_date"`

	// Recorded means the server asserted a recording was requested; the flag
	// is unreliable for stale sessions, hence the bounded recording poll.
	Recorded           bool    `gorm:"column:recorded;default:false" json:"recorded"`
	RecordingAvailable bool    `gorm:"column:recording_available;default:false" json:"recording_available"`
	RecordingURL       *string `gorm:"column:recording_url;type:text" json:"recording_url,omitempty"`
	ThumbnailURL       *string `gorm:"column:thumbnail_url;type:text" json:"thumbnail_url,omitempty"`

	// Progress of the downstream encoding pipeline. Always 0 at creation,
	// mutated only by the encoding workers.
	EncodingStep int   `gorm:"column:encoding_step;default:0" json:"encoding_step"`
	EncodedByID  *uint `gorm:"column:encoded_by_id" json:"encoded_by_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Meeting) TableName() string { return "meetings" }
