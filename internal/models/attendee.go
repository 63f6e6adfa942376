package models

import "time"

const RoleModerator = "MODERATOR"

// Attendee is a moderator of a Meeting as reported by the conference server.
// The server only exposes the free-text full name; UserID/Username are filled
// in later when the matcher links the name to a local account, and are never
// re-evaluated afterwards.
type Attendee struct {
	ID        uint   `gorm:"column:id;primaryKey" json:"id"`
	FullName  string `gorm:"column:full_name;type:text;uniqueIndex:uq_attendee_meeting" json:"full_name"`
	Role      string `gorm:"column:role;type:text" json:"role"`
	MeetingID uint   `gorm:"column:meeting_id;uniqueIndex:uq_attendee_meeting" json:"meeting_id"`

	UserID   *uint  `gorm:"column:user_id" json:"user_id,omitempty"`
	Username string `gorm:"column:username;type:text" json:"username,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Attendee) TableName() string { return "meeting_attendees" }
