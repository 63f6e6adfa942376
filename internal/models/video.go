package models

import "time"

// Video is the asset handed to the encoding pipeline once a recording file
// has been ingested from the drop directory.
type Video struct {
	ID       uint      `gorm:"column:id;primaryKey" json:"id"`
	Title    string    `gorm:"column:title;type:text" json:"title"`
	OwnerID  *uint     `gorm:"column:owner_id" json:"owner_id,omitempty"`
	TypeID   uint      `gorm:"column:type_id" json:"type_id"`
	DateEvt  time.Time `gorm:"column:date_evt;type:timestamptz" json:"date_evt"`
	FilePath string    `gorm:"column:file_path;type:text" json:"file_path"`

	EncodingStep int       `gorm:"column:encoding_step;default:0" json:"encoding_step"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Video) TableName() string { return "videos" }
