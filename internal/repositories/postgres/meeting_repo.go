package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/campusmedia/confsync/internal/models"
	"github.com/campusmedia/confsync/internal/utils"
	"gorm.io/gorm"
)

type MeetingRepository interface {
	GetByInternalID(ctx context.Context, internalMeetingID string) (*models.Meeting, error)
	Create(ctx context.Context, m *models.Meeting) error
	// MarkRecorded flips recorded to true. Single-field update, nothing else
	// is touched.
	MarkRecorded(ctx context.Context, id uint) error
	// SetRecording publishes the recording URLs. The update is conditional on
	// recording_available still being false, so the transition stays one-way
	// even if two runs overlap.
	SetRecording(ctx context.Context, id uint, recordingURL, thumbnailURL string) error
	// ListAwaitingRecording returns meetings flagged recorded, without an
	// available recording, no older than since, oldest first.
	ListAwaitingRecording(ctx context.Context, since time.Time) ([]models.Meeting, error)
}

type meetingRepo struct {
	db *gorm.DB
}

func NewMeetingRepo(db *gorm.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) GetByInternalID(ctx context.Context, internalMeetingID string) (*models.Meeting, error) {
	var m models.Meeting
	err := r.db.WithContext(ctx).
		Where("internal_meeting_id = ?", internalMeetingID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &m, err
}

func (r *meetingRepo) Create(ctx context.Context, m *models.Meeting) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *meetingRepo) MarkRecorded(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Meeting{}).
		Where("id = ?", id).
		Update("recorded", true).Error
}

func (r *meetingRepo) SetRecording(ctx context.Context, id uint, recordingURL, thumbnailURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.Meeting{}).
		Where("id = ? AND recording_available = ?", id, false).
		Updates(map[string]any{
			"recording_available": true,
			"recording_url":       recordingURL,
			"thumbnail_url":       thumbnailURL,
		}).Error
}

func (r *meetingRepo) ListAwaitingRecording(ctx context.Context, since time.Time) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := r.db.WithContext(ctx).
		Where("recorded = ? AND recording_available = ? AND session_date >= ?", true, false, since).
		Order("id").
		Find(&meetings).Error
	return meetings, err
}
