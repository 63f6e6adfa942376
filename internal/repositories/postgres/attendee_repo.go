package postgres

import (
	"context"
	"errors"

	"github.com/campusmedia/confsync/internal/models"
	"github.com/campusmedia/confsync/internal/utils"
	"gorm.io/gorm"
)

type AttendeeRepository interface {
	GetByNameAndMeeting(ctx context.Context, fullName string, meetingID uint) (*models.Attendee, error)
	Create(ctx context.Context, a *models.Attendee) error
	// ListUnlinked returns attendees without a linked account, most recent
	// first, at most limit rows.
	ListUnlinked(ctx context.Context, limit int) ([]models.Attendee, error)
	LinkUser(ctx context.Context, attendeeID, userID uint, username string) error
}

type attendeeRepo struct {
	db *gorm.DB
}

func NewAttendeeRepo(db *gorm.DB) AttendeeRepository {
	return &attendeeRepo{db: db}
}

func (r *attendeeRepo) GetByNameAndMeeting(ctx context.Context, fullName string, meetingID uint) (*models.Attendee, error) {
	var a models.Attendee
	err := r.db.WithContext(ctx).
		Where("full_name = ? AND meeting_id = ?", fullName, meetingID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *attendeeRepo) Create(ctx context.Context, a *models.Attendee) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attendeeRepo) ListUnlinked(ctx context.Context, limit int) ([]models.Attendee, error) {
	var attendees []models.Attendee
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL").
		Order("id DESC").
		Limit(limit).
		Find(&attendees).Error
	return attendees, err
}

func (r *attendeeRepo) LinkUser(ctx context.Context, attendeeID, userID uint, username string) error {
	return r.db.WithContext(ctx).
		Model(&models.Attendee{}).
		Where("id = ?", attendeeID).
		Updates(map[string]any{
			"user_id":  userID,
			"username": username,
		}).Error
}
