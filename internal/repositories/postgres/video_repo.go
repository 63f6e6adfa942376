package postgres

import (
	"context"

	"github.com/campusmedia/confsync/internal/models"
	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(ctx context.Context, v *models.Video) error
}

type videoRepo struct {
	db *gorm.DB
}

func NewVideoRepo(db *gorm.DB) VideoRepository {
	return &videoRepo{db: db}
}

func (r *videoRepo) Create(ctx context.Context, v *models.Video) error {
	return r.db.WithContext(ctx).Create(v).Error
}
