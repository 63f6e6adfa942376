package postgres

import (
	"context"

	"github.com/campusmedia/confsync/internal/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	// List returns all accounts ordered by id. The order defines which
	// account wins when several match the same moderator name.
	List(ctx context.Context) ([]models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&users).Error
	return users, err
}
