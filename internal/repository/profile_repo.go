package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-realtime/internal/db"
	svcErr "github.com/oggyb/muzz-realtime/internal/errors"
)

// ProfileRepository is the read side of the profile store. Profiles are
// written by the profile CRUD service, never by this one.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

func (r *ProfileRepository) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// Get returns svcErr.ErrUserNotFound when no such profile exists.
func (r *ProfileRepository) Get(ctx context.Context, username string) (*db.Profile, error) {
	var p db.Profile
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListExcept returns all profiles but the given one, ordered by id so
// callers see a stable candidate order.
func (r *ProfileRepository) ListExcept(ctx context.Context, username string) ([]db.Profile, error) {
	var out []db.Profile
	err := r.db.WithContext(ctx).
		Where("username <> ?", username).
		Order("id").
		Find(&out).Error
	return out, err
}
