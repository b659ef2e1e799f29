package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// ErrDuplicate signals an email or slug already in use.
var ErrDuplicate = errors.New("duplicate")

// ProfileGormRepository is the directory store: users and their provider profiles.
type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

func (r *ProfileGormRepository) GetBySlug(ctx context.Context, slug string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ActiveServices lists the services offered on the public booking page.
func (r *ProfileGormRepository) ActiveServices(ctx context.Context, profileID uint) ([]models.Service, error) {
	services := []models.Service{}
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND active = ?", profileID, true).
		Order("id ASC").
		Find(&services).Error
	return services, err
}

func (r *ProfileGormRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProfileGormRepository) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&n).Error
	return n > 0, err
}

// CreateWithUser inserts the user and its profile in one transaction.
func (r *ProfileGormRepository) CreateWithUser(
	ctx context.Context,
	user *models.User,
	profile *models.Profile,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *ProfileGormRepository) Save(ctx context.Context, p *models.Profile) error {
	err := r.db.WithContext(ctx).Save(p).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
