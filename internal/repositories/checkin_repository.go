package repositories

import (
	"time"

	"github.com/unilink-app/unilink/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckinRepository defines the interface for sector check-in operations
type CheckinRepository interface {
	Upsert(checkin *models.SectorCheckin) error
	GetByUser(userID string) (*models.SectorCheckin, error)
	GetBySector(sector string) ([]models.SectorCheckin, error)
	DeleteByUser(userID string) error
}

type postgresCheckinRepository struct {
	db *gorm.DB
}

// NewPostgresCheckinRepository creates a new CheckinRepository backed by PostgreSQL
func NewPostgresCheckinRepository(db *gorm.DB) CheckinRepository {
	return &postgresCheckinRepository{db: db}
}

// Upsert records the user's current sector, replacing any previous check-in.
func (r *postgresCheckinRepository) Upsert(checkin *models.SectorCheckin) error {
	checkin.CheckedInAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "sector", "checked_in_at", "updated_at"}),
	}).Create(checkin).Error
}

func (r *postgresCheckinRepository) GetByUser(userID string) (*models.SectorCheckin, error) {
	var checkin models.SectorCheckin
	if err := r.db.Where("user_id = ?", userID).First(&checkin).Error; err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (r *postgresCheckinRepository) GetBySector(sector string) ([]models.SectorCheckin, error) {
	var checkins []models.SectorCheckin
	if err := r.db.Where("sector = ?", sector).Order("checked_in_at DESC").Find(&checkins).Error; err != nil {
		return nil, err
	}
	return checkins, nil
}

// DeleteByUser clears the user's check-in; clearing an absent one is a no-op.
func (r *postgresCheckinRepository) DeleteByUser(userID string) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.SectorCheckin{}).Error
}
