package visits

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter is one durable per-path visit counter row.
type Counter struct {
	Path      string    `gorm:"primaryKey;size:255" json:"path"`
	Count     uint64    `gorm:"not null;default:0" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service persists visit counts. The counter lives in the database, so it
// survives restarts and needs no process-wide mutable state.
type Service struct {
	db *gorm.DB
}

// NewService creates a new visits service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Migrate applies the visits schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Counter{})
}

// Record increments the counter for path and returns the new total.
// The increment is a single upsert; concurrent requests never lose counts.
func (s *Service) Record(ctx context.Context, path string) (uint64, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "path"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&Counter{Path: path, Count: 1}).Error
	if err != nil {
		return 0, err
	}

	var c Counter
	if err := s.db.WithContext(ctx).First(&c, "path = ?", path).Error; err != nil {
		return 0, err
	}
	return c.Count, nil
}
