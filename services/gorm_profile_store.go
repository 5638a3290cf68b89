package services

import (
	"context"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/vincebiwott/safari-park-maintenance-v/models"
)

// GormProfileStore implements ProfileStore over a direct database connection
type GormProfileStore struct {
	db    *gorm.DB
	table string
}

// NewGormProfileStore builds a GORM-backed store for the given table
func NewGormProfileStore(db *gorm.DB, table string) *GormProfileStore {
	if table == "" {
		table = models.Profile{}.TableName()
	}
	return &GormProfileStore{db: db, table: table}
}

// Migrate creates the profiles table when it does not exist
func (s *GormProfileStore) Migrate() error {
	return s.db.Table(s.table).AutoMigrate(&models.Profile{})
}

func (s *GormProfileStore) Insert(ctx context.Context, profile *models.Profile) error {
	if err := s.db.WithContext(ctx).Table(s.table).Create(profile).Error; err != nil {
		perr := &ProviderError{Op: "insert", Message: err.Error()}
		// Works with both PostgreSQL and SQLite messages
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			perr.StatusCode = http.StatusConflict
		}
		return perr
	}
	return nil
}

func (s *GormProfileStore) FindRole(ctx context.Context, id string) (*RoleRecord, error) {
	var records []RoleRecord
	err := s.db.WithContext(ctx).
		Table(s.table).
		Select("role", "approved").
		Where("id = ?", id).
		Limit(2).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	switch len(records) {
	case 0:
		return nil, ErrProfileNotFound
	case 1:
		return &records[0], nil
	default:
		return nil, ErrProfileNotUnique
	}
}

func (s *GormProfileStore) List(ctx context.Context) ([]models.ProfileSummary, error) {
	summaries := []models.ProfileSummary{}
	err := s.db.WithContext(ctx).
		Table(s.table).
		Select("id", "role", "nickname").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
