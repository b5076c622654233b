package gormrepo

import (
	"context"
	"time"

	"routeguide/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KVStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewKVStore(db *gorm.DB) KVStore {
	return KVStore{db: db, now: time.Now}
}

func (s KVStore) Get(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var rows []model.RouteSetting
	if err := s.db.WithContext(ctx).Where("key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Set upserts all values in one transaction so the three route keys never diverge.
func (s KVStore) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	now := s.now()
	rows := make([]model.RouteSetting, 0, len(values))
	for k, v := range values {
		rows = append(rows, model.RouteSetting{Key: k, Value: v, UpdatedAt: now})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}
