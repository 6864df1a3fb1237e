package implementation

import (
	"context"
	"errors"

	"bioez-be/internal/model"
	"bioez-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StateRepositoryImpl struct {
	db *gorm.DB
}

func NewStateRepository(db *gorm.DB) contract.StateRepository {
	return &StateRepositoryImpl{db: db}
}

func (r *StateRepositoryImpl) Load(ctx context.Context, key string) ([]byte, error) {
	var m model.PersistedState
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(m.Payload), nil
}

func (r *StateRepositoryImpl) Save(ctx context.Context, key string, data []byte) error {
	m := model.PersistedState{Key: key, Payload: datatypes.JSON(data)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&m).Error
}

func (r *StateRepositoryImpl) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.PersistedState{}).Error
}
