package model

import (
	"time"

	"gorm.io/datatypes"
)

type PersistedState struct {
	Key       string         `gorm:"type:varchar(255);primaryKey"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (PersistedState) TableName() string {
	return "persisted_states"
}
