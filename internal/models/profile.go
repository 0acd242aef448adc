package models

import "time"

// ClientProfile and SpecialistProfile are created empty and filled in later
// by the profile editor. user_id is unique so a user never owns two rows of
// the same kind.
type ClientProfile struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;uniqueIndex;not null" json:"userId"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (ClientProfile) TableName() string { return "client_profiles" }

type SpecialistProfile struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;uniqueIndex;not null" json:"userId"`

	Skills TextArray `gorm:"column:skills" json:"skills"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (SpecialistProfile) TableName() string { return "specialist_profiles" }
