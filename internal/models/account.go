package models

import (
	"time"

	"gorm.io/datatypes"
)

// Account links a User to an external OAuth identity.
type Account struct {
	ID                string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID            string `gorm:"column:user_id;type:uuid;index;not null" json:"userId"`
	Provider          string `gorm:"column:provider;type:text;uniqueIndex:uniq_provider_account;not null" json:"provider"`
	ProviderAccountID string `gorm:"column:provider_account_id;type:text;uniqueIndex:uniq_provider_account;not null" json:"providerAccountId"`

	// Raw userinfo document returned by the provider at link time.
	Profile datatypes.JSON `gorm:"column:profile" json:"profile,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Account) TableName() string { return "accounts" }
