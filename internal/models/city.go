package models

import "time"

type City struct {
	ID   string   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name string   `gorm:"column:name;type:text;not null" json:"name"`
	Slug string   `gorm:"column:slug;type:text;uniqueIndex;not null" json:"slug"`
	Lat  *float64 `gorm:"column:lat" json:"lat"`
	Lng  *float64 `gorm:"column:lng" json:"lng"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (City) TableName() string { return "cities" }
