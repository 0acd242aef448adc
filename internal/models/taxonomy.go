package models

import "time"

// Taxon is the shared shape of the reference taxonomies (skills,
// certifications). Each taxonomy lives in its own table.
type Taxon struct {
	ID           string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string `gorm:"column:name;type:text;not null" json:"name"`
	Slug         string `gorm:"column:slug;type:text;uniqueIndex;not null" json:"slug"`
	DisplayOrder int    `gorm:"column:display_order;not null" json:"displayOrder"`
	IsActive     bool   `gorm:"column:is_active;not null" json:"isActive"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

type Skill struct {
	Taxon
}

func (Skill) TableName() string { return "skills" }

type Certification struct {
	Taxon
}

func (Certification) TableName() string { return "certifications" }
