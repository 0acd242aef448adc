package models

import (
	"database/sql/driver"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TextArray is a text[] column on postgres and a plain text column elsewhere.
type TextArray pq.StringArray

func (a TextArray) Value() (driver.Value, error) { return pq.StringArray(a).Value() }

func (a *TextArray) Scan(src any) error { return (*pq.StringArray)(a).Scan(src) }

func (TextArray) GormDataType() string { return "text" }

func (TextArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error              { newID(&u.ID); return nil }
func (p *ClientProfile) BeforeCreate(*gorm.DB) error     { newID(&p.ID); return nil }
func (p *SpecialistProfile) BeforeCreate(*gorm.DB) error { newID(&p.ID); return nil }
func (a *Account) BeforeCreate(*gorm.DB) error           { newID(&a.ID); return nil }
func (t *Taxon) BeforeCreate(*gorm.DB) error             { newID(&t.ID); return nil }
func (c *City) BeforeCreate(*gorm.DB) error              { newID(&c.ID); return nil }
func (a *Ad) BeforeCreate(*gorm.DB) error                { newID(&a.ID); return nil }
