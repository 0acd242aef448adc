package models

import "time"

type AdStatus string

const (
	AdActive   AdStatus = "ACTIVE"
	AdClosed   AdStatus = "CLOSED"
	AdArchived AdStatus = "ARCHIVED"
)

func (s AdStatus) Valid() bool {
	switch s {
	case AdActive, AdClosed, AdArchived:
		return true
	}
	return false
}

// AdType selects between the two ad tables.
type AdType string

const (
	AdTypeClient     AdType = "client"
	AdTypeSpecialist AdType = "specialist"
)

func (t AdType) Valid() bool { return t == AdTypeClient || t == AdTypeSpecialist }

func (t AdType) Table() string {
	if t == AdTypeSpecialist {
		return SpecialistAd{}.TableName()
	}
	return ClientAd{}.TableName()
}

// Ad is the shared shape of client and specialist postings.
type Ad struct {
	ID          string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string     `gorm:"column:user_id;type:uuid;index;not null" json:"userId"`
	Title       string     `gorm:"column:title;type:text;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Status      AdStatus   `gorm:"column:status;type:text;not null" json:"status"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expiresAt"`
	SalaryFrom  *int       `gorm:"column:salary_from" json:"salaryFrom"`
	SalaryTo    *int       `gorm:"column:salary_to" json:"salaryTo"`
	CityID      *string    `gorm:"column:city_id;type:uuid;index" json:"cityId"`
	IsRemote    bool       `gorm:"column:is_remote;not null" json:"isRemote"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

type ClientAd struct {
	Ad
}

func (ClientAd) TableName() string { return "client_ads" }

type SpecialistAd struct {
	Ad
}

func (SpecialistAd) TableName() string { return "specialist_ads" }

// AdRow is an ad joined with the names shown in admin listings.
type AdRow struct {
	Ad
	CityName  *string `gorm:"column:city_name" json:"cityName"`
	UserEmail *string `gorm:"column:user_email" json:"userEmail"`
}
