package models

import "time"

type UserRole string

const (
	RoleClient     UserRole = "CLIENT"
	RoleSpecialist UserRole = "SPECIALIST"
	RoleAdmin      UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleSpecialist, RoleAdmin:
		return true
	}
	return false
}

// Selectable reports whether a user may pick the role for themselves.
func (r UserRole) Selectable() bool {
	return r == RoleClient || r == RoleSpecialist
}

type UserStatus string

const (
	StatusPendingEmailVerify UserStatus = "PENDING_EMAIL_VERIFY"
	StatusActive             UserStatus = "ACTIVE"
	StatusSuspended          UserStatus = "SUSPENDED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusPendingEmailVerify, StatusActive, StatusSuspended:
		return true
	}
	return false
}

type User struct {
	ID       string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name     *string `gorm:"column:name;type:text" json:"name,omitempty"`
	Surname  *string `gorm:"column:surname;type:text" json:"surname,omitempty"`
	Email    string  `gorm:"column:email;type:text;uniqueIndex;not null" json:"email"`
	Image    *string `gorm:"column:image;type:text" json:"image,omitempty"`
	Password *string `gorm:"column:password;type:text" json:"-"`

	Role   UserRole   `gorm:"column:role;type:text;not null" json:"role"`
	Status UserStatus `gorm:"column:status;type:text;not null" json:"status"`

	EmailVerified         *time.Time `gorm:"column:email_verified" json:"emailVerified,omitempty"`
	AcceptedPrivacyPolicy *bool      `gorm:"column:accepted_privacy_policy" json:"acceptedPrivacyPolicy,omitempty"`
	AcceptedPrivacyAt     *time.Time `gorm:"column:accepted_privacy_at" json:"acceptedPrivacyAt,omitempty"`

	ClientProfile     *ClientProfile     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"clientProfile,omitempty"`
	SpecialistProfile *SpecialistProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"specialistProfile,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// HasPassword reports whether the account can use credential login.
func (u *User) HasPassword() bool { return u.Password != nil && *u.Password != "" }

// PrivacyAccepted treats an unset flag as accepted.
func (u *User) PrivacyAccepted() bool {
	return u.AcceptedPrivacyPolicy == nil || *u.AcceptedPrivacyPolicy
}

func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.Surname != nil && *u.Surname != "" {
		return *u.Surname
	}
	return u.Email
}
