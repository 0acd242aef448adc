package postgres

import (
	"context"
	"time"

	"github.com/Asnet-code/Specialisci/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// CreateWithProfile inserts the user and the profile matching its role
	// in one transaction. ADMIN users get a client profile.
	CreateWithProfile(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id string, fields map[string]any) error

	// FinalizeRole assigns a self-selected role after OAuth sign-up and makes
	// sure the matching profile exists. Safe to repeat.
	FinalizeRole(ctx context.Context, id string, role models.UserRole, at time.Time) error

	List(ctx context.Context, l Listing) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	CountSpecialistProfiles(ctx context.Context) (int64, error)
	CountProfiles(ctx context.Context, userID string) (clients, specialists int64, err error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepo) CreateWithProfile(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		if u.Role == models.RoleSpecialist {
			p := &models.SpecialistProfile{UserID: u.ID, Skills: models.TextArray{}}
			if err := tx.Create(p).Error; err != nil {
				return err
			}
			u.SpecialistProfile = p
			return nil
		}
		p := &models.ClientProfile{UserID: u.ID}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		u.ClientProfile = p
		return nil
	}))
}

func (r *userRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields)
	return affected(res)
}

func (r *userRepo) FinalizeRole(ctx context.Context, id string, role models.UserRole, at time.Time) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"role":                    role,
				"status":                  models.StatusActive,
				"email_verified":          at,
				"accepted_privacy_policy": true,
				"accepted_privacy_at":     at,
			})
		if err := affected(res); err != nil {
			return err
		}

		// Concurrent finalizes race on the unique user_id index; the loser
		// becomes a no-op instead of a second profile.
		onConflict := clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}
		switch role {
		case models.RoleSpecialist:
			return tx.Clauses(onConflict).
				Create(&models.SpecialistProfile{UserID: id, Skills: models.TextArray{}}).Error
		case models.RoleClient:
			return tx.Clauses(onConflict).
				Create(&models.ClientProfile{UserID: id}).Error
		}
		return nil
	}))
}

func (r *userRepo) List(ctx context.Context, l Listing) ([]models.User, error) {
	var rows []models.User
	db := l.search(r.db.WithContext(ctx).Model(&models.User{}), "email", "name", "surname")
	err := l.window(db).Find(&rows).Error
	return rows, err
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *userRepo) CountSpecialistProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SpecialistProfile{}).Count(&n).Error
	return n, err
}

func (r *userRepo) CountProfiles(ctx context.Context, userID string) (int64, int64, error) {
	var clients, specialists int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.ClientProfile{}).Where("user_id = ?", userID).Count(&clients).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.SpecialistProfile{}).Where("user_id = ?", userID).Count(&specialists).Error; err != nil {
		return 0, 0, err
	}
	return clients, specialists, nil
}
