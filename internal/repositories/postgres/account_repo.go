package postgres

import (
	"context"

	"github.com/Asnet-code/Specialisci/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository stores the links between users and OAuth identities.
type AccountRepository interface {
	FindUser(ctx context.Context, provider, providerAccountID string) (*models.User, error)
	CreateUserWithAccount(ctx context.Context, u *models.User, a *models.Account) error
}

type accountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) FindUser(ctx context.Context, provider, providerAccountID string) (*models.User, error) {
	var a models.Account
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		Take(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	if a.User == nil {
		return nil, translate(gorm.ErrRecordNotFound)
	}
	return a.User, nil
}

func (r *accountRepo) CreateUserWithAccount(ctx context.Context, u *models.User, a *models.Account) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		a.UserID = u.ID
		return tx.Omit(clause.Associations).Create(a).Error
	}))
}
