package postgres

import (
	"context"
	"time"

	"github.com/Asnet-code/Specialisci/internal/models"
	"gorm.io/gorm"
)

// AdFilter narrows an ad listing beyond the free-text query.
type AdFilter struct {
	Status models.AdStatus
	Remote *bool
}

// AdRepository serves one ad table (client_ads or specialist_ads).
type AdRepository interface {
	Create(ctx context.Context, a *models.Ad) error
	GetByID(ctx context.Context, id string) (*models.Ad, error)
	UpdateStatus(ctx context.Context, id string, status models.AdStatus) error
	SetExpiry(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f AdFilter, l Listing) (rows []models.AdRow, total int64, err error)
	Count(ctx context.Context) (int64, error)
}

type adRepo struct {
	db    *gorm.DB
	table string
}

func NewAdRepo(db *gorm.DB, t models.AdType) AdRepository {
	return &adRepo{db: db, table: t.Table()}
}

func (r *adRepo) tx(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func (r *adRepo) Create(ctx context.Context, a *models.Ad) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	return translate(r.tx(ctx).Create(a).Error)
}

func (r *adRepo) GetByID(ctx context.Context, id string) (*models.Ad, error) {
	var a models.Ad
	if err := r.tx(ctx).Where("id = ?", id).Take(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *adRepo) UpdateStatus(ctx context.Context, id string, status models.AdStatus) error {
	return r.update(ctx, id, map[string]any{"status": status})
}

func (r *adRepo) SetExpiry(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]any{"expires_at": at})
}

func (r *adRepo) update(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return affected(r.tx(ctx).Where("id = ?", id).Updates(fields))
}

func (r *adRepo) Delete(ctx context.Context, id string) error {
	return affected(r.tx(ctx).Where("id = ?", id).Delete(&models.Ad{}))
}

func (r *adRepo) filtered(ctx context.Context, f AdFilter, l Listing) *gorm.DB {
	db := r.db.WithContext(ctx).Table(r.table + " AS a")
	if f.Status != "" {
		db = db.Where("a.status = ?", f.Status)
	}
	if f.Remote != nil {
		db = db.Where("a.is_remote = ?", *f.Remote)
	}
	return l.search(db, "a.title", "a.description")
}

func (r *adRepo) List(ctx context.Context, f AdFilter, l Listing) ([]models.AdRow, int64, error) {
	var total int64
	if err := r.filtered(ctx, f, l).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AdRow
	err := l.window(r.filtered(ctx, f, l)).
		Select("a.*, c.name AS city_name, u.email AS user_email").
		Joins("LEFT JOIN cities c ON c.id = a.city_id").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Find(&rows).Error
	return rows, total, err
}

func (r *adRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.tx(ctx).Count(&n).Error
	return n, err
}
