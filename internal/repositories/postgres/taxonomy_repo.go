package postgres

import (
	"context"
	"time"

	"github.com/Asnet-code/Specialisci/internal/models"
	"gorm.io/gorm"
)

// TaxonomyRepository serves one reference table (skills or certifications).
type TaxonomyRepository interface {
	Create(ctx context.Context, t *models.Taxon) error
	GetByID(ctx context.Context, id string) (*models.Taxon, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetDisplayOrder(ctx context.Context, id string, order int) error
	List(ctx context.Context, l Listing) ([]models.Taxon, error)
	Count(ctx context.Context) (int64, error)
}

type taxonomyRepo struct {
	db    *gorm.DB
	table string
}

func NewSkillRepo(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepo{db: db, table: models.Skill{}.TableName()}
}

func NewCertificationRepo(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepo{db: db, table: models.Certification{}.TableName()}
}

func (r *taxonomyRepo) tx(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func (r *taxonomyRepo) Create(ctx context.Context, t *models.Taxon) error {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	return translate(r.tx(ctx).Create(t).Error)
}

func (r *taxonomyRepo) GetByID(ctx context.Context, id string) (*models.Taxon, error) {
	var t models.Taxon
	if err := r.tx(ctx).Where("id = ?", id).Take(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *taxonomyRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, id, map[string]any{"is_active": active})
}

func (r *taxonomyRepo) SetDisplayOrder(ctx context.Context, id string, order int) error {
	return r.update(ctx, id, map[string]any{"display_order": order})
}

func (r *taxonomyRepo) update(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return affected(r.tx(ctx).Where("id = ?", id).Updates(fields))
}

func (r *taxonomyRepo) List(ctx context.Context, l Listing) ([]models.Taxon, error) {
	var rows []models.Taxon
	err := l.window(l.search(r.tx(ctx), "name", "slug")).Find(&rows).Error
	return rows, err
}

func (r *taxonomyRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.tx(ctx).Count(&n).Error
	return n, err
}
