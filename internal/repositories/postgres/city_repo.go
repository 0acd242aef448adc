package postgres

import (
	"context"

	"github.com/Asnet-code/Specialisci/internal/models"
	"gorm.io/gorm"
)

type CityRepository interface {
	Create(ctx context.Context, c *models.City) error
	GetByID(ctx context.Context, id string) (*models.City, error)
	UpdateCoords(ctx context.Context, id string, lat, lng float64) error
	List(ctx context.Context, l Listing) ([]models.City, error)
}

type cityRepo struct {
	db *gorm.DB
}

func NewCityRepo(db *gorm.DB) CityRepository {
	return &cityRepo{db: db}
}

func (r *cityRepo) Create(ctx context.Context, c *models.City) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *cityRepo) GetByID(ctx context.Context, id string) (*models.City, error) {
	var c models.City
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *cityRepo) UpdateCoords(ctx context.Context, id string, lat, lng float64) error {
	res := r.db.WithContext(ctx).
		Model(&models.City{}).
		Where("id = ?", id).
		Updates(map[string]any{"lat": lat, "lng": lng})
	return affected(res)
}

func (r *cityRepo) List(ctx context.Context, l Listing) ([]models.City, error) {
	var rows []models.City
	db := l.search(r.db.WithContext(ctx).Model(&models.City{}), "name", "slug")
	err := l.window(db).Find(&rows).Error
	return rows, err
}
