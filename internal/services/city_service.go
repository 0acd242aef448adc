package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/Asnet-code/Specialisci/internal/cache"
	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/providers/geocoding"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
)

type CityInput struct {
	Name string
	Slug string
	Lat  *float64
	Lng  *float64
}

type CityService interface {
	Create(ctx context.Context, in CityInput) (*models.City, error)
	UpdateCoords(ctx context.Context, id string, lat, lng float64) error
	// Geocode refreshes the coordinates of a stored city from its name.
	Geocode(ctx context.Context, id string) (*geocoding.Coordinates, error)
	List(ctx context.Context, q ListQuery) ([]models.City, error)
}

type cityService struct {
	cities pgrepo.CityRepository
	geo    geocoding.Geocoder
	pages  *cache.Pages
}

func NewCityService(cities pgrepo.CityRepository, geo geocoding.Geocoder, pages *cache.Pages) CityService {
	return &cityService{cities: cities, geo: geo, pages: pages}
}

func finite(f *float64) bool { return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0) }

func checkCoords(op string, lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return invalid(op, "Szerokość geograficzna musi być w zakresie -90..90.")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return invalid(op, "Długość geograficzna musi być w zakresie -180..180.")
	}
	return nil
}

func (s *cityService) Create(ctx context.Context, in CityInput) (*models.City, error) {
	const op = "CityService.Create"

	in.Name = strings.TrimSpace(in.Name)
	if len([]rune(in.Name)) < 2 {
		return nil, invalid(op, "Nazwa musi mieć co najmniej 2 znaki.")
	}
	source := strings.TrimSpace(in.Slug)
	if source != "" && len([]rune(source)) < 2 {
		return nil, invalid(op, "Slug musi mieć co najmniej 2 znaki.")
	}
	if source == "" {
		source = in.Name
	}
	slug := utils.Slugify(source)
	if slug == "" {
		return nil, invalid(op, "Nie można utworzyć sluga z podanej nazwy.")
	}

	c := &models.City{Name: in.Name, Slug: slug}
	if finite(in.Lat) && finite(in.Lng) {
		if err := checkCoords(op, *in.Lat, *in.Lng); err != nil {
			return nil, err
		}
		c.Lat, c.Lng = in.Lat, in.Lng
	} else {
		coords, err := s.lookup(ctx, in.Name)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "Nie udało się pobrać współrzędnych dla podanego miasta.", err)
		}
		c.Lat, c.Lng = &coords.Lat, &coords.Lng
	}

	if err := s.cities.Create(ctx, c); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "Slug jest już zajęty.", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create city", err)
	}
	s.pages.Revalidate(ctx, PathCities)
	return c, nil
}

var errNoCoordinates = errors.New("geocoder returned no coordinates")

func (s *cityService) lookup(ctx context.Context, name string) (*geocoding.Coordinates, error) {
	coords, err := s.geo.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if coords == nil {
		return nil, errNoCoordinates
	}
	return coords, nil
}

func (s *cityService) UpdateCoords(ctx context.Context, id string, lat, lng float64) error {
	const op = "CityService.UpdateCoords"

	if id == "" {
		return invalid(op, "id is required")
	}
	if err := checkCoords(op, lat, lng); err != nil {
		return err
	}
	if err := s.cities.UpdateCoords(ctx, id, lat, lng); err != nil {
		return notFoundOr(op, "City not found", "failed to update city", err)
	}
	s.pages.Revalidate(ctx, PathCities)
	return nil
}

func (s *cityService) Geocode(ctx context.Context, id string) (*geocoding.Coordinates, error) {
	const op = "CityService.Geocode"

	if id == "" {
		return nil, invalid(op, "id is required")
	}
	c, err := s.cities.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "City not found", "failed to load city", err)
	}
	coords, err := s.lookup(ctx, c.Name)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "Nie udało się pobrać współrzędnych.", err)
	}
	if err := s.cities.UpdateCoords(ctx, id, coords.Lat, coords.Lng); err != nil {
		return nil, notFoundOr(op, "City not found", "failed to update city", err)
	}
	s.pages.Revalidate(ctx, PathCities)
	return coords, nil
}

func (s *cityService) List(ctx context.Context, q ListQuery) ([]models.City, error) {
	const op = "CityService.List"

	rows, err := cache.Load(ctx, s.pages, PathCities, q.variant(), func(ctx context.Context) ([]models.City, error) {
		return s.cities.List(ctx, citySort.listing(q))
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list cities", err)
	}
	return rows, nil
}
