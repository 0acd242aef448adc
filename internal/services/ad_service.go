package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Asnet-code/Specialisci/internal/cache"
	"github.com/Asnet-code/Specialisci/internal/models"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
)

const (
	DefaultExtendDays = 30
	MaxExtendDays     = 180
	defaultPageSize   = 20
	maxPageSize       = 100
)

type AdQuery struct {
	ListQuery
	Status   string `form:"status" json:"status"`
	Remote   string `form:"remote" json:"remote"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
}

func (q AdQuery) variant() string {
	return q.ListQuery.variant() + "\x00" + q.Status + "\x00" + q.Remote +
		"\x00" + strconv.Itoa(q.Page) + "\x00" + strconv.Itoa(q.PageSize)
}

type AdPage struct {
	Rows       []models.AdRow `json:"rows"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type AdService interface {
	SetStatus(ctx context.Context, t models.AdType, id string, status models.AdStatus) error
	Delete(ctx context.Context, t models.AdType, id string) error
	// Extend sets the expiry to now plus days; nil means the default.
	Extend(ctx context.Context, t models.AdType, id string, days *int) (time.Time, error)
	List(ctx context.Context, t models.AdType, q AdQuery) (*AdPage, error)
}

type adService struct {
	repos map[models.AdType]pgrepo.AdRepository
	pages *cache.Pages
	now   func() time.Time
}

func NewAdService(clientAds, specialistAds pgrepo.AdRepository, pages *cache.Pages) AdService {
	return &adService{
		repos: map[models.AdType]pgrepo.AdRepository{
			models.AdTypeClient:     clientAds,
			models.AdTypeSpecialist: specialistAds,
		},
		pages: pages,
		now:   time.Now,
	}
}

// AdPath is the listing page of the given ad type.
func AdPath(t models.AdType) string {
	if t == models.AdTypeSpecialist {
		return PathSpecialistAds
	}
	return PathClientAds
}

func (s *adService) repo(op string, t models.AdType, id string) (pgrepo.AdRepository, error) {
	if !t.Valid() {
		return nil, invalid(op, "Nieprawidłowy typ ogłoszenia.")
	}
	if id == "" {
		return nil, invalid(op, "id is required")
	}
	return s.repos[t], nil
}

func (s *adService) SetStatus(ctx context.Context, t models.AdType, id string, status models.AdStatus) error {
	const op = "AdService.SetStatus"

	r, err := s.repo(op, t, id)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return invalid(op, "Nieprawidłowy status ogłoszenia.")
	}
	if err := r.UpdateStatus(ctx, id, status); err != nil {
		return notFoundOr(op, "Ad not found", "failed to update ad", err)
	}
	s.pages.Revalidate(ctx, AdPath(t))
	return nil
}

func (s *adService) Delete(ctx context.Context, t models.AdType, id string) error {
	const op = "AdService.Delete"

	r, err := s.repo(op, t, id)
	if err != nil {
		return err
	}
	if err := r.Delete(ctx, id); err != nil {
		return notFoundOr(op, "Ad not found", "failed to delete ad", err)
	}
	s.pages.Revalidate(ctx, AdPath(t))
	s.pages.Revalidate(ctx, PathDashboard)
	return nil
}

func (s *adService) Extend(ctx context.Context, t models.AdType, id string, days *int) (time.Time, error) {
	const op = "AdService.Extend"

	r, err := s.repo(op, t, id)
	if err != nil {
		return time.Time{}, err
	}
	n := DefaultExtendDays
	if days != nil {
		n = *days
	}
	if n < 1 || n > MaxExtendDays {
		return time.Time{}, invalid(op, "Liczba dni musi być w zakresie 1..180.")
	}

	expires := s.now().UTC().AddDate(0, 0, n)
	if err := r.SetExpiry(ctx, id, expires); err != nil {
		return time.Time{}, notFoundOr(op, "Ad not found", "failed to extend ad", err)
	}
	s.pages.Revalidate(ctx, AdPath(t))
	return expires, nil
}

func (s *adService) List(ctx context.Context, t models.AdType, q AdQuery) (*AdPage, error) {
	const op = "AdService.List"

	if !t.Valid() {
		return nil, invalid(op, "Nieprawidłowy typ ogłoszenia.")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	var f pgrepo.AdFilter
	if st := models.AdStatus(strings.TrimSpace(q.Status)); st.Valid() {
		f.Status = st
	}
	switch strings.TrimSpace(q.Remote) {
	case "true":
		v := true
		f.Remote = &v
	case "false":
		v := false
		f.Remote = &v
	}

	l := adSort.listing(q.ListQuery)
	l.Limit = q.PageSize
	l.Offset = (q.Page - 1) * q.PageSize

	page, err := cache.Load(ctx, s.pages, AdPath(t), q.variant(), func(ctx context.Context) (*AdPage, error) {
		rows, total, err := s.repos[t].List(ctx, f, l)
		if err != nil {
			return nil, err
		}
		pages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
		if pages < 1 {
			pages = 1
		}
		return &AdPage{Rows: rows, Total: total, Page: q.Page, PageSize: q.PageSize, TotalPages: pages}, nil
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list ads", err)
	}
	return page, nil
}
