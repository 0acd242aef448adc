package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Asnet-code/Specialisci/internal/cache"
	"github.com/Asnet-code/Specialisci/internal/models"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
)

type TaxonInput struct {
	Name         string
	Slug         string
	DisplayOrder int
	IsActive     *bool
}

// TaxonomyService manages one reference list (skills or certifications).
type TaxonomyService interface {
	Create(ctx context.Context, in TaxonInput) (*models.Taxon, error)
	Toggle(ctx context.Context, id string) (bool, error)
	Reorder(ctx context.Context, id string, order int) error
	List(ctx context.Context, q ListQuery) ([]models.Taxon, error)
}

type taxonomyService struct {
	repo  pgrepo.TaxonomyRepository
	pages *cache.Pages
	path  string
	// label names the entity in error messages and ops
	label string
}

func NewSkillService(repo pgrepo.TaxonomyRepository, pages *cache.Pages) TaxonomyService {
	return &taxonomyService{repo: repo, pages: pages, path: PathSkills, label: "Skill"}
}

func NewCertificationService(repo pgrepo.TaxonomyRepository, pages *cache.Pages) TaxonomyService {
	return &taxonomyService{repo: repo, pages: pages, path: PathCertifications, label: "Certification"}
}

func (s *taxonomyService) op(name string) string { return s.label + "Service." + name }

func (s *taxonomyService) Create(ctx context.Context, in TaxonInput) (*models.Taxon, error) {
	op := s.op("Create")

	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if len([]rune(in.Name)) < 2 {
		return nil, invalid(op, "Nazwa musi mieć co najmniej 2 znaki.")
	}
	if in.Slug != "" && len([]rune(in.Slug)) < 2 {
		return nil, invalid(op, "Slug musi mieć co najmniej 2 znaki.")
	}
	if in.DisplayOrder < 0 {
		return nil, invalid(op, "Kolejność nie może być ujemna.")
	}

	source := in.Slug
	if source == "" {
		source = in.Name
	}
	slug := utils.Slugify(source)
	if slug == "" {
		return nil, invalid(op, "Nie można utworzyć sluga z podanej nazwy.")
	}

	t := &models.Taxon{
		Name:         in.Name,
		Slug:         slug,
		DisplayOrder: in.DisplayOrder,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "Slug jest już zajęty.", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create", err)
	}

	s.pages.Revalidate(ctx, s.path)
	s.pages.Revalidate(ctx, PathDashboard)
	return t, nil
}

func (s *taxonomyService) Toggle(ctx context.Context, id string) (bool, error) {
	op := s.op("Toggle")

	if id == "" {
		return false, invalid(op, "id is required")
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, notFoundOr(op, s.label+" not found", "failed to load", err)
	}
	next := !t.IsActive
	if err := s.repo.SetActive(ctx, id, next); err != nil {
		return false, notFoundOr(op, s.label+" not found", "failed to update", err)
	}
	s.pages.Revalidate(ctx, s.path)
	return next, nil
}

func (s *taxonomyService) Reorder(ctx context.Context, id string, order int) error {
	op := s.op("Reorder")

	if id == "" {
		return invalid(op, "id is required")
	}
	if order < 0 {
		return invalid(op, "Kolejność nie może być ujemna.")
	}
	if err := s.repo.SetDisplayOrder(ctx, id, order); err != nil {
		return notFoundOr(op, s.label+" not found", "failed to update", err)
	}
	s.pages.Revalidate(ctx, s.path)
	return nil
}

func (s *taxonomyService) List(ctx context.Context, q ListQuery) ([]models.Taxon, error) {
	rows, err := cache.Load(ctx, s.pages, s.path, q.variant(), func(ctx context.Context) ([]models.Taxon, error) {
		return s.repo.List(ctx, taxonSort.listing(q))
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, s.op("List"), "failed to list", err)
	}
	return rows, nil
}
