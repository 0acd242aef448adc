package services

import (
	"context"

	"github.com/Asnet-code/Specialisci/internal/cache"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
)

type DashboardStats struct {
	Users              int64 `json:"users"`
	SpecialistProfiles int64 `json:"specialistProfiles"`
	Skills             int64 `json:"skills"`
	Certifications     int64 `json:"certifications"`
	ClientAds          int64 `json:"clientAds"`
	SpecialistAds      int64 `json:"specialistAds"`
}

type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	users          pgrepo.UserRepository
	skills         pgrepo.TaxonomyRepository
	certifications pgrepo.TaxonomyRepository
	clientAds      pgrepo.AdRepository
	specialistAds  pgrepo.AdRepository
	pages          *cache.Pages
}

func NewStatsService(users pgrepo.UserRepository, skills, certifications pgrepo.TaxonomyRepository, clientAds, specialistAds pgrepo.AdRepository, pages *cache.Pages) StatsService {
	return &statsService{
		users:          users,
		skills:         skills,
		certifications: certifications,
		clientAds:      clientAds,
		specialistAds:  specialistAds,
		pages:          pages,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	const op = "StatsService.Dashboard"

	st, err := cache.Load(ctx, s.pages, PathDashboard, "", func(ctx context.Context) (*DashboardStats, error) {
		var st DashboardStats
		var err error
		if st.Users, err = s.users.Count(ctx); err != nil {
			return nil, err
		}
		if st.SpecialistProfiles, err = s.users.CountSpecialistProfiles(ctx); err != nil {
			return nil, err
		}
		if st.Skills, err = s.skills.Count(ctx); err != nil {
			return nil, err
		}
		if st.Certifications, err = s.certifications.Count(ctx); err != nil {
			return nil, err
		}
		if st.ClientAds, err = s.clientAds.Count(ctx); err != nil {
			return nil, err
		}
		if st.SpecialistAds, err = s.specialistAds.Count(ctx); err != nil {
			return nil, err
		}
		return &st, nil
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load stats", err)
	}
	return st, nil
}
