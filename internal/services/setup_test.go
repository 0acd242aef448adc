package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Asnet-code/Specialisci/internal/cache"
	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/providers/geocoding"
	"github.com/Asnet-code/Specialisci/internal/providers/oauth"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func testPages() *cache.Pages {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return cache.NewPages(cache.NewMemoryCache(), time.Minute, l)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Lookup(ctx context.Context, name string) (*geocoding.Coordinates, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*geocoding.Coordinates)
	return c, args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ID() string          { return "google" }
func (m *MockProvider) DisplayName() string { return "Google" }

func (m *MockProvider) AuthCodeURL(state string) string {
	return "https://accounts.example/auth?state=" + state
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*oauth.Identity, error) {
	args := m.Called(ctx, code)
	id, _ := args.Get(0).(*oauth.Identity)
	return id, args.Error(1)
}
