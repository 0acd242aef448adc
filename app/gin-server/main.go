package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Asnet-code/Specialisci/config"
	"github.com/Asnet-code/Specialisci/internal/api/handlers"
	"github.com/Asnet-code/Specialisci/internal/api/routes"
	"github.com/Asnet-code/Specialisci/internal/auth"
	"github.com/Asnet-code/Specialisci/internal/cache"
	"github.com/Asnet-code/Specialisci/internal/logger"
	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/providers/geocoding"
	"github.com/Asnet-code/Specialisci/internal/providers/oauth"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/Asnet-code/Specialisci/internal/telemetry"
	"github.com/Asnet-code/Specialisci/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer(ctx, os.Stdout)
		if err != nil {
			log.Fatalf("tracer init error: %v", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	// Init PostgreSQL
	db, err := config.OpenPostgres(cfg)
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	log.Info("PostgreSQL connected")
	if cfg.Postgres.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			log.Fatalf("migration error: %v", err)
		}
	}

	// Init Redis, falling back to an in-process cache
	var store cache.Cache
	rdb, err := config.OpenRedis(ctx, cfg)
	switch {
	case err != nil:
		log.Fatalf("Redis init error: %v", err)
	case rdb != nil:
		defer rdb.Close()
		store = cache.NewRedisCache(rdb)
		log.Info("Redis connected")
	default:
		store = cache.NewMemoryCache()
		log.Warn("Redis not configured, using in-memory cache")
	}
	pages := cache.NewPages(store, cfg.PageCacheTTL, log)

	users := pgrepo.NewUserRepo(db)
	accounts := pgrepo.NewAccountRepo(db)
	skills := pgrepo.NewSkillRepo(db)
	certifications := pgrepo.NewCertificationRepo(db)
	cities := pgrepo.NewCityRepo(db)
	clientAds := pgrepo.NewAdRepo(db, models.AdTypeClient)
	specialistAds := pgrepo.NewAdRepo(db, models.AdTypeSpecialist)

	if err := services.SeedFirstAdmin(ctx, users, cfg.FirstAdmin.Email, cfg.FirstAdmin.Password, log); err != nil {
		log.Fatalf("admin seeding error: %v", err)
	}

	var providers []oauth.Provider
	if g := oauth.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.BaseURL+"/api/auth/callback/google"); g != nil {
		providers = append(providers, g)
	}
	if f := oauth.NewFacebook(cfg.Facebook.ClientID, cfg.Facebook.ClientSecret, cfg.BaseURL+"/api/auth/callback/facebook"); f != nil {
		providers = append(providers, f)
	}
	geo := geocoding.NewNominatim(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout)

	codec := auth.NewCodec(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.SessionTTL)
	authSvc := services.NewAuthService(users, codec)
	oauthSvc := services.NewOAuthService(oauth.NewRegistry(providers...), users, accounts, store, cfg.BaseURL)
	cookie := handlers.SessionCookie{TTL: codec.TTL(), Secure: cfg.Auth.CookieSecure}

	tpl, err := web.Templates()
	if err != nil {
		log.Fatalf("template error: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(tpl)
	routes.RegisterRoutes(r, routes.Deps{
		Log:         log,
		Sessions:    authSvc,
		Metrics:     reg,
		CORSOrigins: cfg.CORSAllowedOrigins,

		Auth:     handlers.NewAuthHandler(authSvc, oauthSvc, cookie, cfg.BaseURL),
		Register: handlers.NewRegisterHandler(services.NewRegistrationService(users)),
		OAuth:    handlers.NewOAuthHandler(oauthSvc, authSvc, cookie),
		Pages:    handlers.NewPageHandler(oauthSvc, cfg.BaseURL),
		Admin: handlers.NewAdminHandler(
			services.NewAdminUserService(users, pages),
			services.NewCityService(cities, geo, pages),
			services.NewAdService(clientAds, specialistAds, pages),
			services.NewStatsService(users, skills, certifications, clientAds, specialistAds, pages),
		),
		Skills:         handlers.NewSkillHandler(services.NewSkillService(skills, pages)),
		Certifications: handlers.NewCertificationHandler(services.NewCertificationService(certifications, pages)),
	})

	var handler http.Handler = r
	if cfg.TracingEnabled {
		handler = otelhttp.NewHandler(r, telemetry.ServiceName)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("server shutting down")
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown error")
		}
	}()

	log.WithField("port", cfg.Port).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
