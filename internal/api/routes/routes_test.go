package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Asnet-code/Specialisci/internal/api/handlers"
	"github.com/Asnet-code/Specialisci/internal/auth"
	"github.com/Asnet-code/Specialisci/internal/cache"
	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/providers/geocoding"
	"github.com/Asnet-code/Specialisci/internal/providers/oauth"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/Asnet-code/Specialisci/internal/utils"
	"github.com/Asnet-code/Specialisci/internal/web"
)

const baseURL = "http://localhost:8080"

func init() { gin.SetMode(gin.TestMode) }

// stubGeocoder answers every lookup with coords, nil meaning "not found".
type stubGeocoder struct{ coords *geocoding.Coordinates }

func (s stubGeocoder) Lookup(context.Context, string) (*geocoding.Coordinates, error) {
	return s.coords, nil
}

type testApp struct {
	router http.Handler
	db     *gorm.DB
	users  pgrepo.UserRepository
	skills pgrepo.TaxonomyRepository
	codec  *auth.Codec
}

func newTestApp(t *testing.T, geo geocoding.Geocoder) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := logrus.New()
	log.SetOutput(io.Discard)
	store := cache.NewMemoryCache()
	pages := cache.NewPages(store, time.Minute, log)

	users := pgrepo.NewUserRepo(db)
	skills := pgrepo.NewSkillRepo(db)
	certifications := pgrepo.NewCertificationRepo(db)
	clientAds := pgrepo.NewAdRepo(db, models.AdTypeClient)
	specialistAds := pgrepo.NewAdRepo(db, models.AdTypeSpecialist)

	codec := auth.NewCodec("0123456789abcdef0123456789abcdef", "specialisci", time.Hour)
	authSvc := services.NewAuthService(users, codec)
	oauthSvc := services.NewOAuthService(oauth.NewRegistry(), users, pgrepo.NewAccountRepo(db), store, baseURL)
	cookie := handlers.SessionCookie{TTL: codec.TTL()}

	tpl, err := web.Templates()
	require.NoError(t, err)
	r := gin.New()
	r.SetHTMLTemplate(tpl)
	RegisterRoutes(r, Deps{
		Log:      log,
		Sessions: authSvc,
		Metrics:  prometheus.NewRegistry(),
		Auth:     handlers.NewAuthHandler(authSvc, oauthSvc, cookie, baseURL),
		Register: handlers.NewRegisterHandler(services.NewRegistrationService(users)),
		OAuth:    handlers.NewOAuthHandler(oauthSvc, authSvc, cookie),
		Pages:    handlers.NewPageHandler(oauthSvc, baseURL),
		Admin: handlers.NewAdminHandler(
			services.NewAdminUserService(users, pages),
			services.NewCityService(pgrepo.NewCityRepo(db), geo, pages),
			services.NewAdService(clientAds, specialistAds, pages),
			services.NewStatsService(users, skills, certifications, clientAds, specialistAds, pages),
		),
		Skills:         handlers.NewSkillHandler(services.NewSkillService(skills, pages)),
		Certifications: handlers.NewCertificationHandler(services.NewCertificationService(certifications, pages)),
	})
	return &testApp{router: r, db: db, users: users, skills: skills, codec: codec}
}

func (a *testApp) user(t *testing.T, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password, utils.AdminHashCost)
	require.NoError(t, err)
	u := &models.User{Email: email, Password: &hash, Role: role, Status: models.StatusActive}
	require.NoError(t, a.users.CreateWithProfile(context.Background(), u))
	return u
}

func (a *testApp) token(t *testing.T, u *models.User) string {
	t.Helper()
	raw, err := a.codec.Sign(&auth.Claims{ID: u.ID, Email: u.Email, Role: u.Role, Status: u.Status})
	require.NoError(t, err)
	return raw
}

type request struct {
	method, path, token string
	json                any
	form                url.Values
}

func (a *testApp) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	contentType := ""
	switch {
	case r.json != nil:
		b, err := json.Marshal(r.json)
		require.NoError(t, err)
		body, contentType = strings.NewReader(string(b)), "application/json"
	case r.form != nil:
		body, contentType = strings.NewReader(r.form.Encode()), "application/x-www-form-urlencoded"
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: r.token})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName && c.MaxAge >= 0 {
			return c.Value
		}
	}
	return ""
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestPing(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	w := a.do(t, request{method: http.MethodGet, path: "/ping"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestRegister(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	payload := map[string]any{
		"name":                 "Jan",
		"surname":              "Kowalski",
		"email":                "jan@example.com",
		"password":             "password123",
		"passwordConfirmation": "password123",
		"role":                 "SPECIALIST",
		"acceptPrivacyPolicy":  true,
	}

	w := a.do(t, request{method: http.MethodPost, path: "/api/register", json: payload})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		OK   bool `json:"ok"`
		User struct {
			Email  string `json:"email"`
			Role   string `json:"role"`
			Status string `json:"status"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.OK)
	assert.Equal(t, "SPECIALIST", created.User.Role)
	assert.Equal(t, "PENDING_EMAIL_VERIFY", created.User.Status)

	w = a.do(t, request{method: http.MethodPost, path: "/api/register", json: payload})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, request{method: http.MethodPost, path: "/api/register", json: map[string]any{"email": "x@example.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Brak wymaganych pól: email, password, role", errorBody(t, w))

	n, err := a.users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCredentials_JSON(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	a.user(t, "jan@example.com", "secret-pass", models.RoleClient)

	wrong := a.do(t, request{method: http.MethodPost, path: "/api/auth/callback/credentials",
		json: map[string]string{"email": "jan@example.com", "password": "nope"}})
	unknown := a.do(t, request{method: http.MethodPost, path: "/api/auth/callback/credentials",
		json: map[string]string{"email": "ghost@example.com", "password": "nope"}})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Empty(t, sessionCookie(wrong))

	ok := a.do(t, request{method: http.MethodPost, path: "/api/auth/callback/credentials",
		json: map[string]string{"email": "jan@example.com", "password": "secret-pass", "callbackUrl": "/specialisci"}})
	require.Equal(t, http.StatusOK, ok.Code)
	assert.JSONEq(t, `{"ok":true,"url":"`+baseURL+`/specialisci"}`, ok.Body.String())

	token := sessionCookie(ok)
	require.NotEmpty(t, token)
	claims, err := a.codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, claims.Role)
}

func TestCredentials_Form(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	a.user(t, "jan@example.com", "secret-pass", models.RoleClient)

	w := a.do(t, request{method: http.MethodPost, path: "/api/auth/callback/credentials",
		form: url.Values{"email": {"jan@example.com"}, "password": {"secret-pass"}, "callbackUrl": {"https://evil.example/"}}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotEmpty(t, sessionCookie(w))

	w = a.do(t, request{method: http.MethodPost, path: "/api/auth/callback/credentials",
		form: url.Values{"email": {"jan@example.com"}, "password": {"bad"}}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=CredentialsSignin", w.Header().Get("Location"))
}

func TestSession_RefreshReflectsStoredRole(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	u := a.user(t, "jan@example.com", "secret-pass", models.RoleClient)
	token := a.token(t, u)

	require.NoError(t, a.users.Update(context.Background(), u.ID, map[string]any{"role": models.RoleSpecialist}))

	w := a.do(t, request{method: http.MethodGet, path: "/api/auth/session", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	var s struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Expires time.Time `json:"expires"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "SPECIALIST", s.User.Role)
	assert.True(t, s.Expires.After(time.Now()))

	w = a.do(t, request{method: http.MethodGet, path: "/api/auth/session"})
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestOAuthComplete(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	u := &models.User{Email: "oauth@example.com", Role: models.RoleClient, Status: models.StatusActive}
	require.NoError(t, a.users.CreateWithProfile(context.Background(), u))
	token := a.token(t, u)

	w := a.do(t, request{method: http.MethodPost, path: "/api/oauth/complete", json: map[string]string{"role": "SPECIALIST"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, request{method: http.MethodPost, path: "/api/oauth/complete", token: token, json: map[string]string{"role": "ADMIN"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 2; i++ {
		w = a.do(t, request{method: http.MethodPost, path: "/api/oauth/complete", token: token, json: map[string]string{"role": "SPECIALIST"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	}

	claims, err := a.codec.Parse(sessionCookie(w))
	require.NoError(t, err)
	assert.Equal(t, models.RoleSpecialist, claims.Role)

	_, specialists, err := a.users.CountProfiles(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), specialists)

	ghost := &models.User{ID: "00000000-0000-0000-0000-000000000000", Email: "ghost@example.com", Role: models.RoleClient, Status: models.StatusActive}
	w = a.do(t, request{method: http.MethodPost, path: "/api/oauth/complete", token: a.token(t, ghost), json: map[string]string{"role": "CLIENT"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOAuthFinalize_Redirects(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	u := &models.User{Email: "oauth@example.com", Role: models.RoleClient, Status: models.StatusActive}
	require.NoError(t, a.users.CreateWithProfile(context.Background(), u))

	cases := []struct {
		path, token, location string
	}{
		{"/oauth/finalize?role=ADMIN", a.token(t, u), "/"},
		{"/oauth/finalize", a.token(t, u), "/"},
		{"/oauth/finalize?role=SPECIALIST", "", "/login"},
		{"/oauth/finalize?role=SPECIALIST", a.token(t, u), "/"},
	}
	for _, tc := range cases {
		w := a.do(t, request{method: http.MethodGet, path: tc.path, token: tc.token})
		assert.Equal(t, http.StatusFound, w.Code, tc.path)
		assert.Equal(t, tc.location, w.Header().Get("Location"), tc.path)
	}

	stored, err := a.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSpecialist, stored.Role)
}

func TestAdminGuard(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	client := a.user(t, "client@example.com", "secret-pass", models.RoleClient)
	admin := a.user(t, "admin@example.com", "secret-pass", models.RoleAdmin)

	w := a.do(t, request{method: http.MethodGet, path: "/admin/users", token: a.token(t, client)})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fadmin%2Fusers", w.Header().Get("Location"))

	w = a.do(t, request{method: http.MethodGet, path: "/admin/users", token: a.token(t, admin)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "client@example.com")

	w = a.do(t, request{method: http.MethodGet, path: "/api/admin/stats"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", w.Body.String())

	w = a.do(t, request{method: http.MethodGet, path: "/api/admin/stats", token: a.token(t, admin)})
	require.Equal(t, http.StatusOK, w.Code)
	var stats services.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Users)
}

func TestAdminDemotionAppliesToExistingSession(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	ctx := context.Background()
	admin := a.user(t, "b@example.com", "secret-pass", models.RoleAdmin)
	token := a.token(t, admin)

	require.NoError(t, a.users.Update(ctx, admin.ID, map[string]any{"role": models.RoleClient}))

	w := a.do(t, request{method: http.MethodPost, path: "/admin/users/create", token: token,
		form: url.Values{"email": {"x@example.com"}, "password": {"secret-pass"}, "role": {"ADMIN"}}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	_, err := a.users.GetByEmail(ctx, "x@example.com")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	w = a.do(t, request{method: http.MethodGet, path: "/admin/users", token: token})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, request{method: http.MethodGet, path: "/api/admin/users", token: token})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Brak uprawnień administratora.", errorBody(t, w))

	require.NoError(t, a.users.Update(ctx, admin.ID, map[string]any{"role": models.RoleSpecialist}))
	w = a.do(t, request{method: http.MethodGet, path: "/specialisci", token: token})
	assert.Contains(t, w.Body.String(), "Twoja rola to")
}

func TestAdminSkills_FormActions(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	admin := a.token(t, a.user(t, "admin@example.com", "secret-pass", models.RoleAdmin))
	ctx := context.Background()

	w := a.do(t, request{method: http.MethodPost, path: "/admin/skills/create", token: admin,
		form: url.Values{"name": {"Hydraulik"}, "displayOrder": {"3"}}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/admin/skills", w.Header().Get("Location"))

	rows, err := a.skills.List(ctx, pgrepo.Listing{Sort: "display_order", Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hydraulik", rows[0].Slug)
	assert.True(t, rows[0].IsActive)

	w = a.do(t, request{method: http.MethodPost, path: "/admin/skills/create", token: admin,
		form: url.Values{"name": {"Hydraulik"}}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, request{method: http.MethodPost, path: "/admin/skills/create", token: admin,
		form: url.Values{"name": {"H"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 2; i++ {
		w = a.do(t, request{method: http.MethodPost, path: "/admin/skills/toggle", token: admin,
			form: url.Values{"id": {rows[0].ID}}})
		require.Equal(t, http.StatusSeeOther, w.Code)
	}
	got, err := a.skills.GetByID(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	w = a.do(t, request{method: http.MethodGet, path: "/api/admin/skills?q=hydr", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"hydraulik"`)
}

func TestAdminCities_GeocodeFailure(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	admin := a.token(t, a.user(t, "admin@example.com", "secret-pass", models.RoleAdmin))

	w := a.do(t, request{method: http.MethodPost, path: "/admin/cities/create", token: admin,
		form: url.Values{"name": {"Nibylandia"}, "lat": {""}, "lng": {""}}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Nie udało się pobrać współrzędnych")

	w = a.do(t, request{method: http.MethodPost, path: "/admin/cities/create", token: admin,
		form: url.Values{"name": {"Łódź"}, "lat": {"51.76"}, "lng": {"19.46"}}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/cities", w.Header().Get("Location"))

	w = a.do(t, request{method: http.MethodGet, path: "/api/admin/cities", token: admin})
	assert.Contains(t, w.Body.String(), `"slug":"lodz"`)
}

func TestAdminAds_RedirectFollowsType(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	adminUser := a.user(t, "admin@example.com", "secret-pass", models.RoleAdmin)
	admin := a.token(t, adminUser)

	ad := &models.SpecialistAd{Ad: models.Ad{UserID: adminUser.ID, Title: "Murarz", Status: models.AdActive}}
	require.NoError(t, a.db.Create(ad).Error)

	w := a.do(t, request{method: http.MethodPost, path: "/admin/ads/extend", token: admin,
		form: url.Values{"adType": {"specialist"}, "id": {ad.ID}, "days": {"7"}}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/admin/specialist-ads", w.Header().Get("Location"))

	w = a.do(t, request{method: http.MethodPost, path: "/admin/ads/extend", token: admin,
		form: url.Values{"adType": {"specialist"}, "id": {ad.ID}, "days": {"500"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, days := range []string{"0", "abc"} {
		w = a.do(t, request{method: http.MethodPost, path: "/admin/ads/extend", token: admin,
			form: url.Values{"adType": {"specialist"}, "id": {ad.ID}, "days": {days}}})
		assert.Equal(t, http.StatusBadRequest, w.Code, days)
	}

	w = a.do(t, request{method: http.MethodPost, path: "/admin/ads/extend", token: admin,
		form: url.Values{"adType": {"specialist"}, "id": {ad.ID}}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = a.do(t, request{method: http.MethodGet, path: "/admin/specialist-ads", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Murarz")

	w = a.do(t, request{method: http.MethodPost, path: "/admin/ads/delete", token: admin,
		form: url.Values{"adType": {"specialist"}, "id": {ad.ID}}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = a.do(t, request{method: http.MethodGet, path: "/api/admin/specialist-ads", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	var page services.AdPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Zero(t, page.Total)
}

func TestPages(t *testing.T) {
	a := newTestApp(t, stubGeocoder{})
	specialist := a.user(t, "spec@example.com", "secret-pass", models.RoleSpecialist)
	client := a.user(t, "client@example.com", "secret-pass", models.RoleClient)

	w := a.do(t, request{method: http.MethodGet, path: "/specialisci", token: a.token(t, specialist)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Twoja rola to")

	w = a.do(t, request{method: http.MethodGet, path: "/specialisci", token: a.token(t, client)})
	assert.Contains(t, w.Body.String(), "Nie masz uprawnień")

	w = a.do(t, request{method: http.MethodGet, path: "/login?error=CredentialsSignin"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Zły e-mail lub hasło")

	w = a.do(t, request{method: http.MethodGet, path: "/login?error=OAuthAccountNotLinked"})
	assert.Contains(t, w.Body.String(), "Zaloguj się tak jak poprzednio")

	w = a.do(t, request{method: http.MethodGet, path: "/login", token: a.token(t, client)})
	assert.Equal(t, http.StatusFound, w.Code)

	w = a.do(t, request{method: http.MethodGet, path: "/nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
