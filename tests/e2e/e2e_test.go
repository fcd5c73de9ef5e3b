package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cleanmarket/internal/database"
	"cleanmarket/internal/domain"
	"cleanmarket/internal/middleware"
	"cleanmarket/internal/modules/admin"
	"cleanmarket/internal/modules/booking"
	"cleanmarket/internal/modules/catalog"
	"cleanmarket/internal/modules/review"
	jwtsvc "cleanmarket/internal/pkg/jwt"
	"cleanmarket/internal/repository"
)

type suite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service

	users   *repository.UserRepository
	catalog *repository.CatalogRepository

	customer domain.User
	cleaner  domain.User
	admin    domain.User

	service  domain.Service
	areaSize domain.AreaSize
	timeSlot domain.TimeSlot
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *apiError       `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupSuite(t *testing.T) *suite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	// the in-memory database lives per connection; keep the pool at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db))

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	j := jwtsvc.New("e2e-secret", time.Hour)

	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, catalogRepo, userRepo))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, bookingRepo))
	catalogHandler := catalog.NewHandler(catalog.NewService(catalogRepo))
	adminHandler := admin.NewHandler(admin.NewService(statsRepo, bookingRepo))

	r := gin.New()
	v1 := r.Group("/api/v1")
	catalogHandler.RegisterRoutes(v1)

	authed := v1.Group("/")
	authed.Use(middleware.RequireAuth(j))
	reviewHandler.RegisterRoutes(authed)

	customerGrp := authed.Group("/")
	customerGrp.Use(middleware.RequireRole(string(domain.RoleCustomer)))
	bookingHandler.RegisterCustomerRoutes(customerGrp)

	cleanerGrp := authed.Group("/")
	cleanerGrp.Use(middleware.RequireRole(string(domain.RoleCleaner)))
	bookingHandler.RegisterCleanerRoutes(cleanerGrp)

	adminGrp := authed.Group("/")
	adminGrp.Use(middleware.RequireRole(string(domain.RoleAdmin)))
	adminHandler.RegisterRoutes(adminGrp)

	s := &suite{router: r, db: db, jwt: j, users: userRepo, catalog: catalogRepo}
	s.seed(t)
	return s
}

func (s *suite) seed(t *testing.T) {
	ctx := t.Context()

	s.customer = domain.User{Email: "customer@example.com", Name: "Asel", Phone: "+77001234567", Role: domain.RoleCustomer, Status: domain.UserActive}
	require.NoError(t, s.users.Create(ctx, &s.customer))

	s.cleaner = domain.User{Email: "cleaner@example.com", Name: "Bekzat", Role: domain.RoleCleaner, Status: domain.UserActive}
	require.NoError(t, s.users.Create(ctx, &s.cleaner))

	s.admin = domain.User{Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin, Status: domain.UserActive}
	require.NoError(t, s.users.Create(ctx, &s.admin))

	s.service = domain.Service{Name: "Standard Cleaning", BasePrice: 300000, IsActive: true}
	require.NoError(t, s.catalog.CreateService(ctx, &s.service))

	s.areaSize = domain.AreaSize{Name: "Medium", Multiplier: 1.5, IsActive: true}
	require.NoError(t, s.catalog.CreateAreaSize(ctx, &s.areaSize))

	s.timeSlot = domain.TimeSlot{TimeRange: "08:00 - 11:00", IsActive: true}
	require.NoError(t, s.catalog.CreateTimeSlot(ctx, &s.timeSlot))
}

func (s *suite) token(t *testing.T, u domain.User) string {
	tok, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return tok
}

func (s *suite) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, apiResponse) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (s *suite) createBookingPayload() map[string]any {
	return map[string]any{
		"service_id":       s.service.ID,
		"area_size_id":     s.areaSize.ID,
		"time_slot_id":     s.timeSlot.ID,
		"booking_date":     time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02"),
		"address_district": "Almaly",
		"address_detail":   "Abay Ave 10, apt 5",
		"contact_name":     "Asel",
		"contact_phone":    "+77001234567",
		"notes":            "Two cats at home",
	}
}

func (s *suite) createBooking(t *testing.T) repository.BookingDetails {
	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", s.token(t, s.customer), s.createBookingPayload())
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var d repository.BookingDetails
	require.NoError(t, json.Unmarshal(resp.Data, &d))
	return d
}

func TestHappyPath(t *testing.T) {
	s := setupSuite(t)

	// create: 300000 * 1.5 = 450000, pending, no cleaner
	d := s.createBooking(t)
	assert.Equal(t, 450000.0, d.TotalPrice)
	assert.Equal(t, "pending", d.Status)
	assert.Nil(t, d.CleanerID)
	assert.Equal(t, "Abay Ave 10, apt 5, Almaly", d.Address)
	assert.Equal(t, "Standard Cleaning", d.ServiceName)

	cleanerTok := s.token(t, s.cleaner)

	// job is visible to cleaners
	w, resp := s.request(t, http.MethodGet, "/api/v1/cleaner/available-jobs", cleanerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var jobs []repository.BookingDetails
	require.NoError(t, json.Unmarshal(resp.Data, &jobs))
	require.Len(t, jobs, 1)

	// claim
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/cleaner/accept-job/%d", d.ID), cleanerTok, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var claimed repository.BookingDetails
	require.NoError(t, json.Unmarshal(resp.Data, &claimed))
	assert.Equal(t, "confirmed", claimed.Status)
	require.NotNil(t, claimed.CleanerID)
	assert.Equal(t, s.cleaner.ID, *claimed.CleanerID)

	// advance confirmed -> in_progress -> completed
	for _, next := range []string{"in_progress", "completed"} {
		w, _ = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/cleaner/update-job-status/%d", d.ID), cleanerTok,
			map[string]string{"status": next})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s, body: %s", next, w.Body.String())
	}

	// price unchanged after the lifecycle
	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", d.ID), s.token(t, s.customer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var final repository.BookingDetails
	require.NoError(t, json.Unmarshal(resp.Data, &final))
	assert.Equal(t, "completed", final.Status)
	assert.Equal(t, 450000.0, final.TotalPrice)

	// review
	custTok := s.token(t, s.customer)
	w, _ = s.request(t, http.MethodPost, "/api/v1/review", custTok,
		map[string]any{"booking_id": d.ID, "rating": 5, "comment": "Spotless"})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	// second review is a duplicate
	w, resp = s.request(t, http.MethodPost, "/api/v1/review", custTok,
		map[string]any{"booking_id": d.ID, "rating": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STATE_CONFLICT", resp.Error.Code)

	// exactly one row in the table
	var cnt int64
	s.db.Table("reviews").Where("booking_id = ?", d.ID).Count(&cnt)
	assert.Equal(t, int64(1), cnt)
}

func TestClaimExclusivity(t *testing.T) {
	s := setupSuite(t)
	d := s.createBooking(t)

	// register extra cleaners
	cleaners := []domain.User{s.cleaner}
	for i := 0; i < 4; i++ {
		u := domain.User{
			Email:  fmt.Sprintf("cleaner%d@example.com", i),
			Name:   fmt.Sprintf("Cleaner %d", i),
			Role:   domain.RoleCleaner,
			Status: domain.UserActive,
		}
		require.NoError(t, s.users.Create(t.Context(), &u))
		cleaners = append(cleaners, u)
	}

	tokens := make([]string, len(cleaners))
	for i, u := range cleaners {
		tokens[i] = s.token(t, u)
	}

	codes := make([]int, len(cleaners))
	var wg sync.WaitGroup
	for i := range cleaners {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/cleaner/accept-job/%d", d.ID), nil)
			req.Header.Set("Authorization", "Bearer "+tokens[i])
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, code := range codes {
		if code == http.StatusOK {
			winners++
		} else {
			assert.Equal(t, http.StatusBadRequest, code)
		}
	}
	assert.Equal(t, 1, winners, "exactly one claim must succeed")

	var assigned []int64
	s.db.Table("bookings").Where("id = ?", d.ID).Pluck("cleaner_id", &assigned)
	require.Len(t, assigned, 1)
	assert.NotZero(t, assigned[0], "booking must end with a cleaner set")
}

func TestPendingCannotBeAdvanced(t *testing.T) {
	s := setupSuite(t)
	d := s.createBooking(t)

	// skip the claim and go straight for in_progress
	w, resp := s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/cleaner/update-job-status/%d", d.ID),
		s.token(t, s.cleaner), map[string]string{"status": "in_progress"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STATE_CONFLICT", resp.Error.Code)

	var status []string
	s.db.Table("bookings").Where("id = ?", d.ID).Pluck("status", &status)
	require.Len(t, status, 1)
	assert.Equal(t, "pending", status[0])
}

func TestPastDateRejected(t *testing.T) {
	s := setupSuite(t)

	payload := s.createBookingPayload()
	payload["booking_date"] = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", s.token(t, s.customer), payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	var cnt int64
	s.db.Table("bookings").Count(&cnt)
	assert.Equal(t, int64(0), cnt, "no row may be persisted")
}

func TestOwnershipEnforcement(t *testing.T) {
	s := setupSuite(t)
	d := s.createBooking(t)

	// first cleaner claims
	w, _ := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/cleaner/accept-job/%d", d.ID), s.token(t, s.cleaner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	intruder := domain.User{Email: "other@example.com", Name: "Other", Role: domain.RoleCleaner, Status: domain.UserActive}
	require.NoError(t, s.users.Create(t.Context(), &intruder))

	// legal transition, wrong cleaner
	w, resp := s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/cleaner/update-job-status/%d", d.ID),
		s.token(t, intruder), map[string]string{"status": "in_progress"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestCustomerCancelOnlyWhilePending(t *testing.T) {
	s := setupSuite(t)
	d := s.createBooking(t)
	custTok := s.token(t, s.customer)

	// claimed bookings are out of the customer's hands
	w, _ := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/cleaner/accept-job/%d", d.ID), s.token(t, s.cleaner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d/cancel", d.ID), custTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "STATE_CONFLICT", resp.Error.Code)

	// a fresh pending one cancels fine
	d2 := s.createBooking(t)
	w, _ = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d/cancel", d2.ID), custTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleGates(t *testing.T) {
	s := setupSuite(t)

	// no token
	w, _ := s.request(t, http.MethodGet, "/api/v1/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// customer on a cleaner route
	w, _ = s.request(t, http.MethodGet, "/api/v1/cleaner/available-jobs", s.token(t, s.customer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// cleaner on an admin route
	w, _ = s.request(t, http.MethodGet, "/api/v1/admin/dashboard", s.token(t, s.cleaner), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// public catalog needs no token
	w, _ = s.request(t, http.MethodGet, "/api/v1/services", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewEligibility(t *testing.T) {
	s := setupSuite(t)
	d := s.createBooking(t)
	custTok := s.token(t, s.customer)

	// not completed yet
	w, resp := s.request(t, http.MethodPost, "/api/v1/review", custTok,
		map[string]any{"booking_id": d.ID, "rating": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "STATE_CONFLICT", resp.Error.Code)

	// no review yet -> 404 on lookup, reviewed=false on check
	w, _ = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/review/booking/%d", d.ID), custTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/review/check/%d", d.ID), custTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var check struct {
		Reviewed bool `json:"reviewed"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &check))
	assert.False(t, check.Reviewed)
}

func TestConcurrentReviews(t *testing.T) {
	s := setupSuite(t)
	d := s.createBooking(t)
	cleanerTok := s.token(t, s.cleaner)

	w, _ := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/cleaner/accept-job/%d", d.ID), cleanerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, next := range []string{"in_progress", "completed"} {
		w, _ = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/cleaner/update-job-status/%d", d.ID), cleanerTok,
			map[string]string{"status": next})
		require.Equal(t, http.StatusOK, w.Code)
	}

	custTok := s.token(t, s.customer)
	body, _ := json.Marshal(map[string]any{"booking_id": d.ID, "rating": 5})

	const n = 4
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/review", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+custTok)
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
		}
	}
	assert.Equal(t, 1, created, "exactly one review create must succeed")

	var cnt int64
	s.db.Table("reviews").Where("booking_id = ? AND customer_id = ?", d.ID, s.customer.ID).Count(&cnt)
	assert.Equal(t, int64(1), cnt)
}

func TestAdminForceStatusAndDashboard(t *testing.T) {
	s := setupSuite(t)
	d := s.createBooking(t)
	adminTok := s.token(t, s.admin)

	// pending -> completed, which no cleaner edge allows
	w, resp := s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/bookings/%d/status", d.ID), adminTok,
		map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	w, resp = s.request(t, http.MethodGet, "/api/v1/admin/dashboard", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dash struct {
		BookingsByStatus map[string]int64 `json:"bookings_by_status"`
		Revenue          float64          `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &dash))
	assert.Equal(t, int64(1), dash.BookingsByStatus["completed"])
	assert.Equal(t, 450000.0, dash.Revenue)
}
