package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"ridetracker/config"
	"ridetracker/pkg/jwt"
	"ridetracker/pkg/logger"
	"ridetracker/pkg/models"
	"ridetracker/service"
)

func testConfig() config.Config {
	return config.Config{
		ServiceName: "ridetracker-test",
		LoggerLevel: "error",
		PageSize:    20,
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
	}
}

func newTestServer(t *testing.T) (*Server, *fakeStore, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	store := newFakeStore()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	s := New(cfg, service.New(store, log), tokens, log)

	admin, err := store.users.Create(nil, &models.User{
		Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}
	token, err := tokens.GenerateToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		t.Fatal(err)
	}
	return s, store, token
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func addUser(t *testing.T, store *fakeStore, username, email string) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.MinCost)
	u, err := store.users.Create(nil, &models.User{
		Username:     username,
		Email:        email,
		Role:         models.RoleUser,
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func addRide(t *testing.T, store *fakeStore, status string, riderID, driverID *int64, lat, lng float64, pickupTime *time.Time) *models.Ride {
	t.Helper()
	ride, err := store.rides.Create(nil, &models.Ride{
		Status:          status,
		RiderID:         riderID,
		DriverID:        driverID,
		PickupLatitude:  lat,
		PickupLongitude: lng,
		PickupTime:      pickupTime,
	})
	if err != nil {
		t.Fatal(err)
	}
	return ride
}

func ptr[T any](v T) *T { return &v }
