package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/internal/handlers"
	"taskflow/internal/models"
	"taskflow/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService - мок сервиса аутентификации
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

var _ handlers.AuthService = (*MockAuthService)(nil)

func authRouter(h *handlers.AuthHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	return r
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Register", mock.Anything, "alice", "alice@example.com", "password123").
			Return(&models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"},
				"signed.jwt.token", nil)

		handler := handlers.NewAuthHandler(mockService)
		router := authRouter(&handler)

		payload := `{"username":"alice","email":"alice@example.com","password":"password123"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "User registered successfully", body["message"])
		assert.Equal(t, "signed.jwt.token", body["token"])
		registered := body["user"].(map[string]any)
		assert.Equal(t, "alice", registered["username"])
		mockService.AssertExpectations(t)
	})

	t.Run("error - missing fields", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Register", mock.Anything, "alice", "", "password123").
			Return(nil, "", service.NewValidationError("All fields are required"))

		handler := handlers.NewAuthHandler(mockService)
		router := authRouter(&handler)

		payload := `{"username":"alice","password":"password123"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "All fields are required", body["message"])
	})

	t.Run("error - duplicate user", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Register", mock.Anything, "alice", "alice@example.com", "password123").
			Return(nil, "", service.NewConflict("Username or email already exists"))

		handler := handlers.NewAuthHandler(mockService)
		router := authRouter(&handler)

		payload := `{"username":"alice","email":"alice@example.com","password":"password123"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Username or email already exists", body["message"])
	})

	t.Run("error - wrong content type", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService)
		router := authRouter(&handler)

		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(`username=alice`))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
		mockService.AssertNotCalled(t, "Register")
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Login", mock.Anything, "alice@example.com", "password123").
			Return(&models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"},
				"signed.jwt.token", nil)

		handler := handlers.NewAuthHandler(mockService)
		router := authRouter(&handler)

		payload := `{"email":"alice@example.com","password":"password123"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Login successful", body["message"])
		assert.Equal(t, "signed.jwt.token", body["token"])
		mockService.AssertExpectations(t)
	})

	t.Run("error - invalid credentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("Login", mock.Anything, "alice@example.com", "wrong").
			Return(nil, "", service.NewUnauthorized("Invalid email or password"))

		handler := handlers.NewAuthHandler(mockService)
		router := authRouter(&handler)

		payload := `{"email":"alice@example.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("error - malformed JSON", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService)
		router := authRouter(&handler)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Login")
	})
}
