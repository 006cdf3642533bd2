package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/attendly/attendance-api/internal/database"
	"github.com/attendly/attendance-api/internal/middleware"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/repository"
	"github.com/attendly/attendance-api/internal/services"
)

type adminTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *services.TokenService
}

func setupAdminTestEnv(t *testing.T) adminTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	tokens := services.NewTokenService("test-secret", time.Hour)
	authService := services.NewAuthService(userRepo, tokens)
	handler := NewAdminHandler(authService, zerolog.Nop())

	r := gin.New()
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(authService, tokens), middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", handler.ListUsers)
	admin.PATCH("/users/:id/active", handler.SetUserActive)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return adminTestEnv{db: db, router: r, tokens: tokens}
}

func (env adminTestEnv) createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env adminTestEnv) request(t *testing.T, method, url string, payload any, userID uint64) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	token, err := env.tokens.Generate(userID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAdminHandler_ListUsers(t *testing.T) {
	env := setupAdminTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	env.createUser(t, "employee@example.com", models.RoleEmployee)

	w := env.request(t, http.MethodGet, "/api/admin/users", nil, admin.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Users []map[string]any `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Users, 2)
}

func TestAdminHandler_EmployeeForbidden(t *testing.T) {
	env := setupAdminTestEnv(t)
	employee := env.createUser(t, "employee@example.com", models.RoleEmployee)

	w := env.request(t, http.MethodGet, "/api/admin/users", nil, employee.ID)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminHandler_SetUserActive(t *testing.T) {
	env := setupAdminTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	employee := env.createUser(t, "employee@example.com", models.RoleEmployee)

	w := env.request(t, http.MethodPatch,
		fmt.Sprintf("/api/admin/users/%d/active", employee.ID),
		map[string]bool{"is_active": false}, admin.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, employee.ID).Error)
	require.False(t, reloaded.IsActive)
}

func TestAdminHandler_SetUserActive_UnknownUser(t *testing.T) {
	env := setupAdminTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)

	w := env.request(t, http.MethodPatch, "/api/admin/users/9999/active",
		map[string]bool{"is_active": false}, admin.ID)
	require.Equal(t, http.StatusNotFound, w.Code)
}
