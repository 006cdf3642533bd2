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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/attendly/attendance-api/internal/database"
	"github.com/attendly/attendance-api/internal/middleware"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/repository"
	"github.com/attendly/attendance-api/internal/services"
)

// AttendanceHandlerTestSuite defines the test suite for AttendanceHandler
type AttendanceHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	tokens *services.TokenService
}

// SetupTest runs before each test
func (suite *AttendanceHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Attendance{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	attendanceRepo := repository.NewAttendanceRepository(suite.db)
	suite.tokens = services.NewTokenService("test-secret", time.Hour)
	authService := services.NewAuthService(userRepo, suite.tokens)
	attendanceService := services.NewAttendanceService(attendanceRepo)
	handler := NewAttendanceHandler(attendanceService, zerolog.Nop())

	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	protected := suite.router.Group("/api/attendance")
	protected.Use(middleware.RequireAuth(authService, suite.tokens))
	protected.POST("/checkin", handler.CheckIn)
	protected.PATCH("/checkout", handler.CheckOut)
	protected.GET("/today", handler.Today)
	protected.GET("", handler.History)
}

// TearDownTest runs after each test
func (suite *AttendanceHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AttendanceHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         models.RoleEmployee,
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

func (suite *AttendanceHandlerTestSuite) request(method, url string, body []byte, userID uint64) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	token, err := suite.tokens.Generate(userID)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AttendanceHandlerTestSuite) TestCheckIn_Success() {
	user := suite.createTestUser("test@example.com")

	w := suite.request("POST", "/api/attendance/checkin", nil, user.ID)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response struct {
		Success bool           `json:"success"`
		Record  map[string]any `json:"record"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response.Success)
	assert.Equal(suite.T(), "present", response.Record["status"])
	assert.NotEmpty(suite.T(), response.Record["checked_in_at"])
	assert.Nil(suite.T(), response.Record["checked_out_at"])
}

func (suite *AttendanceHandlerTestSuite) TestCheckIn_WithStatusAndNotes() {
	user := suite.createTestUser("test@example.com")

	body, _ := json.Marshal(map[string]string{
		"status": "late",
		"notes":  "train delay",
	})
	w := suite.request("POST", "/api/attendance/checkin", body, user.ID)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response struct {
		Record map[string]any `json:"record"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "late", response.Record["status"])
	assert.Equal(suite.T(), "train delay", response.Record["notes"])
}

func (suite *AttendanceHandlerTestSuite) TestCheckIn_InvalidStatus() {
	user := suite.createTestUser("test@example.com")

	body, _ := json.Marshal(map[string]string{"status": "vacationing"})
	w := suite.request("POST", "/api/attendance/checkin", body, user.ID)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *AttendanceHandlerTestSuite) TestCheckIn_TwiceSameDay() {
	user := suite.createTestUser("test@example.com")

	first := suite.request("POST", "/api/attendance/checkin", nil, user.ID)
	assert.Equal(suite.T(), http.StatusCreated, first.Code)

	second := suite.request("POST", "/api/attendance/checkin", nil, user.ID)
	assert.Equal(suite.T(), http.StatusConflict, second.Code)

	// Exactly one record exists for (user, today)
	var count int64
	suite.db.Model(&models.Attendance{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *AttendanceHandlerTestSuite) TestCheckOut_Success() {
	user := suite.createTestUser("test@example.com")

	suite.request("POST", "/api/attendance/checkin", nil, user.ID)
	w := suite.request("PATCH", "/api/attendance/checkout", nil, user.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Record map[string]any `json:"record"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotNil(suite.T(), response.Record["checked_out_at"])
}

func (suite *AttendanceHandlerTestSuite) TestCheckOut_WithoutCheckIn() {
	user := suite.createTestUser("test@example.com")

	w := suite.request("PATCH", "/api/attendance/checkout", nil, user.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.Attendance{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *AttendanceHandlerTestSuite) TestCheckOut_Twice() {
	user := suite.createTestUser("test@example.com")

	suite.request("POST", "/api/attendance/checkin", nil, user.ID)
	first := suite.request("PATCH", "/api/attendance/checkout", nil, user.ID)
	assert.Equal(suite.T(), http.StatusOK, first.Code)

	var firstRecord models.Attendance
	suite.db.Where("user_id = ?", user.ID).First(&firstRecord)

	second := suite.request("PATCH", "/api/attendance/checkout", nil, user.ID)
	assert.Equal(suite.T(), http.StatusNotFound, second.Code)

	// The closed record is untouched by the failed second attempt
	var reloaded models.Attendance
	suite.db.Where("user_id = ?", user.ID).First(&reloaded)
	assert.Equal(suite.T(), firstRecord.CheckOutAt.Unix(), reloaded.CheckOutAt.Unix())
}

func (suite *AttendanceHandlerTestSuite) TestToday_NoRecord() {
	user := suite.createTestUser("test@example.com")

	w := suite.request("GET", "/api/attendance/today", nil, user.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Nil(suite.T(), response["record"])
}

func (suite *AttendanceHandlerTestSuite) TestToday_AfterCheckIn() {
	user := suite.createTestUser("test@example.com")

	suite.request("POST", "/api/attendance/checkin", nil, user.ID)
	w := suite.request("GET", "/api/attendance/today", nil, user.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Record map[string]any `json:"record"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().NotNil(response.Record)
	assert.Equal(suite.T(), services.TodayUTC().Format("2006-01-02"), response.Record["date"])
}

func (suite *AttendanceHandlerTestSuite) createHistoricRecord(userID uint64, daysAgo int) {
	date := services.TodayUTC().AddDate(0, 0, -daysAgo)
	record := models.Attendance{
		UserID:    userID,
		Date:      date,
		CheckInAt: date.Add(9 * time.Hour),
		Status:    models.AttendancePresent,
	}
	suite.Require().NoError(suite.db.Create(&record).Error)
}

func (suite *AttendanceHandlerTestSuite) TestHistory_NewestFirst() {
	user := suite.createTestUser("test@example.com")
	for _, daysAgo := range []int{3, 1, 2} {
		suite.createHistoricRecord(user.ID, daysAgo)
	}

	w := suite.request("GET", "/api/attendance", nil, user.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Records []struct {
			Date string `json:"date"`
		} `json:"records"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Records, 3)
	assert.Equal(suite.T(), int64(3), response.Pagination.Total)

	for i := 0; i < len(response.Records)-1; i++ {
		assert.Greater(suite.T(), response.Records[i].Date, response.Records[i+1].Date)
	}
}

func (suite *AttendanceHandlerTestSuite) TestHistory_DateRange() {
	user := suite.createTestUser("test@example.com")
	for daysAgo := 1; daysAgo <= 5; daysAgo++ {
		suite.createHistoricRecord(user.ID, daysAgo)
	}

	from := services.TodayUTC().AddDate(0, 0, -3).Format("2006-01-02")
	to := services.TodayUTC().AddDate(0, 0, -2).Format("2006-01-02")
	url := fmt.Sprintf("/api/attendance?from=%s&to=%s", from, to)

	w := suite.request("GET", url, nil, user.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Records []any `json:"records"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Records, 2)
}

func (suite *AttendanceHandlerTestSuite) TestHistory_BadDateRange() {
	user := suite.createTestUser("test@example.com")

	w := suite.request("GET", "/api/attendance?from=2025-02-01&to=2025-01-01", nil, user.ID)
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)

	w = suite.request("GET", "/api/attendance?from=not-a-date", nil, user.ID)
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *AttendanceHandlerTestSuite) TestHistory_ScopedToUser() {
	alice := suite.createTestUser("alice@example.com")
	bob := suite.createTestUser("bob@example.com")
	suite.createHistoricRecord(alice.ID, 1)
	suite.createHistoricRecord(bob.ID, 1)

	w := suite.request("GET", "/api/attendance", nil, alice.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Records []struct {
			UserID uint64 `json:"user_id"`
		} `json:"records"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Records, 1)
	assert.Equal(suite.T(), alice.ID, response.Records[0].UserID)
}

// TestDailyCycle walks the full check-in/check-out day.
func (suite *AttendanceHandlerTestSuite) TestDailyCycle() {
	user := suite.createTestUser("a@x.com")

	checkin := suite.request("POST", "/api/attendance/checkin", nil, user.ID)
	assert.Equal(suite.T(), http.StatusCreated, checkin.Code)

	again := suite.request("POST", "/api/attendance/checkin", nil, user.ID)
	assert.Equal(suite.T(), http.StatusConflict, again.Code)

	checkout := suite.request("PATCH", "/api/attendance/checkout", nil, user.ID)
	assert.Equal(suite.T(), http.StatusOK, checkout.Code)

	var response struct {
		Record map[string]any `json:"record"`
	}
	suite.Require().NoError(json.Unmarshal(checkout.Body.Bytes(), &response))
	assert.NotNil(suite.T(), response.Record["checked_out_at"])

	checkoutAgain := suite.request("PATCH", "/api/attendance/checkout", nil, user.ID)
	assert.Equal(suite.T(), http.StatusNotFound, checkoutAgain.Code)
}

func TestAttendanceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceHandlerTestSuite))
}
