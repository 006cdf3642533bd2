package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/attendly/attendance-api/internal/constants"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/repository"
)

var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNoOpenRecord     = errors.New("no open attendance record for today")
	ErrInvalidStatus    = errors.New("invalid attendance status")
	ErrInvalidDateRange = errors.New("from date must not be after to date")
)

// AttendanceService handles the daily check-in/check-out cycle.
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendanceRepo repository.AttendanceRepository) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
	}
}

// CheckInInput is the optional payload accompanying a check-in.
type CheckInInput struct {
	Status models.AttendanceStatus
	Notes  string
}

// CheckIn creates today's record for the user. The insert is the race
// arbiter: two concurrent check-ins hit the (user_id, date) unique index and
// exactly one wins.
func (s *AttendanceService) CheckIn(userID uint64, input CheckInInput) (*models.Attendance, error) {
	status := input.Status
	if status == "" {
		status = models.AttendancePresent
	}
	if !models.ValidAttendanceStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := validateAll(boundLength("notes", input.Notes, constants.MaxNotesLength)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &models.Attendance{
		UserID:    userID,
		Date:      TodayUTC(),
		CheckInAt: now,
		Status:    status,
		Notes:     input.Notes,
	}

	if err := s.attendanceRepo.Create(record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// CheckOut closes today's open record. Calling it with no open record, or
// a second time, reports ErrNoOpenRecord and changes nothing.
func (s *AttendanceService) CheckOut(userID uint64) (*models.Attendance, error) {
	today := TodayUTC()
	now := time.Now().UTC()

	rows, err := s.attendanceRepo.CloseOpen(userID, today, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check out: %w", err)
	}
	if rows == 0 {
		return nil, ErrNoOpenRecord
	}

	record, err := s.attendanceRepo.FindByUserAndDate(userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to reload attendance record: %w", err)
	}

	return record, nil
}

// Today returns today's record for the user, or nil when there is none.
func (s *AttendanceService) Today(userID uint64) (*models.Attendance, error) {
	record, err := s.attendanceRepo.FindByUserAndDate(userID, TodayUTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance record: %w", err)
	}
	return record, nil
}

// HistoryInput represents filters for listing past attendance.
type HistoryInput struct {
	UserID   uint64
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// History lists a user's records, newest date first.
func (s *AttendanceService) History(input HistoryInput) ([]models.Attendance, int64, error) {
	if input.From != nil && input.To != nil && input.From.After(*input.To) {
		return nil, 0, ErrInvalidDateRange
	}

	records, total, err := s.attendanceRepo.ListByUser(repository.AttendanceFilter{
		UserID:   input.UserID,
		From:     input.From,
		To:       input.To,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return records, total, nil
}

// TodayUTC anchors day granularity to a single time zone so a user cannot
// get two records by crossing local midnight.
func TodayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
