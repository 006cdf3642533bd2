package dto

import (
	"time"

	"github.com/attendly/attendance-api/internal/models"
)

// AttendanceDTO represents an attendance record in API responses
type AttendanceDTO struct {
	ID         uint64                  `json:"id"`
	UserID     uint64                  `json:"user_id"`
	Date       string                  `json:"date"`
	CheckInAt  time.Time               `json:"checked_in_at"`
	CheckOutAt *time.Time              `json:"checked_out_at"`
	Status     models.AttendanceStatus `json:"status"`
	Notes      string                  `json:"notes,omitempty"`
}

// ToAttendanceDTO converts an Attendance model to AttendanceDTO
func ToAttendanceDTO(record models.Attendance) AttendanceDTO {
	return AttendanceDTO{
		ID:         record.ID,
		UserID:     record.UserID,
		Date:       record.Date.Format("2006-01-02"),
		CheckInAt:  record.CheckInAt,
		CheckOutAt: record.CheckOutAt,
		Status:     record.Status,
		Notes:      record.Notes,
	}
}

// ToAttendanceDTOs converts a slice of records
func ToAttendanceDTOs(records []models.Attendance) []AttendanceDTO {
	items := make([]AttendanceDTO, len(records))
	for i, record := range records {
		items[i] = ToAttendanceDTO(record)
	}
	return items
}
