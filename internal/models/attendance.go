package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half-day"
)

// Attendance is one row per (user, UTC calendar day). The composite unique
// index is the only thing preventing a double check-in, so the row has no
// soft-delete column: a tombstone would keep occupying the day's slot.
type Attendance struct {
	ID         uint64           `gorm:"primarykey" json:"id"`
	UserID     uint64           `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	Date       time.Time        `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	CheckInAt  time.Time        `gorm:"not null" json:"checked_in_at"`
	CheckOutAt *time.Time       `json:"checked_out_at"`
	Status     AttendanceStatus `gorm:"type:varchar(20);not null;default:'present'" json:"status"`
	Notes      string           `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ValidAttendanceStatus reports whether s is one of the known statuses.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceHalfDay:
		return true
	}
	return false
}
