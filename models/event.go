package models

import (
	"time"

	"gorm.io/gorm"
)

// AttendanceStatus tracks an attendee from sign-up to check-in.
type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "REGISTERED"
	AttendancePresent    AttendanceStatus = "PRESENT"
)

// Event is a community gathering, optionally run with a ceremony script.
type Event struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	RegionID    *string   `gorm:"type:uuid;index" json:"regionId,omitempty"`
	ScheduledAt time.Time `gorm:"index;not null" json:"scheduledAt"`

	Region     *Region           `gorm:"foreignKey:RegionID" json:"region,omitempty"`
	Attendance []EventAttendance `gorm:"foreignKey:EventID" json:"attendance,omitempty"`
	Script     *CeremonyScript   `gorm:"foreignKey:EventID" json:"script,omitempty"`

	Timestamps
}

type EventAttendance struct {
	ID      string           `gorm:"primaryKey;type:uuid" json:"id"`
	EventID string           `gorm:"type:uuid;index;not null" json:"eventId"`
	UserID  string           `gorm:"type:uuid;index;not null" json:"userId"`
	Status  AttendanceStatus `gorm:"type:varchar(16);not null;default:'REGISTERED'" json:"status"`
}

// CeremonyScript is the run-of-show attached to an event.
type CeremonyScript struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	EventID string `gorm:"type:uuid;uniqueIndex;not null" json:"eventId"`
	Body    string `gorm:"type:text" json:"body"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

func (a *EventAttendance) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func (s *CeremonyScript) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
