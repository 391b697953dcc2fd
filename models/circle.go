package models

import (
	"time"

	"gorm.io/gorm"
)

// Circle is a recurring small group of youth led by a captain.
type Circle struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string  `gorm:"not null" json:"name"`
	RegionID  *string `gorm:"type:uuid;index" json:"regionId,omitempty"`
	CaptainID *string `gorm:"type:uuid;index" json:"captainId,omitempty"`

	Region   *Region         `gorm:"foreignKey:RegionID" json:"region,omitempty"`
	Captain  *User           `gorm:"foreignKey:CaptainID" json:"captain,omitempty"`
	Members  []CircleMember  `gorm:"foreignKey:CircleID" json:"members,omitempty"`
	Sessions []CircleSession `gorm:"foreignKey:CircleID" json:"sessions,omitempty"`

	Timestamps
}

// CircleMember links a user to a circle with the role they joined as.
type CircleMember struct {
	ID       string    `gorm:"primaryKey;type:uuid" json:"id"`
	CircleID string    `gorm:"type:uuid;index;not null" json:"circleId"`
	UserID   string    `gorm:"type:uuid;index;not null" json:"userId"`
	Role     Role      `gorm:"type:varchar(32);not null;default:'YOUTH'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joinedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// CircleSession is one scheduled meeting of a circle.
type CircleSession struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	CircleID    string    `gorm:"type:uuid;index;not null" json:"circleId"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `gorm:"index;not null" json:"scheduledAt"`

	Attendance []SessionAttendance `gorm:"foreignKey:SessionID" json:"attendance,omitempty"`

	Timestamps
}

// SessionAttendance records that a member showed up to a session.
type SessionAttendance struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	SessionID string `gorm:"type:uuid;index;not null" json:"sessionId"`
	UserID    string `gorm:"type:uuid;index;not null" json:"userId"`
}

func (c *Circle) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (m *CircleMember) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

func (s *CircleSession) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (a *SessionAttendance) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
