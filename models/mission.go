package models

import (
	"time"

	"gorm.io/gorm"
)

// MissionTypeRegional missions count toward every region filter.
const MissionTypeRegional = "REGIONAL"

// SubmissionStatus is the approval workflow state of a mission submission.
type SubmissionStatus string

const (
	SubmissionDraft    SubmissionStatus = "DRAFT"
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// Season is a named, time-bounded period.
type Season struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	StartDate time.Time `gorm:"index;not null" json:"startDate"`
	EndDate   time.Time `gorm:"index;not null" json:"endDate"`

	Timestamps
}

// Mission is a task circles are assigned during a season.
type Mission struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Type        string  `gorm:"type:varchar(32);not null;default:'STANDARD'" json:"type"`
	SeasonID    string  `gorm:"type:uuid;index;not null" json:"seasonId"`
	RegionID    *string `gorm:"type:uuid;index" json:"regionId,omitempty"`

	Season      *Season             `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	Assignments []MissionAssignment `gorm:"foreignKey:MissionID" json:"assignments,omitempty"`
	Submissions []MissionSubmission `gorm:"foreignKey:MissionID" json:"submissions,omitempty"`

	Timestamps
}

// MissionAssignment hands a mission to a circle, optionally to one youth in it.
type MissionAssignment struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	MissionID  string    `gorm:"type:uuid;index;not null" json:"missionId"`
	CircleID   string    `gorm:"type:uuid;index;not null" json:"circleId"`
	UserID     *string   `gorm:"type:uuid;index" json:"userId,omitempty"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assignedAt"`

	Circle      *Circle             `gorm:"foreignKey:CircleID" json:"circle,omitempty"`
	Submissions []MissionSubmission `gorm:"foreignKey:AssignmentID" json:"submissions,omitempty"`
}

// MissionSubmission is the work turned in for an assignment.
type MissionSubmission struct {
	ID           string           `gorm:"primaryKey;type:uuid" json:"id"`
	MissionID    string           `gorm:"type:uuid;index;not null" json:"missionId"`
	AssignmentID string           `gorm:"type:uuid;index;not null" json:"assignmentId"`
	Status       SubmissionStatus `gorm:"type:varchar(16);index;not null;default:'DRAFT'" json:"status"`
	SubmittedAt  *time.Time       `gorm:"index" json:"submittedAt,omitempty"`

	Assignment *MissionAssignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`

	Timestamps
}

func (s *Season) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (m *Mission) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

func (a *MissionAssignment) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func (s *MissionSubmission) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
