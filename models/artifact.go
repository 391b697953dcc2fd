package models

import (
	"time"

	"gorm.io/gorm"
)

type ArtifactType string

const (
	ArtifactAutomation ArtifactType = "AUTOMATION"
	ArtifactDesign     ArtifactType = "DESIGN"
	ArtifactWriting    ArtifactType = "WRITING"
	ArtifactVideo      ArtifactType = "VIDEO"
	ArtifactApp        ArtifactType = "APP"
	ArtifactOther      ArtifactType = "OTHER"
)

func (t ArtifactType) Valid() bool {
	switch t {
	case ArtifactAutomation, ArtifactDesign, ArtifactWriting, ArtifactVideo, ArtifactApp, ArtifactOther:
		return true
	}
	return false
}

type ArtifactStatus string

const (
	ArtifactDraft     ArtifactStatus = "DRAFT"
	ArtifactSubmitted ArtifactStatus = "SUBMITTED"
	ArtifactPublished ArtifactStatus = "PUBLISHED"
	ArtifactArchived  ArtifactStatus = "ARCHIVED"
)

func (s ArtifactStatus) Valid() bool {
	switch s {
	case ArtifactDraft, ArtifactSubmitted, ArtifactPublished, ArtifactArchived:
		return true
	}
	return false
}

// Artifact is a creative or technical output made by a creator.
type Artifact struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	CreatorID   string         `gorm:"type:uuid;index;not null" json:"creatorId"`
	MissionID   *string        `gorm:"type:uuid;index" json:"missionId,omitempty"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"index" json:"slug"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Type        ArtifactType   `gorm:"type:varchar(16);index;not null;default:'OTHER'" json:"type"`
	Status      ArtifactStatus `gorm:"type:varchar(16);not null;default:'DRAFT'" json:"status"`
	URL         string         `json:"url,omitempty"`
	FileURL     string         `json:"fileUrl,omitempty"`

	Creator *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CreatorChallenge is a time-boxed call for artifacts within a season.
type CreatorChallenge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	SeasonID    string    `gorm:"type:uuid;index;not null" json:"seasonId"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	CreatedBy   string    `gorm:"type:uuid" json:"createdBy"`

	Season      *Season               `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	Submissions []ChallengeSubmission `gorm:"foreignKey:ChallengeID" json:"submissions,omitempty"`

	Timestamps
}

// ChallengeSubmission enters one artifact into one challenge.
// (challenge, creator, artifact) is not unique at the schema level.
type ChallengeSubmission struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ChallengeID string    `gorm:"type:uuid;index;not null" json:"challengeId"`
	CreatorID   string    `gorm:"type:uuid;index;not null" json:"creatorId"`
	ArtifactID  string    `gorm:"type:uuid;index;not null" json:"artifactId"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Artifact *Artifact `gorm:"foreignKey:ArtifactID" json:"artifact,omitempty"`
}

func (a *Artifact) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

func (c *CreatorChallenge) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (s *ChallengeSubmission) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
