package models

import (
	"time"

	"gorm.io/gorm"
)

// Region groups circles, schools, events and outreach.
type Region struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Code string `gorm:"type:varchar(16);index" json:"code,omitempty"`

	Circles  []Circle         `gorm:"foreignKey:RegionID" json:"circles,omitempty"`
	Schools  []School         `gorm:"foreignKey:RegionID" json:"schools,omitempty"`
	Events   []Event          `gorm:"foreignKey:RegionID" json:"events,omitempty"`
	Outreach []OutreachRecord `gorm:"foreignKey:RegionID" json:"outreach,omitempty"`

	Timestamps
}

type School struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	RegionID string `gorm:"type:uuid;index;not null" json:"regionId"`

	Timestamps
}

// OutreachRecord logs one outreach activity carried out in a region.
type OutreachRecord struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	RegionID   string    `gorm:"type:uuid;index;not null" json:"regionId"`
	Summary    string    `gorm:"type:text" json:"summary"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (r *Region) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

func (s *School) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (o *OutreachRecord) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}
