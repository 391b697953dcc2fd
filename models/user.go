package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a named permission class. A user may hold several at once.
type Role string

const (
	RoleYouth            Role = "YOUTH"
	RoleYouthCaptain     Role = "YOUTH_CAPTAIN"
	RoleAmbassador       Role = "AMBASSADOR"
	RoleRegionalDirector Role = "REGIONAL_DIRECTOR"
	RoleCreator          Role = "CREATOR"
	RoleAdmin            Role = "ADMIN"
	RoleCouncil          Role = "COUNCIL"
)

// AllRoles lists every role the platform knows about.
var AllRoles = []Role{
	RoleYouth,
	RoleYouthCaptain,
	RoleAmbassador,
	RoleRegionalDirector,
	RoleCreator,
	RoleAdmin,
	RoleCouncil,
}

// Valid reports whether r is one of AllRoles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// DefaultRisePath is reported for youth whose profile has no path set.
const DefaultRisePath = "IDENTITY"

// User is a platform identity.
type User struct {
	ID       string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name     string     `gorm:"not null" json:"name"`
	Email    string     `gorm:"uniqueIndex;not null" json:"email"`
	RisePath *string    `gorm:"type:varchar(32)" json:"risePath,omitempty"` // profile field, nil means not chosen yet
	Roles    []UserRole `gorm:"foreignKey:UserID" json:"roles,omitempty"`

	Memberships []CircleMember      `gorm:"foreignKey:UserID" json:"-"`
	Assignments []MissionAssignment `gorm:"foreignKey:UserID" json:"-"`

	Timestamps
}

// UserRole grants one Role to one User.
type UserRole struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`
	Role   Role   `gorm:"type:varchar(32);index;not null" json:"role"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (ur *UserRole) BeforeCreate(tx *gorm.DB) error {
	assignID(&ur.ID)
	return nil
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
