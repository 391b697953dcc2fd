package store

import (
	"context"
	"fmt"
	"time"

	"rise-platform/models"

	"gorm.io/gorm"
)

// Models lists every table, parents before children.
func Models() []any {
	return []any{
		&models.User{},
		&models.UserRole{},
		&models.Region{},
		&models.School{},
		&models.OutreachRecord{},
		&models.Circle{},
		&models.CircleMember{},
		&models.CircleSession{},
		&models.SessionAttendance{},
		&models.Season{},
		&models.Mission{},
		&models.MissionAssignment{},
		&models.MissionSubmission{},
		&models.Event{},
		&models.EventAttendance{},
		&models.CeremonyScript{},
		&models.Artifact{},
		&models.CreatorChallenge{},
		&models.ChallengeSubmission{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// PoolOptions tunes the database/sql pool under gorm.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func ConfigurePool(db *gorm.DB, opts PoolOptions) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	return nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
