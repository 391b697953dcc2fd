package store

import (
	"context"
	"errors"
	"fmt"

	"rise-platform/models"
	"rise-platform/services"

	"gorm.io/gorm"
)

var (
	_ services.AnalyticsReader   = (*AnalyticsStore)(nil)
	_ services.CreatorRepository = (*CreatorStore)(nil)
)

// CreatorStore persists artifacts, challenges and challenge submissions.
type CreatorStore struct {
	DB *gorm.DB
}

func NewCreatorStore(db *gorm.DB) *CreatorStore {
	return &CreatorStore{DB: db}
}

// first loads one row by id into dst, reporting false when there is none.
func first(q *gorm.DB, dst any, id string) (bool, error) {
	err := q.First(dst, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *CreatorStore) CreateArtifact(ctx context.Context, a *models.Artifact) error {
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

func (s *CreatorStore) GetArtifact(ctx context.Context, id string) (*models.Artifact, error) {
	var a models.Artifact
	ok, err := first(s.DB.WithContext(ctx), &a, id)
	if err != nil {
		return nil, fmt.Errorf("select artifact: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *CreatorStore) ListArtifacts(ctx context.Context, filter services.ArtifactFilter) ([]models.Artifact, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if filter.CreatorID != "" {
		q = q.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	artifacts := []models.Artifact{}
	if err := q.Find(&artifacts).Error; err != nil {
		return nil, fmt.Errorf("select artifacts: %w", err)
	}
	return artifacts, nil
}

func (s *CreatorStore) UpdateArtifact(ctx context.Context, a *models.Artifact) error {
	if err := s.DB.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("update artifact: %w", err)
	}
	return nil
}

func (s *CreatorStore) DeleteArtifact(ctx context.Context, id string) error {
	if err := s.DB.WithContext(ctx).Delete(&models.Artifact{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}

func (s *CreatorStore) SeasonExists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Season{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count seasons: %w", err)
	}
	return n > 0, nil
}

func (s *CreatorStore) CreateChallenge(ctx context.Context, c *models.CreatorChallenge) error {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}
	return nil
}

func (s *CreatorStore) GetChallenge(ctx context.Context, id string) (*models.CreatorChallenge, error) {
	var c models.CreatorChallenge
	q := s.DB.WithContext(ctx).
		Preload("Season").
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
	ok, err := first(q, &c, id)
	if err != nil {
		return nil, fmt.Errorf("select challenge: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *CreatorStore) ListChallenges(ctx context.Context) ([]models.CreatorChallenge, error) {
	challenges := []models.CreatorChallenge{}
	err := s.DB.WithContext(ctx).
		Preload("Season").
		Preload("Submissions").
		Order("deadline ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, fmt.Errorf("select challenges: %w", err)
	}
	return challenges, nil
}

func (s *CreatorStore) SubmissionExists(ctx context.Context, challengeID, creatorID, artifactID string) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.ChallengeSubmission{}).
		Where("challenge_id = ? AND creator_id = ? AND artifact_id = ?", challengeID, creatorID, artifactID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count submissions: %w", err)
	}
	return n > 0, nil
}

func (s *CreatorStore) CreateSubmission(ctx context.Context, sub *models.ChallengeSubmission) error {
	if err := s.DB.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *CreatorStore) GetSubmission(ctx context.Context, id string) (*models.ChallengeSubmission, error) {
	var sub models.ChallengeSubmission
	ok, err := first(s.DB.WithContext(ctx).Preload("Artifact"), &sub, id)
	if err != nil {
		return nil, fmt.Errorf("select submission: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s *CreatorStore) ListSubmissions(ctx context.Context, filter services.SubmissionFilter) ([]models.ChallengeSubmission, error) {
	q := s.DB.WithContext(ctx).Preload("Artifact").Order("created_at ASC")
	if filter.ChallengeID != "" {
		q = q.Where("challenge_id = ?", filter.ChallengeID)
	}
	if filter.CreatorID != "" {
		q = q.Where("creator_id = ?", filter.CreatorID)
	}

	subs := []models.ChallengeSubmission{}
	if err := q.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	return subs, nil
}
