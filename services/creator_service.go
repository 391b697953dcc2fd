package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"rise-platform/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// CreatorRepository persists artifacts, challenges and challenge submissions.
// Getters return nil, nil when the record does not exist.
type CreatorRepository interface {
	CreateArtifact(ctx context.Context, a *models.Artifact) error
	GetArtifact(ctx context.Context, id string) (*models.Artifact, error)
	ListArtifacts(ctx context.Context, filter ArtifactFilter) ([]models.Artifact, error)
	UpdateArtifact(ctx context.Context, a *models.Artifact) error
	DeleteArtifact(ctx context.Context, id string) error

	SeasonExists(ctx context.Context, id string) (bool, error)
	CreateChallenge(ctx context.Context, c *models.CreatorChallenge) error
	GetChallenge(ctx context.Context, id string) (*models.CreatorChallenge, error)
	ListChallenges(ctx context.Context) ([]models.CreatorChallenge, error)

	SubmissionExists(ctx context.Context, challengeID, creatorID, artifactID string) (bool, error)
	CreateSubmission(ctx context.Context, s *models.ChallengeSubmission) error
	GetSubmission(ctx context.Context, id string) (*models.ChallengeSubmission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]models.ChallengeSubmission, error)
}

// ObjectStore uploads a blob and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type ArtifactFilter struct {
	CreatorID string
	Type      models.ArtifactType
	Status    models.ArtifactStatus
}

type SubmissionFilter struct {
	ChallengeID string
	CreatorID   string
}

type ArtifactInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        models.ArtifactType   `json:"type"`
	Status      models.ArtifactStatus `json:"status"`
	URL         string                `json:"url"`
	MissionID   *string               `json:"missionId"`
}

// ArtifactPatch only touches the fields that are set.
type ArtifactPatch struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Type        *models.ArtifactType   `json:"type"`
	Status      *models.ArtifactStatus `json:"status"`
	URL         *string                `json:"url"`
	MissionID   *string                `json:"missionId"`
}

type ChallengeInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SeasonID    string    `json:"seasonId"`
	Deadline    time.Time `json:"deadline"`
}

type SubmissionInput struct {
	ChallengeID string `json:"challengeId"`
	ArtifactID  string `json:"artifactId"`
	Notes       string `json:"notes"`
}

type CreatorService struct {
	repo    CreatorRepository
	objects ObjectStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewCreatorService wires the service. objects may be nil, in which case file
// uploads fail with ErrStorageDisabled.
func NewCreatorService(repo CreatorRepository, objects ObjectStore, logger *zap.Logger) *CreatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreatorService{
		repo:    repo,
		objects: objects,
		logger:  logger.Named("creators"),
		now:     time.Now,
	}
}

func (s *CreatorService) WithClock(now func() time.Time) *CreatorService {
	s.now = now
	return s
}

func (s *CreatorService) CreateArtifact(ctx context.Context, requesterID string, in ArtifactInput) (*models.Artifact, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, badRequest("title is required")
	}
	if in.Type == "" {
		in.Type = models.ArtifactOther
	}
	if !in.Type.Valid() {
		return nil, badRequest(fmt.Sprintf("invalid artifact type %q", in.Type))
	}
	if in.Status == "" {
		in.Status = models.ArtifactDraft
	}
	if !in.Status.Valid() {
		return nil, badRequest(fmt.Sprintf("invalid artifact status %q", in.Status))
	}

	a := &models.Artifact{
		CreatorID:   requesterID,
		MissionID:   in.MissionID,
		Title:       title,
		Slug:        slug.Make(title),
		Description: in.Description,
		Type:        in.Type,
		Status:      in.Status,
		URL:         in.URL,
	}
	if err := s.repo.CreateArtifact(ctx, a); err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	s.logger.Info("artifact created", zap.String("artifact_id", a.ID), zap.String("creator_id", requesterID))
	return a, nil
}

func (s *CreatorService) GetArtifact(ctx context.Context, id string) (*models.Artifact, error) {
	a, err := s.repo.GetArtifact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	if a == nil {
		return nil, notFound("artifact not found")
	}
	return a, nil
}

func (s *CreatorService) ListArtifacts(ctx context.Context, filter ArtifactFilter) ([]models.Artifact, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, badRequest(fmt.Sprintf("invalid artifact type %q", filter.Type))
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, badRequest(fmt.Sprintf("invalid artifact status %q", filter.Status))
	}
	artifacts, err := s.repo.ListArtifacts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return artifacts, nil
}

// ownedArtifact loads an artifact and checks that requesterID created it.
func (s *CreatorService) ownedArtifact(ctx context.Context, requesterID, id string) (*models.Artifact, error) {
	a, err := s.GetArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.CreatorID != requesterID {
		return nil, forbidden("you do not own this artifact")
	}
	return a, nil
}

func (s *CreatorService) UpdateArtifact(ctx context.Context, requesterID, id string, patch ArtifactPatch) (*models.Artifact, error) {
	a, err := s.ownedArtifact(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, badRequest("title is required")
		}
		a.Title = title
		a.Slug = slug.Make(title)
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, badRequest(fmt.Sprintf("invalid artifact type %q", *patch.Type))
		}
		a.Type = *patch.Type
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, badRequest(fmt.Sprintf("invalid artifact status %q", *patch.Status))
		}
		a.Status = *patch.Status
	}
	if patch.URL != nil {
		a.URL = *patch.URL
	}
	if patch.MissionID != nil {
		if *patch.MissionID == "" {
			a.MissionID = nil
		} else {
			a.MissionID = patch.MissionID
		}
	}

	if err := s.repo.UpdateArtifact(ctx, a); err != nil {
		return nil, fmt.Errorf("update artifact: %w", err)
	}
	return a, nil
}

func (s *CreatorService) DeleteArtifact(ctx context.Context, requesterID, id string) error {
	if _, err := s.ownedArtifact(ctx, requesterID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteArtifact(ctx, id); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	s.logger.Info("artifact deleted", zap.String("artifact_id", id), zap.String("creator_id", requesterID))
	return nil
}

// AttachArtifactFile uploads body to object storage and records its URL on the artifact.
func (s *CreatorService) AttachArtifactFile(ctx context.Context, requesterID, id, filename, contentType string, body io.Reader) (*models.Artifact, error) {
	if s.objects == nil {
		return nil, ErrStorageDisabled
	}
	a, err := s.ownedArtifact(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	key := "artifacts/" + a.ID + "/" + uuid.NewString() + ext
	url, err := s.objects.Put(ctx, key, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload artifact file: %w", err)
	}

	a.FileURL = url
	if err := s.repo.UpdateArtifact(ctx, a); err != nil {
		return nil, fmt.Errorf("update artifact: %w", err)
	}
	return a, nil
}

func (s *CreatorService) CreateChallenge(ctx context.Context, requesterID string, in ChallengeInput) (*models.CreatorChallenge, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, badRequest("title is required")
	}
	if in.Deadline.IsZero() {
		return nil, badRequest("deadline is required")
	}
	if in.SeasonID == "" {
		return nil, badRequest("seasonId is required")
	}
	ok, err := s.repo.SeasonExists(ctx, in.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("check season: %w", err)
	}
	if !ok {
		return nil, notFound("season not found")
	}

	c := &models.CreatorChallenge{
		Title:       title,
		Description: in.Description,
		SeasonID:    in.SeasonID,
		Deadline:    in.Deadline.UTC(),
		CreatedBy:   requesterID,
	}
	if err := s.repo.CreateChallenge(ctx, c); err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}
	s.logger.Info("challenge created", zap.String("challenge_id", c.ID), zap.Time("deadline", c.Deadline))
	return c, nil
}

func (s *CreatorService) GetChallenge(ctx context.Context, id string) (*models.CreatorChallenge, error) {
	c, err := s.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	if c == nil {
		return nil, notFound("challenge not found")
	}
	return c, nil
}

func (s *CreatorService) ListChallenges(ctx context.Context) ([]models.CreatorChallenge, error) {
	challenges, err := s.repo.ListChallenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return challenges, nil
}

// Submit enters an artifact into a challenge. The duplicate check and the
// insert are separate statements, so two concurrent identical submissions can
// both succeed.
func (s *CreatorService) Submit(ctx context.Context, requesterID string, in SubmissionInput) (*models.ChallengeSubmission, error) {
	if in.ChallengeID == "" || in.ArtifactID == "" {
		return nil, badRequest("challengeId and artifactId are required")
	}

	challenge, err := s.GetChallenge(ctx, in.ChallengeID)
	if err != nil {
		return nil, err
	}
	if s.now().After(challenge.Deadline) {
		return nil, badRequest("challenge deadline has passed")
	}

	if _, err := s.ownedArtifact(ctx, requesterID, in.ArtifactID); err != nil {
		return nil, err
	}

	exists, err := s.repo.SubmissionExists(ctx, in.ChallengeID, requesterID, in.ArtifactID)
	if err != nil {
		return nil, fmt.Errorf("check submission: %w", err)
	}
	if exists {
		return nil, badRequest("artifact already submitted to this challenge")
	}

	sub := &models.ChallengeSubmission{
		ChallengeID: in.ChallengeID,
		CreatorID:   requesterID,
		ArtifactID:  in.ArtifactID,
		Notes:       in.Notes,
	}
	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	s.logger.Info("challenge submission created",
		zap.String("submission_id", sub.ID),
		zap.String("challenge_id", sub.ChallengeID),
		zap.String("artifact_id", sub.ArtifactID))
	return sub, nil
}

func (s *CreatorService) GetSubmission(ctx context.Context, id string) (*models.ChallengeSubmission, error) {
	sub, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return nil, notFound("submission not found")
	}
	return sub, nil
}

func (s *CreatorService) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]models.ChallengeSubmission, error) {
	subs, err := s.repo.ListSubmissions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// ChallengeSubmissions lists a challenge's submissions, 404 when the challenge is unknown.
func (s *CreatorService) ChallengeSubmissions(ctx context.Context, challengeID string) ([]models.ChallengeSubmission, error) {
	if _, err := s.GetChallenge(ctx, challengeID); err != nil {
		return nil, err
	}
	return s.ListSubmissions(ctx, SubmissionFilter{ChallengeID: challengeID})
}
