package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rise-platform/models"

	"gorm.io/gorm"
)

// AnalyticsStore answers the report queries with gorm. It never writes.
type AnalyticsStore struct {
	DB *gorm.DB
}

func NewAnalyticsStore(db *gorm.DB) *AnalyticsStore {
	return &AnalyticsStore{DB: db}
}

func (s *AnalyticsStore) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// activeCircleIDs is a subquery over circles with a session at or after since.
func (s *AnalyticsStore) activeCircleIDs(ctx context.Context, since time.Time) *gorm.DB {
	return s.db(ctx).Model(&models.CircleSession{}).
		Select("circle_id").
		Where("scheduled_at >= ?", since.UTC())
}

func (s *AnalyticsStore) usersWithRole(ctx context.Context, role models.Role) *gorm.DB {
	return s.db(ctx).Model(&models.UserRole{}).
		Select("user_id").
		Where("role = ?", role)
}

func count(q *gorm.DB, what string) (int64, error) {
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", what, err)
	}
	return n, nil
}

func (s *AnalyticsStore) CountUsers(ctx context.Context) (int64, error) {
	return count(s.db(ctx).Model(&models.User{}), "users")
}

func (s *AnalyticsStore) CountUsersWithRole(ctx context.Context, role models.Role) (int64, error) {
	q := s.db(ctx).Model(&models.UserRole{}).
		Where("role = ?", role).
		Distinct("user_id")
	return count(q, "users with role "+string(role))
}

func (s *AnalyticsStore) CountActiveYouth(ctx context.Context, since time.Time) (int64, error) {
	q := s.db(ctx).Model(&models.CircleMember{}).
		Where("circle_id IN (?)", s.activeCircleIDs(ctx, since)).
		Where("user_id IN (?)", s.usersWithRole(ctx, models.RoleYouth)).
		Distinct("user_id")
	return count(q, "active youth")
}

func (s *AnalyticsStore) CountActiveCircles(ctx context.Context, since time.Time) (int64, error) {
	q := s.db(ctx).Model(&models.CircleSession{}).
		Where("scheduled_at >= ?", since.UTC()).
		Distinct("circle_id")
	return count(q, "active circles")
}

func (s *AnalyticsStore) CountActiveRegions(ctx context.Context, since time.Time) (int64, error) {
	q := s.db(ctx).Model(&models.Circle{}).
		Where("id IN (?)", s.activeCircleIDs(ctx, since)).
		Where("region_id IS NOT NULL").
		Distinct("region_id")
	return count(q, "active regions")
}

func (s *AnalyticsStore) CountApprovedSubmissions(ctx context.Context, since *time.Time) (int64, error) {
	q := s.db(ctx).Model(&models.MissionSubmission{}).
		Where("status = ?", models.SubmissionApproved)
	if since != nil {
		q = q.Where("submitted_at >= ?", since.UTC())
	}
	return count(q, "approved submissions")
}

func (s *AnalyticsStore) CountCircles(ctx context.Context) (int64, error) {
	return count(s.db(ctx).Model(&models.Circle{}), "circles")
}

func (s *AnalyticsStore) CircleMemberCounts(ctx context.Context) ([]int64, error) {
	var rows []struct {
		CircleID string
		Members  int64
	}
	err := s.db(ctx).Model(&models.CircleMember{}).
		Select("circle_id, COUNT(*) AS members").
		Group("circle_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count circle members: %w", err)
	}
	counts := make([]int64, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, r.Members)
	}
	return counts, nil
}

func (s *AnalyticsStore) CountMissions(ctx context.Context) (int64, error) {
	return count(s.db(ctx).Model(&models.Mission{}), "missions")
}

func (s *AnalyticsStore) CountEvents(ctx context.Context, from *time.Time) (int64, error) {
	q := s.db(ctx).Model(&models.Event{})
	if from != nil {
		q = q.Where("scheduled_at >= ?", from.UTC())
	}
	return count(q, "events")
}

func (s *AnalyticsStore) CountArtifacts(ctx context.Context, since *time.Time) (int64, error) {
	q := s.db(ctx).Model(&models.Artifact{})
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}
	return count(q, "artifacts")
}

func (s *AnalyticsStore) CountRegions(ctx context.Context) (int64, error) {
	return count(s.db(ctx).Model(&models.Region{}), "regions")
}

func (s *AnalyticsStore) CountSchools(ctx context.Context) (int64, error) {
	return count(s.db(ctx).Model(&models.School{}), "schools")
}

func (s *AnalyticsStore) CurrentSeason(ctx context.Context, now time.Time) (*models.Season, error) {
	var season models.Season
	now = now.UTC()
	err := s.db(ctx).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("start_date DESC").
		First(&season).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current season: %w", err)
	}
	return &season, nil
}

// ListCircles loads every circle's session window in one query. A Preload
// limit would cap the sessions of all circles together, so the window is
// ranked per circle with ROW_NUMBER instead.
func (s *AnalyticsStore) ListCircles(ctx context.Context, regionID string, sessionLimit int) ([]models.Circle, error) {
	var circles []models.Circle
	q := s.db(ctx).
		Preload("Region").
		Preload("Captain").
		Preload("Members").
		Order("name ASC")
	if regionID != "" {
		q = q.Where("region_id = ?", regionID)
	}
	if err := q.Find(&circles).Error; err != nil {
		return nil, fmt.Errorf("list circles: %w", err)
	}
	if len(circles) == 0 {
		return circles, nil
	}

	ids := make([]string, len(circles))
	for i := range circles {
		ids[i] = circles[i].ID
	}
	ranked := s.db(ctx).Model(&models.CircleSession{}).
		Select("*, ROW_NUMBER() OVER (PARTITION BY circle_id ORDER BY scheduled_at DESC, id) AS session_rank").
		Where("circle_id IN ?", ids)

	var sessions []models.CircleSession
	err := s.db(ctx).
		Table("(?) AS ranked", ranked).
		Preload("Attendance").
		Where("session_rank <= ?", sessionLimit).
		Order("circle_id, session_rank").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list circle sessions: %w", err)
	}

	byCircle := make(map[string][]models.CircleSession, len(circles))
	for _, sess := range sessions {
		byCircle[sess.CircleID] = append(byCircle[sess.CircleID], sess)
	}
	for i := range circles {
		circles[i].Sessions = byCircle[circles[i].ID]
	}
	return circles, nil
}

func (s *AnalyticsStore) ListMissions(ctx context.Context, regionID string) ([]models.Mission, error) {
	var missions []models.Mission
	q := s.db(ctx).
		Preload("Season").
		Preload("Assignments").
		Preload("Submissions.Assignment.Circle.Region").
		Order("created_at ASC")
	if regionID != "" {
		q = q.Where("region_id = ? OR type = ?", regionID, models.MissionTypeRegional)
	}
	if err := q.Find(&missions).Error; err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	return missions, nil
}

func (s *AnalyticsStore) ListRegions(ctx context.Context, sessionsSince, eventsSince time.Time) ([]models.Region, error) {
	var regions []models.Region
	err := s.db(ctx).
		Preload("Circles.Members").
		Preload("Circles.Sessions", "scheduled_at >= ?", sessionsSince.UTC()).
		Preload("Schools").
		Preload("Events", "scheduled_at >= ?", eventsSince.UTC()).
		Preload("Outreach").
		Order("name ASC").
		Find(&regions).Error
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

func (s *AnalyticsStore) ListApprovedSubmissions(ctx context.Context) ([]models.MissionSubmission, error) {
	var subs []models.MissionSubmission
	err := s.db(ctx).
		Preload("Assignment.Circle").
		Where("status = ?", models.SubmissionApproved).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list approved submissions: %w", err)
	}
	return subs, nil
}

func (s *AnalyticsStore) ListRecentArtifacts(ctx context.Context, limit int) ([]models.Artifact, error) {
	var artifacts []models.Artifact
	err := s.db(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Limit(limit).
		Find(&artifacts).Error
	if err != nil {
		return nil, fmt.Errorf("list recent artifacts: %w", err)
	}
	return artifacts, nil
}

func (s *AnalyticsStore) ListChallenges(ctx context.Context) ([]models.CreatorChallenge, error) {
	var challenges []models.CreatorChallenge
	err := s.db(ctx).
		Preload("Season").
		Preload("Submissions").
		Order("deadline ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return challenges, nil
}

func (s *AnalyticsStore) ListYouth(ctx context.Context) ([]models.User, error) {
	var youth []models.User
	err := s.db(ctx).
		Preload("Memberships").
		Preload("Assignments.Submissions").
		Where("id IN (?)", s.usersWithRole(ctx, models.RoleYouth)).
		Order("name ASC").
		Find(&youth).Error
	if err != nil {
		return nil, fmt.Errorf("list youth: %w", err)
	}
	return youth, nil
}

func (s *AnalyticsStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db(ctx).
		Preload("Region").
		Preload("Attendance").
		Preload("Script").
		Order("scheduled_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
