package services

import (
	"context"
	"time"

	"rise-platform/models"
)

// AnalyticsReader is the read-only data access the reports are computed from.
// Implementations must not mutate anything.
type AnalyticsReader interface {
	CountUsers(ctx context.Context) (int64, error)
	// CountUsersWithRole counts distinct users holding role.
	CountUsersWithRole(ctx context.Context, role models.Role) (int64, error)

	// CountActiveYouth counts distinct YOUTH-role users who belong to a circle
	// with at least one session scheduled at or after since.
	CountActiveYouth(ctx context.Context, since time.Time) (int64, error)
	// CountActiveCircles counts circles with a session at or after since.
	CountActiveCircles(ctx context.Context, since time.Time) (int64, error)
	// CountActiveRegions counts regions that contain an active circle.
	CountActiveRegions(ctx context.Context, since time.Time) (int64, error)
	// CountApprovedSubmissions counts APPROVED mission submissions, restricted
	// to those submitted at or after since when since is non-nil.
	CountApprovedSubmissions(ctx context.Context, since *time.Time) (int64, error)

	CountCircles(ctx context.Context) (int64, error)
	// CircleMemberCounts returns the member count of every circle that has at
	// least one member.
	CircleMemberCounts(ctx context.Context) ([]int64, error)
	CountMissions(ctx context.Context) (int64, error)
	// CountEvents counts events, only those scheduled at or after from when non-nil.
	CountEvents(ctx context.Context, from *time.Time) (int64, error)
	// CountArtifacts counts artifacts, only those created at or after since when non-nil.
	CountArtifacts(ctx context.Context, since *time.Time) (int64, error)
	CountRegions(ctx context.Context) (int64, error)
	CountSchools(ctx context.Context) (int64, error)
	// CurrentSeason returns the season whose interval contains now, latest
	// start date first. It returns nil, nil when no season matches.
	CurrentSeason(ctx context.Context, now time.Time) (*models.Season, error)

	// ListCircles returns circles with Region, Captain, Members and their
	// sessionLimit most recent Sessions (newest first, with Attendance).
	// An empty regionID means every circle.
	ListCircles(ctx context.Context, regionID string, sessionLimit int) ([]models.Circle, error)
	// ListMissions returns missions with Season, Assignments and Submissions;
	// each submission carries Assignment.Circle.Region. A non-empty regionID
	// keeps missions of that region plus every REGIONAL mission.
	ListMissions(ctx context.Context, regionID string) ([]models.Mission, error)
	// ListRegions returns regions with Circles.Members, Schools and Outreach,
	// Circles.Sessions restricted to sessionsSince and Events restricted to eventsSince.
	ListRegions(ctx context.Context, sessionsSince, eventsSince time.Time) ([]models.Region, error)
	// ListApprovedSubmissions returns APPROVED submissions with Assignment.Circle.
	ListApprovedSubmissions(ctx context.Context) ([]models.MissionSubmission, error)
	// ListRecentArtifacts returns the limit newest artifacts with their Creator.
	ListRecentArtifacts(ctx context.Context, limit int) ([]models.Artifact, error)
	// ListChallenges returns every challenge with Season and Submissions.
	ListChallenges(ctx context.Context) ([]models.CreatorChallenge, error)
	// ListYouth returns YOUTH-role users with Memberships and Assignments.Submissions.
	ListYouth(ctx context.Context) ([]models.User, error)
	// ListEvents returns events with Region, Attendance and Script, newest first.
	ListEvents(ctx context.Context) ([]models.Event, error)
}
