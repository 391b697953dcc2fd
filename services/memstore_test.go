package services

import (
	"context"
	"sort"
	"time"

	"rise-platform/models"
)

// memStore is an in-memory AnalyticsReader and CreatorRepository. Records are
// kept flat and associations are assembled per query, the way the gorm store
// preloads them.
type memStore struct {
	users       []models.User // Roles inline
	regions     []models.Region
	schools     []models.School
	outreach    []models.OutreachRecord
	circles     []models.Circle
	members     []models.CircleMember
	sessions    []models.CircleSession // Attendance inline
	seasons     []models.Season
	missions    []models.Mission
	assignments []models.MissionAssignment
	submissions []models.MissionSubmission
	events      []models.Event // Attendance and Script inline
	artifacts   []models.Artifact
	challenges  []models.CreatorChallenge
	entries     []models.ChallengeSubmission

	// written during setup only; reports read it from many goroutines
	fail map[string]error
}

func newMemStore() *memStore {
	return &memStore{fail: map[string]error{}}
}

func (m *memStore) check(op string) error {
	return m.fail[op]
}

func strPtr(s string) *string { return &s }

func hasRole(u *models.User, r models.Role) bool {
	for _, ur := range u.Roles {
		if ur.Role == r {
			return true
		}
	}
	return false
}

// --- fixture helpers ---

func (m *memStore) addUser(id, name string, roles ...models.Role) *memStore {
	u := models.User{ID: id, Name: name, Email: id + "@rise.test"}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.UserRole{ID: id + string(r), UserID: id, Role: r})
	}
	m.users = append(m.users, u)
	return m
}

func (m *memStore) addRegion(id, name string) *memStore {
	m.regions = append(m.regions, models.Region{ID: id, Name: name})
	return m
}

func (m *memStore) addCircle(id, name, regionID, captainID string) *memStore {
	c := models.Circle{ID: id, Name: name}
	if regionID != "" {
		c.RegionID = strPtr(regionID)
	}
	if captainID != "" {
		c.CaptainID = strPtr(captainID)
	}
	m.circles = append(m.circles, c)
	return m
}

func (m *memStore) addMember(circleID, userID string, role models.Role) *memStore {
	m.members = append(m.members, models.CircleMember{
		ID: circleID + "/" + userID, CircleID: circleID, UserID: userID, Role: role,
	})
	return m
}

func (m *memStore) addSession(id, circleID string, at time.Time, attendees ...string) *memStore {
	s := models.CircleSession{ID: id, CircleID: circleID, ScheduledAt: at}
	for _, u := range attendees {
		s.Attendance = append(s.Attendance, models.SessionAttendance{ID: id + "/" + u, SessionID: id, UserID: u})
	}
	m.sessions = append(m.sessions, s)
	return m
}

// --- lookups ---

func (m *memStore) user(id string) *models.User {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u
		}
	}
	return nil
}

func (m *memStore) region(id *string) *models.Region {
	if id == nil {
		return nil
	}
	for i := range m.regions {
		if m.regions[i].ID == *id {
			r := m.regions[i]
			return &r
		}
	}
	return nil
}

func (m *memStore) season(id string) *models.Season {
	for i := range m.seasons {
		if m.seasons[i].ID == id {
			s := m.seasons[i]
			return &s
		}
	}
	return nil
}

func (m *memStore) circleWithRegion(id string) *models.Circle {
	for i := range m.circles {
		if m.circles[i].ID == id {
			c := m.circles[i]
			c.Region = m.region(c.RegionID)
			return &c
		}
	}
	return nil
}

func (m *memStore) circleMembers(circleID string) []models.CircleMember {
	var out []models.CircleMember
	for _, mem := range m.members {
		if mem.CircleID == circleID {
			out = append(out, mem)
		}
	}
	return out
}

func (m *memStore) activeCircles(since time.Time) map[string]bool {
	active := map[string]bool{}
	for _, s := range m.sessions {
		if !s.ScheduledAt.Before(since) {
			active[s.CircleID] = true
		}
	}
	return active
}

// --- AnalyticsReader ---

func (m *memStore) CountUsers(ctx context.Context) (int64, error) {
	if err := m.check("CountUsers"); err != nil {
		return 0, err
	}
	return int64(len(m.users)), nil
}

func (m *memStore) CountUsersWithRole(ctx context.Context, role models.Role) (int64, error) {
	if err := m.check("CountUsersWithRole"); err != nil {
		return 0, err
	}
	var n int64
	for i := range m.users {
		if hasRole(&m.users[i], role) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountActiveYouth(ctx context.Context, since time.Time) (int64, error) {
	if err := m.check("CountActiveYouth"); err != nil {
		return 0, err
	}
	active := m.activeCircles(since)
	seen := map[string]bool{}
	for _, mem := range m.members {
		if !active[mem.CircleID] {
			continue
		}
		if u := m.user(mem.UserID); u != nil && hasRole(u, models.RoleYouth) {
			seen[mem.UserID] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *memStore) CountActiveCircles(ctx context.Context, since time.Time) (int64, error) {
	if err := m.check("CountActiveCircles"); err != nil {
		return 0, err
	}
	return int64(len(m.activeCircles(since))), nil
}

func (m *memStore) CountActiveRegions(ctx context.Context, since time.Time) (int64, error) {
	if err := m.check("CountActiveRegions"); err != nil {
		return 0, err
	}
	active := m.activeCircles(since)
	regions := map[string]bool{}
	for _, c := range m.circles {
		if active[c.ID] && c.RegionID != nil {
			regions[*c.RegionID] = true
		}
	}
	return int64(len(regions)), nil
}

func (m *memStore) CountApprovedSubmissions(ctx context.Context, since *time.Time) (int64, error) {
	if err := m.check("CountApprovedSubmissions"); err != nil {
		return 0, err
	}
	var n int64
	for _, s := range m.submissions {
		if s.Status != models.SubmissionApproved {
			continue
		}
		if since != nil && (s.SubmittedAt == nil || s.SubmittedAt.Before(*since)) {
			continue
		}
		n++
	}
	return n, nil
}

func (m *memStore) CountCircles(ctx context.Context) (int64, error) {
	if err := m.check("CountCircles"); err != nil {
		return 0, err
	}
	return int64(len(m.circles)), nil
}

func (m *memStore) CircleMemberCounts(ctx context.Context) ([]int64, error) {
	if err := m.check("CircleMemberCounts"); err != nil {
		return nil, err
	}
	var out []int64
	for _, c := range m.circles {
		if n := len(m.circleMembers(c.ID)); n > 0 {
			out = append(out, int64(n))
		}
	}
	return out, nil
}

func (m *memStore) CountMissions(ctx context.Context) (int64, error) {
	if err := m.check("CountMissions"); err != nil {
		return 0, err
	}
	return int64(len(m.missions)), nil
}

func (m *memStore) CountEvents(ctx context.Context, from *time.Time) (int64, error) {
	if err := m.check("CountEvents"); err != nil {
		return 0, err
	}
	var n int64
	for _, e := range m.events {
		if from == nil || !e.ScheduledAt.Before(*from) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountArtifacts(ctx context.Context, since *time.Time) (int64, error) {
	if err := m.check("CountArtifacts"); err != nil {
		return 0, err
	}
	var n int64
	for _, a := range m.artifacts {
		if since == nil || !a.CreatedAt.Before(*since) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountRegions(ctx context.Context) (int64, error) {
	if err := m.check("CountRegions"); err != nil {
		return 0, err
	}
	return int64(len(m.regions)), nil
}

func (m *memStore) CountSchools(ctx context.Context) (int64, error) {
	if err := m.check("CountSchools"); err != nil {
		return 0, err
	}
	return int64(len(m.schools)), nil
}

func (m *memStore) CurrentSeason(ctx context.Context, now time.Time) (*models.Season, error) {
	if err := m.check("CurrentSeason"); err != nil {
		return nil, err
	}
	var best *models.Season
	for i := range m.seasons {
		s := m.seasons[i]
		if now.Before(s.StartDate) || now.After(s.EndDate) {
			continue
		}
		if best == nil || s.StartDate.After(best.StartDate) {
			best = &s
		}
	}
	return best, nil
}

func (m *memStore) ListCircles(ctx context.Context, regionID string, sessionLimit int) ([]models.Circle, error) {
	if err := m.check("ListCircles"); err != nil {
		return nil, err
	}
	var out []models.Circle
	for _, c := range m.circles {
		if regionID != "" && (c.RegionID == nil || *c.RegionID != regionID) {
			continue
		}
		c.Region = m.region(c.RegionID)
		if c.CaptainID != nil {
			c.Captain = m.user(*c.CaptainID)
		}
		c.Members = m.circleMembers(c.ID)
		var sessions []models.CircleSession
		for _, s := range m.sessions {
			if s.CircleID == c.ID {
				sessions = append(sessions, s)
			}
		}
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].ScheduledAt.After(sessions[j].ScheduledAt)
		})
		if len(sessions) > sessionLimit {
			sessions = sessions[:sessionLimit]
		}
		c.Sessions = sessions
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) submissionWithCircle(s models.MissionSubmission) models.MissionSubmission {
	for _, a := range m.assignments {
		if a.ID == s.AssignmentID {
			a.Circle = m.circleWithRegion(a.CircleID)
			s.Assignment = &a
			break
		}
	}
	return s
}

func (m *memStore) ListMissions(ctx context.Context, regionID string) ([]models.Mission, error) {
	if err := m.check("ListMissions"); err != nil {
		return nil, err
	}
	var out []models.Mission
	for _, mi := range m.missions {
		if regionID != "" && mi.Type != models.MissionTypeRegional && (mi.RegionID == nil || *mi.RegionID != regionID) {
			continue
		}
		mi.Season = m.season(mi.SeasonID)
		mi.Assignments = nil
		for _, a := range m.assignments {
			if a.MissionID == mi.ID {
				mi.Assignments = append(mi.Assignments, a)
			}
		}
		mi.Submissions = nil
		for _, s := range m.submissions {
			if s.MissionID == mi.ID {
				mi.Submissions = append(mi.Submissions, m.submissionWithCircle(s))
			}
		}
		out = append(out, mi)
	}
	return out, nil
}

func (m *memStore) ListRegions(ctx context.Context, sessionsSince, eventsSince time.Time) ([]models.Region, error) {
	if err := m.check("ListRegions"); err != nil {
		return nil, err
	}
	var out []models.Region
	for _, r := range m.regions {
		for _, c := range m.circles {
			if c.RegionID == nil || *c.RegionID != r.ID {
				continue
			}
			c.Members = m.circleMembers(c.ID)
			for _, s := range m.sessions {
				if s.CircleID == c.ID && !s.ScheduledAt.Before(sessionsSince) {
					c.Sessions = append(c.Sessions, s)
				}
			}
			r.Circles = append(r.Circles, c)
		}
		for _, s := range m.schools {
			if s.RegionID == r.ID {
				r.Schools = append(r.Schools, s)
			}
		}
		for _, e := range m.events {
			if e.RegionID != nil && *e.RegionID == r.ID && !e.ScheduledAt.Before(eventsSince) {
				r.Events = append(r.Events, e)
			}
		}
		for _, o := range m.outreach {
			if o.RegionID == r.ID {
				r.Outreach = append(r.Outreach, o)
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) ListApprovedSubmissions(ctx context.Context) ([]models.MissionSubmission, error) {
	if err := m.check("ListApprovedSubmissions"); err != nil {
		return nil, err
	}
	var out []models.MissionSubmission
	for _, s := range m.submissions {
		if s.Status == models.SubmissionApproved {
			out = append(out, m.submissionWithCircle(s))
		}
	}
	return out, nil
}

func (m *memStore) ListRecentArtifacts(ctx context.Context, limit int) ([]models.Artifact, error) {
	if err := m.check("ListRecentArtifacts"); err != nil {
		return nil, err
	}
	out := make([]models.Artifact, len(m.artifacts))
	copy(out, m.artifacts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Creator = m.user(out[i].CreatorID)
	}
	return out, nil
}

func (m *memStore) ListChallenges(ctx context.Context) ([]models.CreatorChallenge, error) {
	if err := m.check("ListChallenges"); err != nil {
		return nil, err
	}
	var out []models.CreatorChallenge
	for _, c := range m.challenges {
		c.Season = m.season(c.SeasonID)
		c.Submissions = nil
		for _, e := range m.entries {
			if e.ChallengeID == c.ID {
				c.Submissions = append(c.Submissions, e)
			}
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})
	return out, nil
}

func (m *memStore) ListYouth(ctx context.Context) ([]models.User, error) {
	if err := m.check("ListYouth"); err != nil {
		return nil, err
	}
	var out []models.User
	for _, u := range m.users {
		if !hasRole(&u, models.RoleYouth) {
			continue
		}
		for _, mem := range m.members {
			if mem.UserID == u.ID {
				u.Memberships = append(u.Memberships, mem)
			}
		}
		for _, a := range m.assignments {
			if a.UserID == nil || *a.UserID != u.ID {
				continue
			}
			for _, s := range m.submissions {
				if s.AssignmentID == a.ID {
					a.Submissions = append(a.Submissions, s)
				}
			}
			u.Assignments = append(u.Assignments, a)
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	if err := m.check("ListEvents"); err != nil {
		return nil, err
	}
	out := make([]models.Event, len(m.events))
	copy(out, m.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	for i := range out {
		out[i].Region = m.region(out[i].RegionID)
	}
	return out, nil
}

// --- CreatorRepository ---

func (m *memStore) CreateArtifact(ctx context.Context, a *models.Artifact) error {
	if err := m.check("CreateArtifact"); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = "artifact-" + itoa(len(m.artifacts)+1)
	}
	m.artifacts = append(m.artifacts, *a)
	return nil
}

func (m *memStore) GetArtifact(ctx context.Context, id string) (*models.Artifact, error) {
	if err := m.check("GetArtifact"); err != nil {
		return nil, err
	}
	for i := range m.artifacts {
		if m.artifacts[i].ID == id {
			a := m.artifacts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListArtifacts(ctx context.Context, f ArtifactFilter) ([]models.Artifact, error) {
	if err := m.check("ListArtifacts"); err != nil {
		return nil, err
	}
	var out []models.Artifact
	for _, a := range m.artifacts {
		if (f.CreatorID == "" || a.CreatorID == f.CreatorID) &&
			(f.Type == "" || a.Type == f.Type) &&
			(f.Status == "" || a.Status == f.Status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) UpdateArtifact(ctx context.Context, a *models.Artifact) error {
	if err := m.check("UpdateArtifact"); err != nil {
		return err
	}
	for i := range m.artifacts {
		if m.artifacts[i].ID == a.ID {
			m.artifacts[i] = *a
		}
	}
	return nil
}

func (m *memStore) DeleteArtifact(ctx context.Context, id string) error {
	if err := m.check("DeleteArtifact"); err != nil {
		return err
	}
	kept := m.artifacts[:0]
	for _, a := range m.artifacts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	m.artifacts = kept
	return nil
}

func (m *memStore) SeasonExists(ctx context.Context, id string) (bool, error) {
	if err := m.check("SeasonExists"); err != nil {
		return false, err
	}
	return m.season(id) != nil, nil
}

func (m *memStore) CreateChallenge(ctx context.Context, c *models.CreatorChallenge) error {
	if err := m.check("CreateChallenge"); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = "challenge-" + itoa(len(m.challenges)+1)
	}
	m.challenges = append(m.challenges, *c)
	return nil
}

func (m *memStore) GetChallenge(ctx context.Context, id string) (*models.CreatorChallenge, error) {
	if err := m.check("GetChallenge"); err != nil {
		return nil, err
	}
	for _, c := range m.challenges {
		if c.ID == id {
			c.Season = m.season(c.SeasonID)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) SubmissionExists(ctx context.Context, challengeID, creatorID, artifactID string) (bool, error) {
	if err := m.check("SubmissionExists"); err != nil {
		return false, err
	}
	for _, e := range m.entries {
		if e.ChallengeID == challengeID && e.CreatorID == creatorID && e.ArtifactID == artifactID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateSubmission(ctx context.Context, s *models.ChallengeSubmission) error {
	if err := m.check("CreateSubmission"); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = "submission-" + itoa(len(m.entries)+1)
	}
	m.entries = append(m.entries, *s)
	return nil
}

func (m *memStore) GetSubmission(ctx context.Context, id string) (*models.ChallengeSubmission, error) {
	if err := m.check("GetSubmission"); err != nil {
		return nil, err
	}
	for _, e := range m.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListSubmissions(ctx context.Context, f SubmissionFilter) ([]models.ChallengeSubmission, error) {
	if err := m.check("ListSubmissions"); err != nil {
		return nil, err
	}
	var out []models.ChallengeSubmission
	for _, e := range m.entries {
		if (f.ChallengeID == "" || e.ChallengeID == f.ChallengeID) && (f.CreatorID == "" || e.CreatorID == f.CreatorID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func itoa(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{digits[n%10]}, b...)
		n /= 10
	}
	return string(b)
}

var (
	_ AnalyticsReader   = (*memStore)(nil)
	_ CreatorRepository = (*memStore)(nil)
)
