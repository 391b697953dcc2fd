package services

import (
	"context"
	"fmt"
	"time"

	"rise-platform/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService computes the dashboard reports. Every call recomputes from
// the current store state; the parallel reads inside one report are not taken
// from a common snapshot.
type AnalyticsService struct {
	reader AnalyticsReader
	logger *zap.Logger
	now    func() time.Time
}

func NewAnalyticsService(reader AnalyticsReader, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		reader: reader,
		logger: logger.Named("analytics"),
		now:    time.Now,
	}
}

// WithClock replaces the time source, for tests and replays.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) fail(report string, err error) error {
	s.logger.Error("analytics report failed", zap.String("report", report), zap.Error(err))
	return fmt.Errorf("%s report: %w", report, err)
}

// goCount runs fn on g and stores its result in dst.
func goCount(g *errgroup.Group, ctx context.Context, dst *int64, fn func(context.Context) (int64, error)) {
	g.Go(func() error {
		n, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	})
}

// Dashboard returns active youth, active circles, missions approved this week
// and active regions.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	now := s.now()
	monthAgo := now.Add(-activeWindow)
	weekAgo := now.Add(-weekWindow)

	var out DashboardSummary
	g, gctx := errgroup.WithContext(ctx)
	goCount(g, gctx, &out.ActiveYouth, func(ctx context.Context) (int64, error) {
		return s.reader.CountActiveYouth(ctx, monthAgo)
	})
	goCount(g, gctx, &out.ActiveCircles, func(ctx context.Context) (int64, error) {
		return s.reader.CountActiveCircles(ctx, monthAgo)
	})
	goCount(g, gctx, &out.MissionsCompletedThisWeek, func(ctx context.Context) (int64, error) {
		return s.reader.CountApprovedSubmissions(ctx, &weekAgo)
	})
	goCount(g, gctx, &out.ActiveRegions, func(ctx context.Context) (int64, error) {
		return s.reader.CountActiveRegions(ctx, monthAgo)
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail("dashboard", err)
	}
	return &out, nil
}

// Overview returns the system-wide KPI snapshot.
func (s *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	now := s.now()
	monthAgo := now.Add(-activeWindow)

	var (
		out          Overview
		memberCounts []int64
		season       *models.Season
	)
	g, gctx := errgroup.WithContext(ctx)
	goCount(g, gctx, &out.Users.Total, s.reader.CountUsers)
	for role, dst := range map[models.Role]*int64{
		models.RoleYouth:            &out.Users.Youth,
		models.RoleYouthCaptain:     &out.Users.Captains,
		models.RoleAmbassador:       &out.Users.Ambassadors,
		models.RoleRegionalDirector: &out.Users.Directors,
	} {
		role := role
		goCount(g, gctx, dst, func(ctx context.Context) (int64, error) {
			return s.reader.CountUsersWithRole(ctx, role)
		})
	}
	goCount(g, gctx, &out.Circles.Total, s.reader.CountCircles)
	goCount(g, gctx, &out.Circles.Active, func(ctx context.Context) (int64, error) {
		return s.reader.CountActiveCircles(ctx, monthAgo)
	})
	g.Go(func() error {
		counts, err := s.reader.CircleMemberCounts(gctx)
		memberCounts = counts
		return err
	})
	goCount(g, gctx, &out.Missions.Total, s.reader.CountMissions)
	goCount(g, gctx, &out.Missions.Completed, func(ctx context.Context) (int64, error) {
		return s.reader.CountApprovedSubmissions(ctx, nil)
	})
	goCount(g, gctx, &out.Events.Total, func(ctx context.Context) (int64, error) {
		return s.reader.CountEvents(ctx, nil)
	})
	goCount(g, gctx, &out.Events.Upcoming, func(ctx context.Context) (int64, error) {
		return s.reader.CountEvents(ctx, &now)
	})
	goCount(g, gctx, &out.Artifacts.Total, func(ctx context.Context) (int64, error) {
		return s.reader.CountArtifacts(ctx, nil)
	})
	goCount(g, gctx, &out.Regions.Total, s.reader.CountRegions)
	goCount(g, gctx, &out.Schools.Total, s.reader.CountSchools)
	g.Go(func() error {
		cur, err := s.reader.CurrentSeason(gctx, now)
		season = cur
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail("overview", err)
	}

	var members, populated int
	for _, n := range memberCounts {
		if n > 0 {
			members += int(n)
			populated++
		}
	}
	out.Circles.AvgSize = ratio(members, populated)

	out.CurrentSeason = SeasonRef{Name: DefaultSeasonName}
	if season != nil {
		id, start, end := season.ID, season.StartDate, season.EndDate
		out.CurrentSeason = SeasonRef{ID: &id, Name: season.Name, StartDate: &start, EndDate: &end}
	}
	return &out, nil
}

// Circles returns per-circle health, optionally restricted to one region.
func (s *AnalyticsService) Circles(ctx context.Context, regionID string) ([]CircleMetrics, error) {
	now := s.now()
	monthAgo := now.Add(-activeWindow)

	circles, err := s.reader.ListCircles(ctx, regionID, CircleSessionWindow)
	if err != nil {
		return nil, s.fail("circles", err)
	}

	out := make([]CircleMetrics, 0, len(circles))
	for i := range circles {
		out = append(out, circleMetrics(&circles[i], now, monthAgo))
	}
	return out, nil
}

func circleMetrics(c *models.Circle, now, monthAgo time.Time) CircleMetrics {
	var (
		recent     int
		attendance int
		last       *time.Time
		attended   = make(map[string]struct{})
	)
	for i := range c.Sessions {
		sess := &c.Sessions[i]
		if !sess.ScheduledAt.Before(monthAgo) {
			recent++
		}
		if last == nil || sess.ScheduledAt.After(*last) {
			at := sess.ScheduledAt
			last = &at
		}
		attendance += len(sess.Attendance)
		for _, a := range sess.Attendance {
			attended[a.UserID] = struct{}{}
		}
	}

	youth := make(map[string]struct{})
	for _, m := range c.Members {
		if m.Role == models.RoleYouth {
			youth[m.UserID] = struct{}{}
		}
	}
	var participating int
	for id := range youth {
		if _, ok := attended[id]; ok {
			participating++
		}
	}

	cm := CircleMetrics{
		ID:          c.ID,
		Name:        c.Name,
		MemberCount: len(c.Members),
		Sessions: CircleSessionStats{
			Total:    len(c.Sessions),
			Recent:   recent,
			PerMonth: recent,
		},
		AvgAttendance:          ratio(attendance, len(c.Sessions)),
		LastSessionAt:          last,
		CaptainStatus:          captainStatus(last, now),
		YouthParticipationRate: percent(participating, len(youth)),
		Health:                 circleHealth(recent),
	}
	if c.Region != nil {
		cm.Region = &EntityRef{ID: c.Region.ID, Name: c.Region.Name}
	}
	if c.Captain != nil {
		cm.Captain = &EntityRef{ID: c.Captain.ID, Name: c.Captain.Name}
	}
	return cm
}

// Missions returns completion rates and the circle/region leaderboards.
func (s *AnalyticsService) Missions(ctx context.Context, regionID string) (*MissionReport, error) {
	missions, err := s.reader.ListMissions(ctx, regionID)
	if err != nil {
		return nil, s.fail("missions", err)
	}

	report := &MissionReport{Missions: make([]MissionMetrics, 0, len(missions))}
	circles, regions := newTally(), newTally()
	names := make(map[string]string)

	for i := range missions {
		m := &missions[i]
		var approved int
		for j := range m.Submissions {
			sub := &m.Submissions[j]
			if sub.Status != models.SubmissionApproved {
				continue
			}
			approved++

			if sub.Assignment == nil || sub.Assignment.Circle == nil {
				continue
			}
			circle := sub.Assignment.Circle
			circles.add(circle.ID)
			names["c:"+circle.ID] = circle.Name
			if circle.Region != nil {
				regions.add(circle.Region.ID)
				names["r:"+circle.Region.ID] = circle.Region.Name
			}
		}

		mm := MissionMetrics{
			ID:             m.ID,
			Title:          m.Title,
			Type:           m.Type,
			Assignments:    len(m.Assignments),
			Submissions:    len(m.Submissions),
			Approved:       approved,
			// capped so repeat approvals cannot push the rate past 100
			CompletionRate: percent(min(approved, len(m.Assignments)), len(m.Assignments)),
		}
		if m.Season != nil {
			name := m.Season.Name
			mm.Season = &name
		}
		report.Missions = append(report.Missions, mm)
	}

	report.TopCircles = leaders(circles, names, "c:", leaderboardSize)
	report.TopRegions = leaders(regions, names, "r:", leaderboardSize)
	return report, nil
}

func leaders(t *tally, names map[string]string, prefix string, n int) []LeaderEntry {
	top := t.top(n)
	out := make([]LeaderEntry, 0, len(top))
	for _, id := range top {
		out = append(out, LeaderEntry{ID: id, Name: names[prefix+id], Completions: t.counts[id]})
	}
	return out
}

// Regions returns per-region membership and activity.
func (s *AnalyticsService) Regions(ctx context.Context) ([]RegionMetrics, error) {
	now := s.now()

	var (
		regions  []models.Region
		approved []models.MissionSubmission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		regions, err = s.reader.ListRegions(gctx, now.Add(-activeWindow), now.Add(-regionEventSpan))
		return err
	})
	g.Go(func() error {
		var err error
		approved, err = s.reader.ListApprovedSubmissions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail("regions", err)
	}

	completions := make(map[string]int)
	for _, sub := range approved {
		if sub.Assignment == nil || sub.Assignment.Circle == nil || sub.Assignment.Circle.RegionID == nil {
			continue
		}
		completions[*sub.Assignment.Circle.RegionID]++
	}

	out := make([]RegionMetrics, 0, len(regions))
	for i := range regions {
		r := &regions[i]
		rm := RegionMetrics{
			ID:                 r.ID,
			Name:               r.Name,
			Circles:            len(r.Circles),
			Schools:            len(r.Schools),
			MissionCompletions: completions[r.ID],
			RecentEvents:       len(r.Events),
			Outreach:           len(r.Outreach),
		}
		for _, c := range r.Circles {
			rm.Members += len(c.Members)
			rm.RecentSessions += len(c.Sessions)
			for _, m := range c.Members {
				if m.Role == models.RoleYouth {
					rm.Youth++
				}
			}
		}
		rm.Activity = regionActivity(rm.RecentSessions)
		out = append(out, rm)
	}
	return out, nil
}

// Creators returns the creator economy report.
func (s *AnalyticsService) Creators(ctx context.Context) (*CreatorReport, error) {
	now := s.now()
	monthAgo := now.Add(-activeWindow)

	var (
		out        = &CreatorReport{}
		artifacts  []models.Artifact
		challenges []models.CreatorChallenge
	)
	g, gctx := errgroup.WithContext(ctx)
	goCount(g, gctx, &out.TotalCreators, func(ctx context.Context) (int64, error) {
		return s.reader.CountUsersWithRole(ctx, models.RoleCreator)
	})
	g.Go(func() error {
		var err error
		artifacts, err = s.reader.ListRecentArtifacts(gctx, CreatorArtifactLimit)
		return err
	})
	g.Go(func() error {
		var err error
		challenges, err = s.reader.ListChallenges(gctx)
		return err
	})
	goCount(g, gctx, &out.RecentArtifacts, func(ctx context.Context) (int64, error) {
		return s.reader.CountArtifacts(ctx, &monthAgo)
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail("creators", err)
	}

	out.ArtifactsByType = make(map[string]int)
	creators := newTally()
	names := make(map[string]string)
	for _, a := range artifacts {
		out.ArtifactsByType[string(a.Type)]++
		creators.add(a.CreatorID)
		if a.Creator != nil {
			names[a.CreatorID] = a.Creator.Name
		}
	}
	out.TopCreators = make([]CreatorRank, 0, topCreatorsSize)
	for _, id := range creators.top(topCreatorsSize) {
		out.TopCreators = append(out.TopCreators, CreatorRank{ID: id, Name: names[id], Artifacts: creators.counts[id]})
	}

	out.Challenges = make([]ChallengeMetrics, 0, len(challenges))
	for _, c := range challenges {
		cm := ChallengeMetrics{
			ID:          c.ID,
			Title:       c.Title,
			Deadline:    c.Deadline,
			Submissions: len(c.Submissions),
		}
		if c.Season != nil {
			name := c.Season.Name
			cm.Season = &name
		}
		out.Challenges = append(out.Challenges, cm)
	}
	return out, nil
}

// Youth returns youth engagement numbers.
func (s *AnalyticsService) Youth(ctx context.Context) (*YouthReport, error) {
	var (
		out   = &YouthReport{}
		youth []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	goCount(g, gctx, &out.TotalYouth, func(ctx context.Context) (int64, error) {
		return s.reader.CountUsersWithRole(ctx, models.RoleYouth)
	})
	g.Go(func() error {
		var err error
		youth, err = s.reader.ListYouth(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail("youth", err)
	}

	out.RisePathDistribution = make(map[string]int)
	for _, u := range youth {
		if len(u.Memberships) > 0 {
			out.InCircles++
		}
		if len(u.Assignments) > 0 {
			out.OnMissions++
		}
		if hasApprovedAssignment(u.Assignments) {
			out.CompletedMissions++
		}
		path := models.DefaultRisePath
		if u.RisePath != nil && *u.RisePath != "" {
			path = *u.RisePath
		}
		out.RisePathDistribution[path]++
	}
	out.EngagementRate = percent(out.InCircles, int(out.TotalYouth))
	return out, nil
}

func hasApprovedAssignment(assignments []models.MissionAssignment) bool {
	for _, a := range assignments {
		for _, sub := range a.Submissions {
			if sub.Status == models.SubmissionApproved {
				return true
			}
		}
	}
	return false
}

// Events returns per-event attendance.
func (s *AnalyticsService) Events(ctx context.Context) ([]EventMetrics, error) {
	events, err := s.reader.ListEvents(ctx)
	if err != nil {
		return nil, s.fail("events", err)
	}

	out := make([]EventMetrics, 0, len(events))
	for i := range events {
		e := &events[i]
		em := EventMetrics{
			ID:          e.ID,
			Title:       e.Title,
			ScheduledAt: e.ScheduledAt,
			Registered:  len(e.Attendance),
			HasScript:   e.Script != nil,
		}
		for _, a := range e.Attendance {
			if a.Status == models.AttendancePresent {
				em.Present++
			}
		}
		em.AttendanceRate = percent(em.Present, em.Registered)
		if e.Region != nil {
			em.Region = &EntityRef{ID: e.Region.ID, Name: e.Region.Name}
		}
		out = append(out, em)
	}
	return out, nil
}
