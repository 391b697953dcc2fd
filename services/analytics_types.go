package services

import "time"

// DashboardSummary is the four-number landing summary.
type DashboardSummary struct {
	ActiveYouth               int64 `json:"active_youth"`
	ActiveCircles             int64 `json:"active_circles"`
	MissionsCompletedThisWeek int64 `json:"missions_completed_this_week"`
	ActiveRegions             int64 `json:"active_regions"`
}

// Overview is the system-wide KPI snapshot.
type Overview struct {
	Users         OverviewUsers   `json:"users"`
	Circles       OverviewCircles `json:"circles"`
	Missions      OverviewMission `json:"missions"`
	Events        OverviewEvents  `json:"events"`
	Artifacts     Total           `json:"artifacts"`
	Regions       Total           `json:"regions"`
	Schools       Total           `json:"schools"`
	CurrentSeason SeasonRef       `json:"currentSeason"`
}

type OverviewUsers struct {
	Total       int64 `json:"total"`
	Youth       int64 `json:"youth"`
	Captains    int64 `json:"captains"`
	Ambassadors int64 `json:"ambassadors"`
	Directors   int64 `json:"directors"`
}

type OverviewCircles struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	AvgSize int   `json:"avgSize"`
}

type OverviewMission struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
}

type OverviewEvents struct {
	Total    int64 `json:"total"`
	Upcoming int64 `json:"upcoming"`
}

type Total struct {
	Total int64 `json:"total"`
}

// SeasonRef describes the current season. ID and dates are null when no
// season covers the current time.
type SeasonRef struct {
	ID        *string    `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// EntityRef is the id/name pair used to point at a related record.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CircleMetrics is one row of the circle health report.
type CircleMetrics struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	Region                 *EntityRef         `json:"region"`
	Captain                *EntityRef         `json:"captain"`
	MemberCount            int                `json:"memberCount"`
	Sessions               CircleSessionStats `json:"sessions"`
	AvgAttendance          int                `json:"avgAttendance"`
	LastSessionAt          *time.Time         `json:"lastSessionAt"`
	CaptainStatus          string             `json:"captainStatus"`
	YouthParticipationRate int                `json:"youthParticipationRate"`
	Health                 string             `json:"health"`
}

// CircleSessionStats only covers the circle's most recent sessions.
type CircleSessionStats struct {
	Total    int `json:"total"`
	Recent   int `json:"recent"`
	PerMonth int `json:"perMonth"`
}

// MissionReport is the mission table plus the two leaderboards.
type MissionReport struct {
	Missions   []MissionMetrics `json:"missions"`
	TopCircles []LeaderEntry    `json:"topCircles"`
	TopRegions []LeaderEntry    `json:"topRegions"`
}

type MissionMetrics struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Type           string  `json:"type"`
	Season         *string `json:"season"`
	Assignments    int     `json:"assignments"`
	Submissions    int     `json:"submissions"`
	Approved       int     `json:"approved"`
	CompletionRate int     `json:"completionRate"`
}

type LeaderEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Completions int    `json:"completions"`
}

type RegionMetrics struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Circles            int    `json:"circles"`
	Members            int    `json:"members"`
	Youth              int    `json:"youth"`
	RecentSessions     int    `json:"recentSessions"`
	Schools            int    `json:"schools"`
	MissionCompletions int    `json:"missionCompletions"`
	RecentEvents       int    `json:"recentEvents"`
	Outreach           int    `json:"outreach"`
	Activity           string `json:"activity"`
}

// CreatorReport describes the creator economy. Type counts and the creator
// ranking are computed over the most recent artifacts only.
type CreatorReport struct {
	TotalCreators   int64              `json:"totalCreators"`
	ArtifactsByType map[string]int     `json:"artifactsByType"`
	Challenges      []ChallengeMetrics `json:"challenges"`
	RecentArtifacts int64              `json:"recentArtifacts"`
	TopCreators     []CreatorRank      `json:"topCreators"`
}

type ChallengeMetrics struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Deadline    time.Time `json:"deadline"`
	Season      *string   `json:"season"`
	Submissions int       `json:"submissions"`
}

type CreatorRank struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Artifacts int    `json:"artifacts"`
}

type YouthReport struct {
	TotalYouth           int64          `json:"totalYouth"`
	InCircles            int            `json:"inCircles"`
	OnMissions           int            `json:"onMissions"`
	CompletedMissions    int            `json:"completedMissions"`
	RisePathDistribution map[string]int `json:"risePathDistribution"`
	EngagementRate       int            `json:"engagementRate"`
}

type EventMetrics struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	ScheduledAt    time.Time  `json:"scheduledAt"`
	Region         *EntityRef `json:"region"`
	Registered     int        `json:"registered"`
	Present        int        `json:"present"`
	AttendanceRate int        `json:"attendanceRate"`
	HasScript      bool       `json:"hasScript"`
}
