package services

import (
	"math"
	"sort"
	"time"
)

const day = 24 * time.Hour

// Lookback windows used by the reports. A window of N days covers
// [now - N*24h, +inf).
const (
	activeWindow    = 30 * day
	weekWindow      = 7 * day
	regionEventSpan = 90 * day
)

// Fixed fetch windows. Circle metrics only look at a circle's most recent
// sessions and creator metrics only at the most recent artifacts.
const (
	CircleSessionWindow  = 10
	CreatorArtifactLimit = 50
	leaderboardSize      = 5
	topCreatorsSize      = 10
)

// Circle health and captain status labels.
const (
	HealthHealthy  = "healthy"
	HealthModerate = "moderate"
	HealthInactive = "inactive"

	CaptainActive   = "active"
	CaptainModerate = "moderate"
	CaptainLow      = "low"
	CaptainInactive = "inactive"

	ActivityHigh     = "high"
	ActivityModerate = "moderate"
	ActivityLow      = "low"
)

// DefaultSeasonName is reported when no season covers the current time.
const DefaultSeasonName = "Current Season"

// roundHalfUp rounds non-negative x to the nearest integer, .5 going up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// ratio returns round(num/den), 0 when den is 0.
func ratio(num, den int) int {
	if den <= 0 {
		return 0
	}
	return roundHalfUp(float64(num) / float64(den))
}

// percent returns round(num/den*100), 0 when den is 0.
func percent(num, den int) int {
	if den <= 0 {
		return 0
	}
	return roundHalfUp(float64(num) / float64(den) * 100)
}

// captainStatus classifies a captain by days since the circle last met.
func captainStatus(lastSession *time.Time, now time.Time) string {
	if lastSession == nil {
		return CaptainInactive
	}
	days := int(now.Sub(*lastSession) / day)
	switch {
	case days < 14:
		return CaptainActive
	case days < 30:
		return CaptainModerate
	default:
		return CaptainLow
	}
}

func circleHealth(recentSessions int) string {
	switch {
	case recentSessions >= 2:
		return HealthHealthy
	case recentSessions == 1:
		return HealthModerate
	default:
		return HealthInactive
	}
}

func regionActivity(recentSessions int) string {
	switch {
	case recentSessions >= 4:
		return ActivityHigh
	case recentSessions >= 2:
		return ActivityModerate
	default:
		return ActivityLow
	}
}

// tally counts keys while remembering the order each key was first seen.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// top returns up to n keys by descending count; equal counts keep first-seen order.
func (t *tally) top(n int) []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.counts[keys[i]] > t.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
