package services

import (
	"math"
	"sort"
	"time"

	"github.com/shashiranjanraj/genosys/app/repositories"
	"github.com/shashiranjanraj/genosys/pkg/logger"
	"github.com/shashiranjanraj/genosys/pkg/metrics"
)

// Dashboard list sizes. The dashboard renders fixed-height panels, so the
// limits live here rather than in the query string.
const (
	topPagesLimit     = 10
	topCountriesLimit = 10
	topCitiesLimit    = 8
	topBrowsersLimit  = 5
	topOSLimit        = 5
	recentActivityN   = 10

	defaultWindowDays = 30
)

// AnalyticsService computes dashboard aggregates from the raw event rows.
// Every query recomputes from scratch; there is no materialised state to
// drift out of sync with the store.
//
// Reads are best-effort: when storage fails the facade returns a fully
// zeroed result and logs the cause. A dashboard that shows zeros beats a
// dashboard that shows a stack trace.
type AnalyticsService struct {
	events *repositories.EventRepository
	users  *repositories.UserRepository
	orders *repositories.OrderRepository
}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{
		events: repositories.NewEventRepository(),
		users:  repositories.NewUserRepository(),
		orders: repositories.NewOrderRepository(),
	}
}

// DeviceCounts splits page views by device class.
type DeviceCounts struct {
	Mobile  int64 `json:"mobile"`
	Tablet  int64 `json:"tablet"`
	Desktop int64 `json:"desktop"`
}

// ActivityEntry is one row of the recent-activity feed.
type ActivityEntry struct {
	Action     string    `json:"action"`
	UserEmail  string    `json:"user_email,omitempty"`
	Details    string    `json:"details,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Overview is the full dashboard payload for one time window.
type Overview struct {
	Days int `json:"days"`

	TotalPageViews int64 `json:"total_page_views"`
	UniqueVisitors int64 `json:"unique_visitors"`

	TopPages     []repositories.BucketCount `json:"top_pages"`
	TopCountries []repositories.BucketCount `json:"top_countries"`
	TopCities    []repositories.BucketCount `json:"top_cities"`
	TopBrowsers  []repositories.BucketCount `json:"top_browsers"`
	TopOS        []repositories.BucketCount `json:"top_os"`
	Devices      DeviceCounts               `json:"devices"`

	BounceRate             float64 `json:"bounce_rate"`              // percent
	AvgSessionDuration     float64 `json:"avg_session_duration"`     // seconds
	AvgPageViewsPerSession float64 `json:"avg_page_views_per_session"`

	UserRegistrations int64   `json:"user_registrations"`
	OrdersPlaced      int64   `json:"orders_placed"`   // excludes cancelled
	ConversionRate    float64 `json:"conversion_rate"` // percent of unique visitors

	RecentActivity []ActivityEntry `json:"recent_activity"`
}

// TimelinePoint is one day of traffic. Only days with at least one page
// view produce a point; quiet days are absent, not zero.
type TimelinePoint struct {
	Date           string `json:"date"` // YYYY-MM-DD, UTC
	PageViews      int64  `json:"page_views"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

func normalizeDays(days int) int {
	if days < 1 {
		return defaultWindowDays
	}
	return days
}

func windowStart(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

// GetOverview computes the dashboard overview for the last days days.
func (s *AnalyticsService) GetOverview(days int) Overview {
	defer metrics.ObserveAnalyticsQuery("overview", time.Now())

	days = normalizeDays(days)
	since := windowStart(days)
	out := zeroOverview(days)

	fail := func(step string, err error) Overview {
		logger.Error("analytics: overview degraded to zeros", "step", step, "days", days, "error", err)
		return zeroOverview(days)
	}

	var err error
	if out.TotalPageViews, err = s.events.CountPageViews(since); err != nil {
		return fail("total page views", err)
	}
	if out.UniqueVisitors, err = s.events.CountUniqueVisitors(since); err != nil {
		return fail("unique visitors", err)
	}

	if out.TopPages, err = s.events.TopPageViewBuckets("page", since, topPagesLimit); err != nil {
		return fail("top pages", err)
	}
	if out.TopCountries, err = s.events.TopPageViewBuckets("country", since, topCountriesLimit); err != nil {
		return fail("top countries", err)
	}
	if out.TopCities, err = s.events.TopPageViewBuckets("city", since, topCitiesLimit); err != nil {
		return fail("top cities", err)
	}
	if out.TopBrowsers, err = s.events.TopPageViewBuckets("browser", since, topBrowsersLimit); err != nil {
		return fail("top browsers", err)
	}
	if out.TopOS, err = s.events.TopPageViewBuckets("os", since, topOSLimit); err != nil {
		return fail("top os", err)
	}

	devices, err := s.events.TopPageViewBuckets("device_type", since, 3)
	if err != nil {
		return fail("devices", err)
	}
	for _, d := range devices {
		switch d.Label {
		case "mobile":
			out.Devices.Mobile = d.Count
		case "tablet":
			out.Devices.Tablet = d.Count
		case "desktop":
			out.Devices.Desktop = d.Count
		}
	}

	sessions, bounces, avgDuration, avgPageViews, err := s.events.SessionStats(since)
	if err != nil {
		return fail("session stats", err)
	}
	if sessions > 0 {
		out.BounceRate = round2(float64(bounces) / float64(sessions) * 100)
	}
	out.AvgSessionDuration = round2(avgDuration)
	out.AvgPageViewsPerSession = round2(avgPageViews)

	if out.UserRegistrations, err = s.users.CountCreatedSince(since); err != nil {
		return fail("user registrations", err)
	}
	if out.OrdersPlaced, err = s.orders.CountPlacedSince(since); err != nil {
		return fail("orders placed", err)
	}
	if out.UniqueVisitors > 0 {
		out.ConversionRate = round2(float64(out.OrdersPlaced) / float64(out.UniqueVisitors) * 100)
	}

	actions, err := s.events.RecentActions(since, recentActivityN)
	if err != nil {
		return fail("recent activity", err)
	}
	for _, a := range actions {
		out.RecentActivity = append(out.RecentActivity, ActivityEntry{
			Action:     a.Action,
			UserEmail:  a.UserEmail,
			Details:    a.Details,
			OccurredAt: a.CreatedAt,
		})
	}

	return out
}

// GetTimeline returns one point per UTC day that saw traffic in the
// window, oldest first. Bucketing happens here rather than in SQL so the
// result is identical on every supported database driver.
func (s *AnalyticsService) GetTimeline(days int) []TimelinePoint {
	defer metrics.ObserveAnalyticsQuery("timeline", time.Now())

	days = normalizeDays(days)
	since := windowStart(days)

	visits, err := s.events.VisitsSince(since)
	if err != nil {
		logger.Error("analytics: timeline degraded to empty", "days", days, "error", err)
		return []TimelinePoint{}
	}

	views := make(map[string]int64)
	ipsByDay := make(map[string]map[string]struct{})
	for _, v := range visits {
		date := v.CreatedAt.UTC().Format("2006-01-02")
		views[date]++

		ips := ipsByDay[date]
		if ips == nil {
			ips = make(map[string]struct{})
			ipsByDay[date] = ips
		}
		ips[v.IPAddress] = struct{}{}
	}

	dates := make([]string, 0, len(views))
	for date := range views {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]TimelinePoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, TimelinePoint{
			Date:           date,
			PageViews:      views[date],
			UniqueVisitors: int64(len(ipsByDay[date])),
		})
	}
	return points
}

// GetCities returns the top visitor cities for the window.
func (s *AnalyticsService) GetCities(days int) []repositories.BucketCount {
	defer metrics.ObserveAnalyticsQuery("cities", time.Now())

	since := windowStart(normalizeDays(days))
	cities, err := s.events.TopPageViewBuckets("city", since, topCitiesLimit)
	if err != nil {
		logger.Error("analytics: cities degraded to empty", "days", days, "error", err)
		return []repositories.BucketCount{}
	}
	return cities
}

// zeroOverview is what callers see when storage is down: every count 0,
// every list present but empty.
func zeroOverview(days int) Overview {
	return Overview{
		Days:           days,
		TopPages:       []repositories.BucketCount{},
		TopCountries:   []repositories.BucketCount{},
		TopCities:      []repositories.BucketCount{},
		TopBrowsers:    []repositories.BucketCount{},
		TopOS:          []repositories.BucketCount{},
		RecentActivity: []ActivityEntry{},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
