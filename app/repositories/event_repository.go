package repositories

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"github.com/shashiranjanraj/genosys/pkg/orm"
)

// EventRepository is the append-only store for behavioural events. Writes
// only ever insert; the aggregation queries below are plain reads that
// recompute from raw rows on every call.
type EventRepository struct{}

func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

func (r *EventRepository) CreatePageView(pv *models.PageView) error {
	return orm.DB().Create(pv)
}

func (r *EventRepository) CreateUserAction(ua *models.UserAction) error {
	return orm.DB().Create(ua)
}

func (r *EventRepository) CreateUserSession(us *models.UserSession) error {
	return orm.DB().Create(us)
}

// ── Aggregation reads ────────────────────────────────────────────────────────

// BucketCount is one row of a frequency table.
type BucketCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// pageViewColumns is the closed set of columns TopPageViewBuckets may group
// by. The column name is interpolated into SQL, so it must come from here.
var pageViewColumns = map[string]bool{
	"page":        true,
	"country":     true,
	"city":        true,
	"browser":     true,
	"os":          true,
	"device_type": true,
}

// TopPageViewBuckets groups page views in the window by column and returns
// the top n buckets, descending by count. Ties break on the label
// ascending so ordering is stable across calls.
func (r *EventRepository) TopPageViewBuckets(column string, since time.Time, n int) ([]BucketCount, error) {
	if !pageViewColumns[column] {
		return nil, fmt.Errorf("event repository: cannot group page views by %q", column)
	}

	var rows []BucketCount
	err := database.DB.Model(&models.PageView{}).
		Select(column+" AS label, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group(column).
		Order("count DESC, " + column + " ASC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("event repository: group by %s: %w", column, err)
	}
	return rows, nil
}

// CountPageViews counts page views in the window.
func (r *EventRepository) CountPageViews(since time.Time) (int64, error) {
	return orm.DB().Model(&models.PageView{}).Where("created_at >= ?", since).Count()
}

// CountUniqueVisitors counts distinct IP addresses in the window. The IP
// is the only visitor key recorded; cookie-based dedup is not trusted.
func (r *EventRepository) CountUniqueVisitors(since time.Time) (int64, error) {
	var n int64
	err := database.DB.Model(&models.PageView{}).
		Where("created_at >= ?", since).
		Distinct("ip_address").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("event repository: count unique visitors: %w", err)
	}
	return n, nil
}

// SessionStats aggregates the session rows in the window. Averages come
// back 0 (not NULL/NaN) when the window holds no sessions.
func (r *EventRepository) SessionStats(since time.Time) (total, bounces int64, avgDuration, avgPageViews float64, err error) {
	var row struct {
		Total        int64
		Bounces      int64
		AvgDuration  float64
		AvgPageViews float64
	}
	// is_bounce is compared against a bound parameter because a bare
	// boolean column in a CASE predicate is not accepted by sqlserver.
	err = database.DB.Model(&models.UserSession{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN is_bounce = ? THEN 1 ELSE 0 END), 0) AS bounces, "+
				"COALESCE(AVG(duration), 0) AS avg_duration, "+
				"COALESCE(AVG(page_views), 0) AS avg_page_views", true).
		Where("created_at >= ?", since).
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("event repository: session stats: %w", err)
	}
	return row.Total, row.Bounces, row.AvgDuration, row.AvgPageViews, nil
}

// RecentActions returns the newest user actions in the window.
func (r *EventRepository) RecentActions(since time.Time, n int) ([]models.UserAction, error) {
	var actions []models.UserAction
	err := orm.DB().Model(&models.UserAction{}).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(n).
		Get(&actions)
	return actions, err
}

// VisitRecord is the minimal page-view projection the timeline fold needs.
type VisitRecord struct {
	CreatedAt time.Time
	IPAddress string
}

// VisitsSince streams out (timestamp, ip) pairs for the window. The daily
// bucketing happens in the analytics service, in UTC, because a SQL DATE()
// expression is not portable across the four supported drivers.
func (r *EventRepository) VisitsSince(since time.Time) ([]VisitRecord, error) {
	var visits []VisitRecord
	err := database.DB.Model(&models.PageView{}).
		Select("created_at, ip_address").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Scan(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("event repository: visits: %w", err)
	}
	return visits, nil
}
