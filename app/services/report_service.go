package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/shashiranjanraj/genosys/app/repositories"
	"github.com/shashiranjanraj/genosys/config"
	"github.com/shashiranjanraj/genosys/pkg/logger"
	"github.com/shashiranjanraj/genosys/pkg/storage"
)

// ReportService exports daily analytics snapshots as CSV to the configured
// storage disk. Exports are best-effort like the rest of the analytics
// side: a failed export is logged and retried the next day.
type ReportService struct {
	analytics *AnalyticsService
}

func NewReportService(analytics *AnalyticsService) *ReportService {
	return &ReportService{analytics: analytics}
}

// ExportOverview writes yesterday-inclusive overview numbers for the last
// days days and returns the storage path of the file.
func (s *ReportService) ExportOverview(days int) (string, error) {
	overview := s.analytics.GetOverview(days)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"metric", "value"},
		{"window_days", strconv.Itoa(overview.Days)},
		{"total_page_views", strconv.FormatInt(overview.TotalPageViews, 10)},
		{"unique_visitors", strconv.FormatInt(overview.UniqueVisitors, 10)},
		{"bounce_rate_percent", formatFloat(overview.BounceRate)},
		{"avg_session_duration_seconds", formatFloat(overview.AvgSessionDuration)},
		{"avg_page_views_per_session", formatFloat(overview.AvgPageViewsPerSession)},
		{"user_registrations", strconv.FormatInt(overview.UserRegistrations, 10)},
		{"orders_placed", strconv.FormatInt(overview.OrdersPlaced, 10)},
		{"conversion_rate_percent", formatFloat(overview.ConversionRate)},
		{"device_mobile", strconv.FormatInt(overview.Devices.Mobile, 10)},
		{"device_tablet", strconv.FormatInt(overview.Devices.Tablet, 10)},
		{"device_desktop", strconv.FormatInt(overview.Devices.Desktop, 10)},
	}
	records = appendBuckets(records, "top_page", overview.TopPages)
	records = appendBuckets(records, "top_country", overview.TopCountries)
	records = appendBuckets(records, "top_city", overview.TopCities)
	records = appendBuckets(records, "top_browser", overview.TopBrowsers)
	records = appendBuckets(records, "top_os", overview.TopOS)

	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("report: encode csv: %w", err)
	}

	path := fmt.Sprintf("%s/overview-%s.csv",
		config.ReportDir(), time.Now().UTC().Format("2006-01-02"))
	if err := storage.Put(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("report: store %s: %w", path, err)
	}

	logger.Info("analytics report exported", "path", path, "days", days)
	return path, nil
}

// RunDaily is the scheduler entry point. Errors are logged, not returned;
// the scheduler has no use for them.
func (s *ReportService) RunDaily() {
	if _, err := s.ExportOverview(defaultWindowDays); err != nil {
		logger.Error("analytics report export failed", "error", err)
	}
}

func appendBuckets(records [][]string, prefix string, buckets []repositories.BucketCount) [][]string {
	for i, b := range buckets {
		records = append(records, []string{
			fmt.Sprintf("%s_%d", prefix, i+1),
			fmt.Sprintf("%s (%d)", b.Label, b.Count),
		})
	}
	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
