package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPageView(t *testing.T, pv models.PageView) {
	t.Helper()
	require.NoError(t, database.DB.Create(&pv).Error, "seed page view")
}

func seedOrder(t *testing.T, number string, status models.OrderStatus) {
	t.Helper()
	o := models.Order{
		OrderNumber:     number,
		CustomerEmail:   "buyer@example.com",
		CustomerName:    "Buyer",
		CustomerEmirate: "Dubai",
		Subtotal:        decimal.RequireFromString("100.00"),
		Shipping:        decimal.RequireFromString("45.00"),
		VAT:             decimal.RequireFromString("7.25"),
		Total:           decimal.RequireFromString("152.25"),
		Status:          status,
	}
	require.NoError(t, database.DB.Create(&o).Error, "seed order")
}

func TestGetOverview_ConversionRate(t *testing.T) {
	setupDB(t)

	// 100 visitors, 4 orders placed: 4% conversion.
	for i := 0; i < 100; i++ {
		seedPageView(t, models.PageView{
			Page:       "/",
			IPAddress:  fmt.Sprintf("10.0.%d.%d", i/250, i%250),
			DeviceType: "desktop",
		})
	}
	for i := 1; i <= 4; i++ {
		seedOrder(t, fmt.Sprintf("Genosys Order %d", i), models.StatusConfirmed)
	}
	seedOrder(t, "Genosys Order 5", models.StatusCancelled)

	overview := services.NewAnalyticsService().GetOverview(30)

	assert.EqualValues(t, 100, overview.TotalPageViews)
	assert.EqualValues(t, 100, overview.UniqueVisitors)
	assert.EqualValues(t, 4, overview.OrdersPlaced, "cancelled orders do not convert")
	assert.Equal(t, 4.0, overview.ConversionRate)
}

func TestGetOverview_EmptyStoreIsAllZeros(t *testing.T) {
	setupDB(t)

	overview := services.NewAnalyticsService().GetOverview(0)

	assert.Equal(t, 30, overview.Days, "non-positive window falls back to the default")
	assert.Zero(t, overview.BounceRate)
	assert.Zero(t, overview.ConversionRate)
	require.NotNil(t, overview.TopPages)
	require.NotNil(t, overview.RecentActivity)
	assert.Empty(t, overview.TopPages)
	assert.Empty(t, overview.RecentActivity)
}

func TestGetOverview_TopPagesLimitedToTen(t *testing.T) {
	setupDB(t)

	for p := 0; p < 12; p++ {
		for i := 0; i <= p; i++ {
			seedPageView(t, models.PageView{
				Page:       fmt.Sprintf("/page-%02d", p),
				IPAddress:  "1.1.1.1",
				DeviceType: "desktop",
			})
		}
	}

	overview := services.NewAnalyticsService().GetOverview(30)

	require.Len(t, overview.TopPages, 10)
	assert.Equal(t, "/page-11", overview.TopPages[0].Label)
	assert.EqualValues(t, 12, overview.TopPages[0].Count)
}

func TestGetOverview_BounceRateAndDevices(t *testing.T) {
	setupDB(t)

	sessions := []models.UserSession{
		{StartTime: time.Now().UTC(), Duration: 30, PageViews: 1, IsBounce: true},
		{StartTime: time.Now().UTC(), Duration: 90, PageViews: 3, IsBounce: false},
		{StartTime: time.Now().UTC(), Duration: 90, PageViews: 3, IsBounce: false},
		{StartTime: time.Now().UTC(), Duration: 90, PageViews: 3, IsBounce: false},
	}
	for i := range sessions {
		require.NoError(t, database.DB.Create(&sessions[i]).Error)
	}
	seedPageView(t, models.PageView{Page: "/", IPAddress: "1.1.1.1", DeviceType: "mobile"})
	seedPageView(t, models.PageView{Page: "/", IPAddress: "1.1.1.2", DeviceType: "mobile"})
	seedPageView(t, models.PageView{Page: "/", IPAddress: "1.1.1.3", DeviceType: "desktop"})

	overview := services.NewAnalyticsService().GetOverview(30)

	assert.Equal(t, 25.0, overview.BounceRate)
	assert.EqualValues(t, 2, overview.Devices.Mobile)
	assert.EqualValues(t, 1, overview.Devices.Desktop)
	assert.EqualValues(t, 0, overview.Devices.Tablet)
}

func TestGetOverview_StorageFailureDegradesToZeros(t *testing.T) {
	setupDB(t)

	seedOrder(t, "Genosys Order 1", models.StatusConfirmed)
	require.NoError(t, database.DB.Migrator().DropTable(&models.PageView{}))

	overview := services.NewAnalyticsService().GetOverview(7)

	assert.Equal(t, 7, overview.Days)
	// The whole payload zeroes out, including fields whose own queries
	// would have succeeded.
	assert.Zero(t, overview.OrdersPlaced)
	assert.Zero(t, overview.TotalPageViews)
	assert.Zero(t, overview.ConversionRate)
	require.NotNil(t, overview.TopPages, "degraded overview carries empty, non-nil lists")
	assert.Empty(t, overview.TopPages)
}

func TestGetTimeline_OnlyDaysWithTraffic(t *testing.T) {
	setupDB(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	early := models.PageView{Page: "/", IPAddress: "1.1.1.9", DeviceType: "desktop"}
	early.CreatedAt = yesterday
	require.NoError(t, database.DB.Create(&early).Error)

	seedPageView(t, models.PageView{Page: "/", IPAddress: "1.1.1.1", DeviceType: "desktop"})
	seedPageView(t, models.PageView{Page: "/shop", IPAddress: "1.1.1.1", DeviceType: "desktop"})
	seedPageView(t, models.PageView{Page: "/", IPAddress: "1.1.1.2", DeviceType: "desktop"})

	points := services.NewAnalyticsService().GetTimeline(7)

	// Two days saw traffic, so exactly two buckets; the other five days
	// in the window produce nothing.
	require.Len(t, points, 2)
	assert.Equal(t, yesterday.Format("2006-01-02"), points[0].Date)
	assert.EqualValues(t, 1, points[0].PageViews)
	assert.EqualValues(t, 1, points[0].UniqueVisitors)

	today := time.Now().UTC().Format("2006-01-02")
	require.Equal(t, today, points[1].Date)
	assert.EqualValues(t, 3, points[1].PageViews)
	assert.EqualValues(t, 2, points[1].UniqueVisitors)
}

func TestGetTimeline_QuietWindowIsEmpty(t *testing.T) {
	setupDB(t)

	points := services.NewAnalyticsService().GetTimeline(7)
	require.NotNil(t, points)
	assert.Empty(t, points, "no traffic means no buckets")
}

func TestGetTimeline_StorageFailureReturnsEmpty(t *testing.T) {
	setupDB(t)

	require.NoError(t, database.DB.Migrator().DropTable(&models.PageView{}))

	points := services.NewAnalyticsService().GetTimeline(7)
	require.NotNil(t, points)
	assert.Empty(t, points)
}

func TestGetCities_StorageFailureReturnsEmpty(t *testing.T) {
	setupDB(t)

	require.NoError(t, database.DB.Migrator().DropTable(&models.PageView{}))

	cities := services.NewAnalyticsService().GetCities(30)
	require.NotNil(t, cities)
	assert.Empty(t, cities)
}
