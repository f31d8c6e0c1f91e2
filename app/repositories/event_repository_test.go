package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/repositories"
)

func seedPageViews(t *testing.T, repo *repositories.EventRepository, page, ip string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		pv := models.PageView{Page: page, IPAddress: ip, DeviceType: "desktop"}
		if err := repo.CreatePageView(&pv); err != nil {
			t.Fatalf("create page view: %v", err)
		}
	}
}

func TestTopPageViewBuckets_OrderAndLimit(t *testing.T) {
	setupDB(t)
	repo := repositories.NewEventRepository()

	seedPageViews(t, repo, "/products", "1.1.1.1", 5)
	seedPageViews(t, repo, "/", "1.1.1.1", 3)
	seedPageViews(t, repo, "/checkout", "1.1.1.1", 1)

	since := time.Now().UTC().Add(-time.Hour)
	buckets, err := repo.TopPageViewBuckets("page", since, 2)
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2 (limit applied)", len(buckets))
	}
	if buckets[0].Label != "/products" || buckets[0].Count != 5 {
		t.Errorf("top bucket = %+v, want /products x5", buckets[0])
	}
	if buckets[1].Label != "/" || buckets[1].Count != 3 {
		t.Errorf("second bucket = %+v, want / x3", buckets[1])
	}
}

func TestTopPageViewBuckets_RejectsUnknownColumn(t *testing.T) {
	setupDB(t)
	repo := repositories.NewEventRepository()

	if _, err := repo.TopPageViewBuckets("ip_address; DROP TABLE page_views", time.Now(), 5); err == nil {
		t.Fatal("expected an error for a column outside the whitelist")
	}
}

func TestCountUniqueVisitors_DistinctByIP(t *testing.T) {
	setupDB(t)
	repo := repositories.NewEventRepository()

	for i := 0; i < 4; i++ {
		seedPageViews(t, repo, "/", fmt.Sprintf("10.0.0.%d", i), 3)
	}

	since := time.Now().UTC().Add(-time.Hour)
	total, err := repo.CountPageViews(since)
	if err != nil {
		t.Fatalf("count views: %v", err)
	}
	if total != 12 {
		t.Errorf("page views = %d, want 12", total)
	}

	unique, err := repo.CountUniqueVisitors(since)
	if err != nil {
		t.Fatalf("count visitors: %v", err)
	}
	if unique != 4 {
		t.Errorf("unique visitors = %d, want 4", unique)
	}
}

func TestSessionStats(t *testing.T) {
	setupDB(t)
	repo := repositories.NewEventRepository()

	sessions := []models.UserSession{
		{StartTime: time.Now().UTC(), Duration: 60, PageViews: 1, IsBounce: true},
		{StartTime: time.Now().UTC(), Duration: 120, PageViews: 4, IsBounce: false},
		{StartTime: time.Now().UTC(), Duration: 180, PageViews: 7, IsBounce: false},
	}
	for i := range sessions {
		if err := repo.CreateUserSession(&sessions[i]); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	total, bounces, avgDuration, avgPageViews, err := repo.SessionStats(time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if total != 3 || bounces != 1 {
		t.Errorf("total=%d bounces=%d, want 3/1", total, bounces)
	}
	if avgDuration != 120 {
		t.Errorf("avg duration = %v, want 120", avgDuration)
	}
	if avgPageViews != 4 {
		t.Errorf("avg page views = %v, want 4", avgPageViews)
	}
}

func TestSessionStats_EmptyWindow(t *testing.T) {
	setupDB(t)
	repo := repositories.NewEventRepository()

	total, bounces, avgDuration, avgPageViews, err := repo.SessionStats(time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if total != 0 || bounces != 0 || avgDuration != 0 || avgPageViews != 0 {
		t.Errorf("empty window must aggregate to zeros, got %d/%d/%v/%v",
			total, bounces, avgDuration, avgPageViews)
	}
}

func TestRecentActions_NewestFirstWithLimit(t *testing.T) {
	setupDB(t)
	repo := repositories.NewEventRepository()

	for i := 0; i < 5; i++ {
		ua := models.UserAction{Action: fmt.Sprintf("action_%d", i)}
		ua.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		if err := repo.CreateUserAction(&ua); err != nil {
			t.Fatalf("create action: %v", err)
		}
	}

	actions, err := repo.RecentActions(time.Now().UTC().Add(-time.Hour), 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(actions) != 3 {
		t.Fatalf("actions = %d, want 3", len(actions))
	}
	if actions[0].Action != "action_4" {
		t.Errorf("first action = %s, want the newest (action_4)", actions[0].Action)
	}
}
