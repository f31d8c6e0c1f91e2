package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/repositories"
	"github.com/shashiranjanraj/genosys/pkg/event"
	"github.com/shashiranjanraj/genosys/pkg/logger"
	"github.com/shashiranjanraj/genosys/pkg/metrics"
	"github.com/shashiranjanraj/genosys/pkg/workerpool"
)

// TrackingService ingests behavioural events. The whole pipeline is
// best-effort: nothing here returns an error, a full queue drops the event,
// and a storage failure is logged and forgotten. A broken tracker must
// never break a page load or a checkout.
type TrackingService struct {
	events *repositories.EventRepository
	pool   *workerpool.Pool
}

func NewTrackingService() *TrackingService {
	return &TrackingService{
		events: repositories.NewEventRepository(),
		pool:   workerpool.New(4, 1024),
	}
}

// Stop drains the ingestion queue. Called on server shutdown.
func (s *TrackingService) Stop() {
	s.pool.Stop()
}

// PageViewInput is the tracker beacon payload. IP and user agent are taken
// from the request by the controller, not from the body.
type PageViewInput struct {
	Page         string `json:"page"`
	UserID       string `json:"user_id"`
	UserEmail    string `json:"user_email"`
	Country      string `json:"country"`
	City         string `json:"city"`
	Referrer     string `json:"referrer"`
	DeviceType   string `json:"device_type"`
	Browser      string `json:"browser"`
	OS           string `json:"os"`
	ScreenWidth  int    `json:"screen_width"`
	ScreenHeight int    `json:"screen_height"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// ActionInput is one tracked business event.
type ActionInput struct {
	Action    string `json:"action"`
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
	Details   string `json:"details"`
}

// SessionInput is a session summary sent by the client when a session ends.
type SessionInput struct {
	StartTime time.Time `json:"start_time"`
	Duration  int       `json:"duration"` // seconds
	PageViews int       `json:"page_views"`
	UserEmail string    `json:"user_email"`
}

// TrackPageView records a page load asynchronously.
func (s *TrackingService) TrackPageView(ctx context.Context, in PageViewInput) {
	if in.Page == "" {
		return
	}

	// Trackers that classify client-side may send the fields directly;
	// the user agent fills whatever they left blank.
	device, browser, os := sniffUserAgent(in.UserAgent)
	if in.DeviceType != "" {
		device = in.DeviceType
	}
	if in.Browser != "" {
		browser = in.Browser
	}
	if in.OS != "" {
		os = in.OS
	}
	pv := models.PageView{
		Page:         in.Page,
		UserID:       in.UserID,
		UserEmail:    in.UserEmail,
		IPAddress:    in.IPAddress,
		Country:      in.Country,
		City:         in.City,
		Referrer:     in.Referrer,
		DeviceType:   device,
		Browser:      browser,
		OS:           os,
		ScreenWidth:  in.ScreenWidth,
		ScreenHeight: in.ScreenHeight,
	}

	s.enqueue("page_view", func() error { return s.events.CreatePageView(&pv) })
}

// TrackAction records a business event asynchronously.
func (s *TrackingService) TrackAction(ctx context.Context, in ActionInput) {
	if in.Action == "" {
		return
	}

	ua := models.UserAction{
		Action:    in.Action,
		UserID:    in.UserID,
		UserEmail: in.UserEmail,
		Details:   in.Details,
	}

	s.enqueue("user_action", func() error { return s.events.CreateUserAction(&ua) })
}

// TrackSession records a session summary asynchronously. A session with at
// most one page view counts as a bounce.
func (s *TrackingService) TrackSession(ctx context.Context, in SessionInput) {
	start := in.StartTime
	if start.IsZero() {
		start = time.Now().UTC().Add(-time.Duration(in.Duration) * time.Second)
	}

	us := models.UserSession{
		StartTime: start,
		Duration:  in.Duration,
		PageViews: in.PageViews,
		IsBounce:  in.PageViews <= 1,
		UserEmail: in.UserEmail,
	}

	s.enqueue("user_session", func() error { return s.events.CreateUserSession(&us) })
}

func (s *TrackingService) enqueue(eventType string, persist func() error) {
	ok := s.pool.TrySubmit(func() {
		if err := persist(); err != nil {
			metrics.TrackingEvents.WithLabelValues(eventType, "failed").Inc()
			logger.Warn("tracking: event not recorded", "type", eventType, "error", err)
			return
		}
		metrics.TrackingEvents.WithLabelValues(eventType, "recorded").Inc()
	})
	if !ok {
		metrics.TrackingEvents.WithLabelValues(eventType, "dropped").Inc()
	}
}

// ListenDomainEvents subscribes the tracker to order and account lifecycle
// events so registrations and placed orders show up in the activity feed
// without the order service knowing about tracking.
func (s *TrackingService) ListenDomainEvents() {
	event.Listen(event.UserRegistered, func(payload interface{}) {
		user, ok := payload.(models.User)
		if !ok {
			return
		}
		s.TrackAction(context.Background(), ActionInput{
			Action:    "user_registered",
			UserEmail: user.Email,
		})
	})

	event.Listen(event.OrderCreated, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		details, _ := json.Marshal(map[string]interface{}{
			"order_number": order.OrderNumber,
			"total":        order.Total,
		})
		s.TrackAction(context.Background(), ActionInput{
			Action:    "order_placed",
			UserEmail: order.CustomerEmail,
			Details:   string(details),
		})
	})
}

// sniffUserAgent derives (device, browser, os) from a raw User-Agent
// header. Token order matters: Edge and Opera UAs contain "Chrome", iPad
// UAs contain "like Mac OS X", Android UAs contain "Linux".
func sniffUserAgent(ua string) (device, browser, os string) {
	device, browser, os = "desktop", "Other", "Other"
	if ua == "" {
		return
	}

	switch {
	case strings.Contains(ua, "iPad") || strings.Contains(ua, "Tablet"):
		device = "tablet"
	case strings.Contains(ua, "Mobile") || strings.Contains(ua, "iPhone") || strings.Contains(ua, "Android"):
		device = "mobile"
	}

	switch {
	case strings.Contains(ua, "Edg/") || strings.Contains(ua, "Edge/"):
		browser = "Edge"
	case strings.Contains(ua, "OPR/") || strings.Contains(ua, "Opera"):
		browser = "Opera"
	case strings.Contains(ua, "Chrome/") || strings.Contains(ua, "CriOS/"):
		browser = "Chrome"
	case strings.Contains(ua, "Firefox/") || strings.Contains(ua, "FxiOS/"):
		browser = "Firefox"
	case strings.Contains(ua, "Safari/"):
		browser = "Safari"
	case strings.Contains(ua, "MSIE") || strings.Contains(ua, "Trident/"):
		browser = "IE"
	}

	switch {
	case strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad") || strings.Contains(ua, "iOS"):
		os = "iOS"
	case strings.Contains(ua, "Android"):
		os = "Android"
	case strings.Contains(ua, "Windows"):
		os = "Windows"
	case strings.Contains(ua, "Mac OS X") || strings.Contains(ua, "Macintosh"):
		os = "macOS"
	case strings.Contains(ua, "Linux"):
		os = "Linux"
	}

	return
}
