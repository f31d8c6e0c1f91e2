package controllers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/pkg/response"
	"github.com/shashiranjanraj/genosys/pkg/session"
)

// TrackController ingests tracking beacons. Every endpoint answers 202 no
// matter what: a malformed beacon is simply ignored, because the sender is
// a fire-and-forget script that never reads the response anyway.
type TrackController struct {
	service *services.TrackingService
}

func NewTrackController(service *services.TrackingService) *TrackController {
	return &TrackController{service: service}
}

// PageView handles POST /api/track/page-view.
func (c *TrackController) PageView(w http.ResponseWriter, r *http.Request) {
	var in services.PageViewInput
	if err := json.NewDecoder(r.Body).Decode(&in); err == nil {
		in.IPAddress = clientIP(r)
		in.UserAgent = r.UserAgent()
		if in.UserID == "" {
			// Anonymous visitors keep a stable id via the session cookie.
			sess := session.FromCtx(r)
			in.UserID = sess.ID()
			sess.Save(w) //nolint:errcheck
		}
		c.service.TrackPageView(r.Context(), in)
	}
	response.Accepted(w)
}

// Action handles POST /api/track/action.
func (c *TrackController) Action(w http.ResponseWriter, r *http.Request) {
	var in services.ActionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err == nil {
		c.service.TrackAction(r.Context(), in)
	}
	response.Accepted(w)
}

// Session handles POST /api/track/session.
func (c *TrackController) Session(w http.ResponseWriter, r *http.Request) {
	var in services.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err == nil {
		c.service.TrackSession(r.Context(), in)
	}
	response.Accepted(w)
}

// clientIP prefers the first X-Forwarded-For hop, then falls back to the
// socket address without its port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
