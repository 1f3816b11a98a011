package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"concierge/internal/app"
	"concierge/internal/domain"
)

// Cycles runs and reports fetch-all cycles.
type Cycles interface {
	FetchAll(ctx context.Context) domain.CycleReport
	Last() (domain.CycleReport, bool)
}

type Handlers struct {
	Q      *app.QueryService
	Cycles Cycles
	// RefreshPerMinute limits POST /v1/refresh per client IP.
	RefreshPerMinute int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.health)
	s.mux.Get("/v1/snapshot", h.snapshot)
	s.mux.Get("/v1/guest", h.guest)
	s.mux.Get("/v1/guest/hero", h.hero)
	s.mux.Get("/v1/categories", h.categories)
	s.mux.Get("/v1/dining", h.dining)
	s.mux.Get("/v1/settle-in", h.settleIn)
	s.mux.Get("/v1/weather", h.weather)
	s.mux.Get("/v1/sun", h.sun)
	s.mux.Get("/v1/tides", h.tides)
	s.mux.Get("/v1/moon", h.moon)
	s.mux.Get("/v1/wifi/qr", h.wifiQR)

	limit := h.RefreshPerMinute
	if limit <= 0 {
		limit = 6
	}
	s.mux.With(httprate.LimitByIP(limit, time.Minute)).Post("/v1/refresh", h.refresh)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeJSON serves v with a content ETag and answers If-None-Match with 304.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode failed")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// versioned wraps a slice value with the version it was read at.
type versioned struct {
	Version uint64 `json:"version"`
	Data    any    `json:"data"`
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	out := struct {
		Status    string              `json:"status"`
		LastCycle *domain.CycleReport `json:"lastCycle,omitempty"`
	}{Status: "ok"}
	if rep, ok := h.Cycles.Last(); ok {
		out.LastCycle = &rep
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("failed to write health body")
	}
}

func (h *Handlers) snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Q.Snapshot())
}

func (h *Handlers) guest(w http.ResponseWriter, r *http.Request) {
	g, v := h.Q.Guest()
	writeJSON(w, r, versioned{Version: v, Data: g})
}

func (h *Handlers) hero(w http.ResponseWriter, r *http.Request) {
	img, _, err := h.Q.HeroImage()
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hero image not loaded")
		return
	}
	sum := sha1.Sum(img.Bytes)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	ct := img.ContentType
	if ct == "" {
		ct = http.DetectContentType(img.Bytes)
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Bytes)
}

func (h *Handlers) categories(w http.ResponseWriter, r *http.Request) {
	c, v := h.Q.Categories()
	writeJSON(w, r, versioned{Version: v, Data: c})
}

func (h *Handlers) dining(w http.ResponseWriter, r *http.Request) {
	d, v, err := h.Q.Dining()
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "no dining section")
		return
	}
	writeJSON(w, r, versioned{Version: v, Data: d})
}

func (h *Handlers) settleIn(w http.ResponseWriter, r *http.Request) {
	c, v := h.Q.SettleIn()
	writeJSON(w, r, versioned{Version: v, Data: c})
}

func (h *Handlers) weather(w http.ResponseWriter, r *http.Request) {
	s, v := h.Q.Weather()
	writeJSON(w, r, versioned{Version: v, Data: s})
}

func (h *Handlers) sun(w http.ResponseWriter, r *http.Request) {
	s, v := h.Q.Sun()
	writeJSON(w, r, versioned{Version: v, Data: s})
}

func (h *Handlers) tides(w http.ResponseWriter, r *http.Request) {
	s, v := h.Q.Tides()
	writeJSON(w, r, versioned{Version: v, Data: s})
}

// moon accepts ?date= as RFC 3339 or a plain 2006-01-02 (midnight UTC).
func (h *Handlers) moon(w http.ResponseWriter, r *http.Request) {
	var at time.Time
	if ds := r.URL.Query().Get("date"); ds != "" {
		t, err := time.Parse(time.RFC3339, ds)
		if err != nil {
			t, err = time.Parse("2006-01-02", ds)
		}
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid date", "date must be RFC 3339 or YYYY-MM-DD")
			return
		}
		at = t
	}
	writeJSON(w, r, h.Q.Moon(at))
}

func (h *Handlers) wifiQR(w http.ResponseWriter, r *http.Request) {
	qr, v, err := h.Q.WiFiQR()
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "wifi credentials not loaded")
		return
	}
	writeJSON(w, r, versioned{Version: v, Data: qr})
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	rep := h.Cycles.FetchAll(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		log.Error().Err(err).Msg("failed to write refresh report")
	}
}
