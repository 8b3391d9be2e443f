package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rickgao/session-clock/internal/clockface"
	"github.com/rickgao/session-clock/internal/export"
	"github.com/rickgao/session-clock/internal/metrics"
	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/rates"
	"github.com/rickgao/session-clock/internal/store"
	"github.com/rickgao/session-clock/internal/version"
)

// SessionView is a session joined with its current status.
type SessionView struct {
	model.Session
	Hours  string              `json:"hours"`
	Status model.SessionStatus `json:"status"`
}

// RatesView is the /api/rates response.
type RatesView struct {
	rates.Table
	Available bool              `json:"available"`
	Quotes    []model.PairQuote `json:"quotes"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dashboard.Latest())
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	snap := s.dashboard.Latest()
	views := make([]SessionView, 0, len(snap.Sessions))
	for _, sess := range snap.Sessions {
		st, _ := snap.Status(sess.ID)
		views = append(views, SessionView{Session: sess, Hours: sess.HoursLabel(), Status: st})
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, ok := s.dashboard.Engine().Session(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("unknown session "+id))
		return
	}
	st, _ := s.dashboard.Latest().Status(id)
	s.writeJSON(w, http.StatusOK, SessionView{Session: sess, Hours: sess.HoursLabel(), Status: st})
}

func (s *Server) rateTable() rates.Table {
	if s.feeds == nil {
		return rates.Table{}
	}
	return s.feeds.Rates()
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	table := s.rateTable()
	s.writeJSON(w, http.StatusOK, RatesView{
		Table:     table,
		Available: !table.Empty(),
		Quotes:    table.Quotes(rates.PairsFor(s.dashboard.Engine().Sessions())),
	})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	if _, _, err := rates.ParsePair(pair); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.rateTable().Quote(pair))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	var news store.News
	if s.feeds != nil {
		news = s.feeds.News()
	}
	if news.Headlines == nil {
		news.Headlines = []model.Headline{}
	}
	s.writeJSON(w, http.StatusOK, news)
}

func (s *Server) handleClockSVG(w http.ResponseWriter, r *http.Request) {
	var local bool
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "utc":
	case "local":
		local = true
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("mode must be utc or local"))
		return
	}

	var buf bytes.Buffer
	if err := clockface.Render(&buf, clockface.FromSnapshot(s.dashboard.Latest(), local)); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	engine := s.dashboard.Engine()
	data, err := export.TimetableXLSX(engine.Sessions(), engine.Windows())
	s.writeExport(w, "xlsx", export.ContentTypeXLSX, data, err)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	engine := s.dashboard.Engine()
	data, err := export.TimetablePDF(engine.Sessions(), engine.Windows())
	s.writeExport(w, "pdf", export.ContentTypePDF, data, err)
}

func (s *Server) writeExport(w http.ResponseWriter, format, contentType string, data []byte, err error) {
	if err != nil {
		metrics.IncExport(format, metrics.ResultError)
		s.logger.Error("timetable export failed", "format", format, "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	metrics.IncExport(format, metrics.ResultSuccess)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="timetable.`+format+`"`)
	w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.dashboard.Latest()

	health := struct {
		Status     string         `json:"status"`
		Version    version.Info   `json:"version"`
		Uptime     string         `json:"uptime"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Version:    version.Get(),
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		Components: make(map[string]any),
	}

	health.Components["engine"] = map[string]any{
		"sessions": len(snap.Sessions),
		"active":   snap.Active,
		"volatile": snap.Volatile,
	}

	table := s.rateTable()
	if table.Empty() {
		// Missing feed data degrades, never fails.
		health.Status = "degraded"
		health.Components["rates"] = map[string]any{"status": "unavailable"}
	} else {
		health.Components["rates"] = map[string]any{
			"status":     "ok",
			"currencies": len(table.Rates),
			"fetched_at": table.FetchedAt,
		}
	}

	if s.feeds != nil {
		news := s.feeds.News()
		health.Components["news"] = map[string]any{
			"headlines":  len(news.Headlines),
			"fetched_at": news.FetchedAt,
		}
	}
	if s.stream != nil {
		health.Components["stream"] = map[string]any{"clients": s.stream.ClientCount()}
	}

	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}
