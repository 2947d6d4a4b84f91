package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gincla/nightsky/pkg/buildinfo"
	"github.com/gincla/nightsky/pkg/errors"
	"github.com/gincla/nightsky/pkg/loader"
	"github.com/gincla/nightsky/pkg/observability"
	"github.com/gincla/nightsky/pkg/render/raster"
	"github.com/gincla/nightsky/pkg/render/svg"
	"github.com/gincla/nightsky/pkg/tooltip"
	"github.com/gincla/nightsky/pkg/viewer"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 16

type ctxKey int

const viewerKey ctxKey = 0

// ClickRequest is the body of POST /sessions/{id}/click.
type ClickRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClickResponse reports the selection after a click.
type ClickResponse struct {
	Selected string           `json:"selected,omitempty"`
	Previous string           `json:"previous,omitempty"`
	Tooltip  *tooltip.Tooltip `json:"tooltip,omitempty"`
}

// FilterRequest is the body of POST /sessions/{id}/filter. Values are the
// raw text of the two inputs.
type FilterRequest struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// FilterResponse carries the validated bounds and any warning raised.
type FilterResponse struct {
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Warning string `json:"warning,omitempty"`
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": len(s.Sessions()),
		"build":    buildinfo.Get(),
	})
}

// handleCreateSession handles POST /sessions?jsonFile=NAME.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	name, err := loader.JSONFileFromQuery(r.URL.RawQuery)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := s.Open(r.Context(), name)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handleListSessions handles GET /sessions.
func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.Sessions()})
}

// handleDeleteSession handles DELETE /sessions/{id}.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.CloseSession(chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGraph handles GET /sessions/{id}/graph.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewerFrom(r).Snapshot())
}

// handleFramePNG handles GET /sessions/{id}/frame.png.
func (s *Server) handleFramePNG(w http.ResponseWriter, r *http.Request) {
	surface := raster.New(s.opts.Width, s.opts.Height, raster.WithBackground(s.opts.Background))
	viewerFrom(r).Draw(surface)
	data, err := surface.PNG()
	if err != nil {
		writeErr(w, errors.Wrap(errors.ErrCodeInternal, err, "encode frame"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// handleFrameSVG handles GET /sessions/{id}/frame.svg.
func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	surface := svg.New(float64(s.opts.Width), float64(s.opts.Height), svg.WithBackground(s.opts.Background))
	viewerFrom(r).Draw(surface)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(surface.Bytes())
}

// handleClick handles POST /sessions/{id}/click.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	change, tip := viewerFrom(r).ClickTooltip(req.X, req.Y)

	var resp ClickResponse
	if change.Previous != nil {
		resp.Previous = change.Previous.ID
	}
	if change.Current != nil {
		resp.Selected = change.Current.ID
		resp.Tooltip = tip
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTooltip handles GET /sessions/{id}/tooltip. It answers 204 when
// nothing is selected.
func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	t, ok := viewerFrom(r).Tooltip()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	html, err := t.HTML()
	if err != nil {
		writeErr(w, errors.Wrap(errors.ErrCodeInternal, err, "render tooltip"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// handleFilter handles POST /sessions/{id}/filter.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v := viewerFrom(r)
	before := len(v.Warnings())
	b := v.RefreshFilter(req.Min, req.Max)

	resp := FilterResponse{Min: b.Min, Max: b.Max}
	if warns := v.Warnings(); len(warns) > before {
		resp.Warning = warns[len(warns)-1]
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Middleware
// =============================================================================

// withSession resolves {id} and stores its viewer in the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := s.Viewer(chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), viewerKey, v)))
	})
}

func viewerFrom(r *http.Request) *viewer.Viewer {
	return r.Context().Value(viewerKey).(*viewer.Viewer)
}

// logRequests logs each request at debug level and reports it to the HTTP
// hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		writeErr(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if err == error(errTooManySessions) {
		return http.StatusServiceUnavailable
	}
	code := errors.GetCode(err)
	if code == errors.ErrCodeInvalidGraph {
		return http.StatusUnprocessableEntity
	}
	switch code.Class() {
	case errors.ClassInvalid:
		return http.StatusBadRequest
	case errors.ClassNotFound:
		return http.StatusNotFound
	case errors.ClassNetwork:
		return http.StatusBadGateway
	case errors.ClassTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeErr writes err as {"error", "code"} with its mapped status.
func writeErr(w http.ResponseWriter, err error) {
	body := map[string]string{"error": errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, statusFor(err), body)
}
