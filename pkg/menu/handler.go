package menu

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mchmarny/menubar/pkg/menu/paint"
	"github.com/mchmarny/menubar/pkg/metric"
)

const (
	// RequestIDHeader carries the id assigned to every request.
	RequestIDHeader = "X-Request-Id"

	// maxEventBytes limits the size of an event body.
	maxEventBytes = 64 << 10

	// uuidLen is the length of the canonical uuid form. Client ids in any
	// other form are replaced.
	uuidLen = 36
)

// Handler serves a Menu to the rendering client:
//
//	GET  /        rendered tag tree; clears the dirty flag
//	POST /events  {"clickedId": n}; selects the item
//	GET  /dirty   {"dirty": bool}
//
// All access to the menu goes through Handler's lock, so renders always see a
// consistent tree. Commands run under the lock and may change the menu.
type Handler struct {
	mu   sync.Mutex
	menu *Menu

	registerer prometheus.Registerer
	renders    metric.IncrementalCounter
	events     metric.IncrementalCounter

	router chi.Router
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRegisterer registers the render and event counters with reg.
func WithRegisterer(reg prometheus.Registerer) HandlerOption {
	return func(h *Handler) { h.registerer = reg }
}

// NewHandler returns a Handler for m.
func NewHandler(m *Menu, opts ...HandlerOption) (*Handler, error) {
	h := &Handler{
		menu:    m,
		renders: metric.Nop{},
		events:  metric.Nop{},
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.registerer != nil {
		renders, err := metric.NewCounter(h.registerer, "renders_total", "Number of menu renders sent to clients.")
		if err != nil {
			return nil, err
		}
		events, err := metric.NewCounter(h.registerer, "events_total", "Number of client menu events by result.", "result")
		if err != nil {
			return nil, err
		}
		h.renders, h.events = renders, events
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Get("/", h.render)
	r.Post("/events", h.event)
	r.Get("/dirty", h.dirty)
	h.router = r

	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Do runs fn with exclusive access to the menu. Use it to change a served
// menu from outside request handling. The lock is released even if fn panics.
func (h *Handler) Do(fn func(m *Menu)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn(h.menu)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	var (
		tag   *paint.Tag
		err   error
		dirty bool
	)
	h.Do(func(m *Menu) {
		tag, err = m.Render()
		dirty = m.TakeDirty()
	})

	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to render menu", err)
		return
	}

	h.renders.Increment()
	slog.Debug("menu rendered", "request_id", requestIDFrom(r), "was_dirty", dirty)

	writeJSON(w, r, http.StatusOK, tag)
}

// EventResponse is the reply to a posted event.
type EventResponse struct {
	Result string `json:"result"`
	Dirty  bool   `json:"dirty"`
}

func (h *Handler) event(w http.ResponseWriter, r *http.Request) {
	var vars map[string]any

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	dec.UseNumber()
	if err := dec.Decode(&vars); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid event", err)
		return
	}

	var (
		result EventResult
		dirty  bool
	)
	start := time.Now()
	h.Do(func(m *Menu) {
		result = m.HandleEvent(vars)
		dirty = m.Dirty()
	})

	h.events.Increment(result.String())
	slog.Info("menu event handled",
		"request_id", requestIDFrom(r),
		"clicked_id", vars[ClickedIDKey],
		"result", result.String(),
		"duration", time.Since(start))

	writeJSON(w, r, http.StatusOK, EventResponse{Result: result.String(), Dirty: dirty})
}

func (h *Handler) dirty(w http.ResponseWriter, r *http.Request) {
	var dirty bool
	h.Do(func(m *Menu) { dirty = m.Dirty() })

	writeJSON(w, r, http.StatusOK, map[string]bool{"dirty": dirty})
}

// requestID assigns a request id, echoes it in the response and logs the
// request. A client supplied id is kept only when it is a canonical uuid.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil || len(id) != uuidLen {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)

		slog.Debug("handling menu request",
			"request_id", id,
			"method", r.Method,
			"url", r.URL.Path)

		next.ServeHTTP(w, r)
	})
}

func requestIDFrom(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	slog.Error("menu request failed",
		"request_id", requestIDFrom(r),
		"status", status,
		"message", message,
		"error", err)

	writeJSON(w, r, status, map[string]string{"error": fmt.Sprintf("%s: %v", message, err)})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "request_id", requestIDFrom(r), "error", err)
		http.Error(w, `{"error": "internal error, see logs for details"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write JSON response", "request_id", requestIDFrom(r), "error", err)
	}
}
