package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vmunix/fijkbridge/internal/dispatch"
	"github.com/vmunix/fijkbridge/internal/eventcode"
	"github.com/vmunix/fijkbridge/internal/events"
	"github.com/vmunix/fijkbridge/internal/handlers"
	"github.com/vmunix/fijkbridge/internal/player"
	"github.com/vmunix/fijkbridge/internal/sink"
)

// Server serves the code table, the producer and host WebSocket channels
// and player commands.
type Server struct {
	manager     *player.Manager
	broadcaster *sink.Broadcaster
	bus         *events.Bus
	logger      *slog.Logger
	upgrader    websocket.Upgrader
	diagnostics *handlers.DiagnosticsHandler
}

// New creates a server.
func New(manager *player.Manager, broadcaster *sink.Broadcaster, bus *events.Bus, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		manager:     manager,
		broadcaster: broadcaster,
		bus:         bus,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// SetDiagnostics enables GET /diagnostics.
func (s *Server) SetDiagnostics(d *handlers.DiagnosticsHandler) {
	s.diagnostics = d
}

// RegisterRoutes registers the server routes on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /diagnostics", s.getDiagnostics)
	mux.HandleFunc("GET /codes", s.listCodes)
	mux.HandleFunc("GET /codes/{code}", s.getCode)

	mux.HandleFunc("GET /events", s.hostChannel)
	mux.HandleFunc("GET /producer", s.producerChannel)
	mux.HandleFunc("GET /producer/{player}", s.producerChannel)

	mux.HandleFunc("GET /players", s.listPlayers)
	mux.HandleFunc("POST /players/{player}/commands", s.command)
	mux.HandleFunc("DELETE /players/{player}", s.releasePlayer)
}

// Handler returns the routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return logRequests(mux, s.logger)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the hijacker for WebSocket upgrades.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack passes WebSocket upgrades through to the wrapped writer.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
	Clients int    `json:"clients"`
	Playing int    `json:"playing"`
	Dropped int64  `json:"dropped_events"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Players: s.manager.Count(),
		Clients: s.broadcaster.ClientCount(),
		Playing: s.manager.Engine().Playing(),
	}
	if s.bus != nil {
		resp.Dropped = s.bus.Dropped()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getDiagnostics(w http.ResponseWriter, _ *http.Request) {
	if s.diagnostics == nil {
		writeError(w, http.StatusNotFound, "NOT_CONFIGURED", "diagnostics not enabled")
		return
	}
	writeJSON(w, http.StatusOK, s.diagnostics.Snapshot())
}

type codeResponse struct {
	Code      int32  `json:"code"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Forwarded bool   `json:"forwarded"`
}

func codeInfo(c eventcode.EventCode) codeResponse {
	return codeResponse{
		Code:      int32(c),
		Name:      c.String(),
		Category:  string(c.Category()),
		Forwarded: dispatch.Accepts(c),
	}
}

func (s *Server) listCodes(w http.ResponseWriter, _ *http.Request) {
	all := eventcode.All()
	out := make([]codeResponse, 0, len(all))
	for _, c := range all {
		out = append(out, codeInfo(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// getCode resolves a code by value or by name.
func (s *Server) getCode(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("code")
	if n, err := strconv.Atoi(raw); err == nil {
		c, ok := eventcode.Lookup(n)
		if !ok {
			writeError(w, http.StatusNotFound, "UNKNOWN_CODE", fmt.Sprintf("no event code %d", n))
			return
		}
		writeJSON(w, http.StatusOK, codeInfo(c))
		return
	}

	c, ok := eventcode.Parse(raw)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":       fmt.Sprintf("no event code named %q", raw),
			"code":        "UNKNOWN_NAME",
			"suggestions": eventcode.Suggest(raw),
		})
		return
	}
	writeJSON(w, http.StatusOK, codeInfo(c))
}

type playerResponse struct {
	ID    int64  `json:"id"`
	State string `json:"state"`
}

func (s *Server) listPlayers(w http.ResponseWriter, _ *http.Request) {
	ids := s.manager.IDs()
	out := make([]playerResponse, 0, len(ids))
	for _, id := range ids {
		p, ok := s.manager.Get(id)
		if !ok {
			continue
		}
		out = append(out, playerResponse{ID: id, State: p.State().String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) releasePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "player")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid player id")
		return
	}
	if err := s.manager.Release(r.Context(), id); err != nil {
		if errors.Is(err, player.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "RELEASE_FAILED", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
