package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/vmunix/fijkbridge/internal/dispatch"
	"github.com/vmunix/fijkbridge/internal/player"
	"github.com/vmunix/fijkbridge/internal/sink"
)

// helloFrame is the first frame on a producer channel.
type helloFrame struct {
	Player int64 `json:"player"`
}

// rejectFrame tells a producer that one of its frames was not dispatched.
type rejectFrame struct {
	Error string `json:"error"`
	What  int    `json:"what"`
}

// hostChannel streams host messages to a WebSocket client. The optional
// player query parameter limits the stream to one player.
func (s *Server) hostChannel(w http.ResponseWriter, r *http.Request) {
	var filter int64
	if raw := r.URL.Query().Get("player"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid player id")
			return
		}
		filter = id
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "path", r.URL.Path, "error", err)
		return
	}

	c, err := s.broadcaster.AddClient(conn, filter)
	if err != nil {
		if errors.Is(err, sink.ErrTooManyConnections) {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		}
		_ = conn.Close()
		s.logger.Warn("host client rejected", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.logger.Info("host client connected", "remote", r.RemoteAddr, "player", filter)
	defer func() {
		s.broadcaster.RemoveClient(c)
		s.logger.Info("host client disconnected", "remote", r.RemoteAddr)
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// producerChannel accepts native event frames for one player. Without a
// player in the path a new player is created for the connection and
// released when it closes.
func (s *Server) producerChannel(w http.ResponseWriter, r *http.Request) {
	var (
		p     *player.Player
		owned bool
	)
	if r.PathValue("player") != "" {
		id, err := pathID(r, "player")
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid player id")
			return
		}
		var ok bool
		p, ok = s.manager.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "player not found")
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "path", r.URL.Path, "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ctx := context.WithoutCancel(r.Context())
	if p == nil {
		p, err = s.manager.Create()
		if err != nil {
			s.logger.Error("create player failed", "error", err)
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "create player failed"))
			return
		}
		p.Listen(s.broadcaster.ForPlayer(p.ID()))
		owned = true
		defer func() {
			if err := s.manager.Release(ctx, p.ID()); err != nil && !errors.Is(err, player.ErrNotFound) {
				s.logger.Error("release player failed", "player", p.ID(), "error", err)
			}
		}()
	}

	logger := s.logger.With("player", p.ID(), "remote", r.RemoteAddr)
	logger.Info("producer connected", "owned", owned)
	defer logger.Info("producer disconnected")

	if err := conn.WriteJSON(helloFrame{Player: p.ID()}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var e dispatch.NativeEvent
		if err := json.Unmarshal(data, &e); err != nil {
			logger.Warn("malformed producer frame", "error", err)
			if err := conn.WriteJSON(rejectFrame{Error: "malformed frame: " + err.Error()}); err != nil {
				return
			}
			continue
		}

		if err := p.OnEvent(ctx, e); err != nil {
			if err := conn.WriteJSON(rejectFrame{Error: err.Error(), What: e.What}); err != nil {
				return
			}
			if errors.Is(err, player.ErrReleased) {
				return
			}
		}
	}
}
