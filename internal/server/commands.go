package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vmunix/fijkbridge/internal/player"
)

// commandRequest is one player command. Method names follow the host
// method channel.
type commandRequest struct {
	Method   string                    `json:"method"`
	URL      string                    `json:"url,omitempty"`
	Msec     int64                     `json:"msec,omitempty"`
	Volume   *float32                  `json:"volume,omitempty"`
	Speed    *float32                  `json:"speed,omitempty"`
	Category int                       `json:"cat,omitempty"`
	Key      string                    `json:"key,omitempty"`
	Value    any                       `json:"value,omitempty"`
	Options  map[string]map[string]any `json:"options,omitempty"`
}

type commandResponse struct {
	Player   int64  `json:"player"`
	State    string `json:"state"`
	Position *int64 `json:"position,omitempty"`
}

func (s *Server) command(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "player")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid player id")
		return
	}
	p, ok := s.manager.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "player not found")
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	ctx := r.Context()
	resp := commandResponse{Player: id}

	switch req.Method {
	case "setDataSource":
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "MISSING_URL", "url is required")
			return
		}
		err = p.SetDataSource(ctx, req.URL)
	case "prepareAsync":
		err = p.PrepareAsync(ctx)
	case "start":
		err = p.Start(ctx)
	case "pause":
		err = p.Pause(ctx)
	case "stop":
		err = p.Stop(ctx)
	case "reset":
		err = p.Reset(ctx)
	case "seekTo":
		err = p.SeekTo(ctx, req.Msec)
	case "setVolume":
		volume := float32(1)
		if req.Volume != nil {
			volume = *req.Volume
		}
		err = p.SetVolume(volume)
	case "setSpeed":
		speed := float32(1)
		if req.Speed != nil {
			speed = *req.Speed
		}
		err = p.SetSpeed(speed)
	case "getCurrentPosition":
		var pos int64
		pos, err = p.CurrentPosition()
		resp.Position = &pos
	case "setOption":
		err = p.SetOption(req.Category, req.Key, req.Value)
	case "applyOptions":
		opts, convErr := optionCategories(req.Options)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_OPTIONS", convErr.Error())
			return
		}
		err = p.ApplyOptions(opts)
	case "release":
		err = s.manager.Release(ctx, id)
	default:
		writeError(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "unknown method "+strconv.Quote(req.Method))
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, player.ErrReleased):
			writeError(w, http.StatusConflict, "RELEASED", err.Error())
		case errors.Is(err, player.ErrInvalidOption):
			writeError(w, http.StatusBadRequest, "INVALID_OPTION", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "COMMAND_FAILED", err.Error())
		}
		return
	}

	resp.State = p.State().String()
	writeJSON(w, http.StatusOK, resp)
}

// optionCategories converts JSON object keys to option categories.
func optionCategories(in map[string]map[string]any) (map[int]map[string]any, error) {
	out := make(map[int]map[string]any, len(in))
	for k, v := range in {
		cat, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.New("option category must be a number: " + strconv.Quote(k))
		}
		out[cat] = v
	}
	return out, nil
}
