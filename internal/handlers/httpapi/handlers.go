package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/room"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Rooms    int    `json:"rooms"`
	Members  int    `json:"members"`
	Sessions int    `json:"sessions"`
}

type playerSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type roomResponse struct {
	RoomCode   string           `json:"roomCode"`
	GameActive bool             `json:"gameActive"`
	Elapsed    string           `json:"elapsed"`
	Members    int              `json:"members"`
	Players    []*playerSummary `json:"players"`
	JoinURL    string           `json:"joinUrl"`
}

func (a *api) serveHealthCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := a.roomService.Stats(r.Context())
	if err != nil {
		a.logger.Error("failed to read room stats", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, &healthResponse{
		Status:   "ok",
		Rooms:    stats.Rooms,
		Members:  stats.Members,
		Sessions: a.sessions.Count(),
	})
}

// serveRoom returns a leaderboard summary of a live room
func (a *api) serveRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	out, ok := a.lookupRoom(w, r, ps)
	if !ok {
		return
	}

	resp := &roomResponse{
		RoomCode:   out.RoomCode,
		GameActive: out.State.GameActive,
		Elapsed:    game.FormatElapsed(out.State.StartTime, a.clock.Now()),
		Members:    out.Members,
		Players:    []*playerSummary{},
		JoinURL:    a.joinURL(r, out.RoomCode),
	}

	for _, entry := range game.BuildLeaderboard(out.State.Players).Entries {
		resp.Players = append(resp.Players, &playerSummary{
			ID:     entry.PlayerID,
			Name:   entry.PlayerName,
			Points: entry.Points,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// serveRoomQR returns a PNG QR code of the join link of a live room
func (a *api) serveRoomQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	out, ok := a.lookupRoom(w, r, ps)
	if !ok {
		return
	}

	png, err := qrcode.Encode(a.joinURL(r, out.RoomCode), qrcode.Medium, a.qrSize)
	if err != nil {
		a.logger.Error("qr generation failed", zap.String("room_code", out.RoomCode), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "qr generation failed"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (a *api) lookupRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*room.GetRoomOutput, bool) {
	out, err := a.roomService.GetRoom(r.Context(), &room.GetRoomInput{RoomCode: ps.ByName("code")})
	if err != nil {
		if game.KindOf(err) == game.KindNotFound {
			writeJSON(w, http.StatusNotFound, &errorResponse{Error: game.MessageOf(err)})
			return nil, false
		}
		a.logger.Error("failed to look up room", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "unavailable"})
		return nil, false
	}
	return out, true
}

// joinURL is the link a QR code scan opens. The base comes from the public
// URL, or from the request when none is configured.
func (a *api) joinURL(r *http.Request, code string) string {
	base := a.publicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}

	return base + "/?room=" + url.QueryEscape(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
