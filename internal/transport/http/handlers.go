package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"showtime/internal/app"
	"showtime/internal/archive"
	"showtime/internal/domain"
	"showtime/internal/validate"
)

const (
	// qrSize is the edge of the invite QR code in pixels
	qrSize = 320

	defaultRecentShows = 20
	maxRecentShows     = 100

	maxRequestBody = 1 << 12
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomRequest is the body of POST /api/rooms
type CreateRoomRequest struct {
	Mode     string `json:"mode"`
	IsMature bool   `json:"isMature"`
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomCode   string `json:"roomCode"`
	HostID     string `json:"hostId"`
	InviteLink string `json:"inviteLink"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// ShowsResponse lists archived shows
type ShowsResponse struct {
	Shows []*archive.ShowRecord `json:"shows"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status  string `json:"status"`
	Archive bool   `json:"archive"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	TotalPlayers int `json:"totalPlayers"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CreateRoomRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be JSON")
		return
	}

	mode, err := domain.ParseGameMode(req.Mode)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_MODE", "Mode must be SOLO, HEAD_TO_HEAD or ENSEMBLE")
		return
	}

	session, err := s.registry.CreateRoom(mode, req.IsMature)
	if err != nil {
		s.logger.Error("failed to create room", "error", err)
		s.sendError(w, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create room")
		return
	}

	s.sendSuccess(w, &CreateRoomResponse{
		RoomCode:   session.Code(),
		HostID:     session.HostID(),
		InviteLink: s.inviteLink(r, session.Code()),
	})
}

// inviteLink builds the join URL from the configured public URL, or from
// the request when none is set.
func (s *Server) inviteLink(r *http.Request, roomCode string) string {
	base := s.config.Server.PublicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + roomCode
}

// lookupRoom resolves the :roomCode parameter, writing the error response
// itself when the room cannot be found.
func (s *Server) lookupRoom(w http.ResponseWriter, ps httprouter.Params) (*app.RoomSession, bool) {
	roomCode, err := validate.RoomCode(ps.ByName("roomCode"))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_ROOM_CODE", "Room code is invalid")
		return nil, false
	}

	session, err := s.registry.GetSession(roomCode)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return nil, false
	}

	return session, true
}

// handleGetRoom handles GET /api/rooms/:roomCode
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, ok := s.lookupRoom(w, ps)
	if !ok {
		return
	}

	s.sendSuccess(w, session.Info())
}

// handleRoomExists handles GET /api/rooms/:roomCode/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomCode, err := validate.RoomCode(ps.ByName("roomCode"))
	if err != nil {
		s.sendSuccess(w, &RoomExistsResponse{Exists: false})
		return
	}

	_, err = s.registry.GetSession(roomCode)
	s.sendSuccess(w, &RoomExistsResponse{
		Exists: err == nil,
	})
}

// handleRoomQR handles GET /api/rooms/:roomCode/qr with a PNG of the invite link
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, ok := s.lookupRoom(w, ps)
	if !ok {
		return
	}

	png, err := qrcode.Encode(s.inviteLink(r, session.Code()), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "roomCode", session.Code(), "error", err)
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleRoomShows handles GET /api/rooms/:roomCode/shows. Archived shows
// outlive their room, so the room itself need not exist.
func (s *Server) handleRoomShows(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomCode, err := validate.RoomCode(ps.ByName("roomCode"))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_ROOM_CODE", "Room code is invalid")
		return
	}
	if s.archive == nil {
		s.sendSuccess(w, &ShowsResponse{Shows: []*archive.ShowRecord{}})
		return
	}

	shows, err := s.archive.GetShowsByRoom(r.Context(), &archive.GetShowsByRoomInput{RoomCode: roomCode})
	if err != nil {
		s.logger.Error("failed to list room shows", "roomCode", roomCode, "error", err)
		s.sendError(w, http.StatusInternalServerError, "ARCHIVE_ERROR", "Failed to load shows")
		return
	}
	if shows == nil {
		shows = []*archive.ShowRecord{}
	}

	s.sendSuccess(w, &ShowsResponse{Shows: shows})
}

// handleShow handles GET /api/shows/:showID. The id "recent" lists the
// newest shows instead; httprouter cannot register it as its own route.
func (s *Server) handleShow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	showID := ps.ByName("showID")
	if showID == "recent" {
		s.handleRecentShows(w, r)
		return
	}

	if s.archive == nil {
		s.sendError(w, http.StatusNotFound, "SHOW_NOT_FOUND", "Show not found")
		return
	}
	if err := validate.ID(showID); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_SHOW_ID", "Show id is invalid")
		return
	}

	show, err := s.archive.GetShow(r.Context(), &archive.GetShowInput{ShowID: showID})
	if err != nil {
		if errors.Is(err, archive.ErrShowNotFound) {
			s.sendError(w, http.StatusNotFound, "SHOW_NOT_FOUND", "Show not found")
			return
		}
		s.logger.Error("failed to load show", "showID", showID, "error", err)
		s.sendError(w, http.StatusInternalServerError, "ARCHIVE_ERROR", "Failed to load show")
		return
	}

	s.sendSuccess(w, show)
}

// handleRecentShows serves GET /api/shows/recent?limit=N
func (s *Server) handleRecentShows(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentShows
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.sendError(w, http.StatusBadRequest, "INVALID_LIMIT", "Limit must be a positive integer")
			return
		}
		limit = min(n, maxRecentShows)
	}

	if s.archive == nil {
		s.sendSuccess(w, &ShowsResponse{Shows: []*archive.ShowRecord{}})
		return
	}

	out, err := s.archive.GetRecentShows(r.Context(), &archive.GetRecentShowsInput{Limit: limit})
	if err != nil {
		s.logger.Error("failed to list recent shows", "error", err)
		s.sendError(w, http.StatusInternalServerError, "ARCHIVE_ERROR", "Failed to load shows")
		return
	}

	shows := out.Shows
	if shows == nil {
		shows = []*archive.ShowRecord{}
	}
	s.sendSuccess(w, &ShowsResponse{Shows: shows})
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.sendSuccess(w, &HealthResponse{
		Status:  "ok",
		Archive: s.archive != nil,
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms:  s.registry.SessionCount(),
		TotalPlayers: s.registry.TotalPlayerCount(),
	})
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
