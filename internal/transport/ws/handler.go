package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"showtime/internal/app"
	"showtime/internal/common/uuid"
	"showtime/internal/validate"
)

// HandlerConfig holds the websocket handler's collaborators
type HandlerConfig struct {
	Registry *app.RoomRegistry
	UUID     uuid.UUID
	Logger   *slog.Logger

	// Inbound messages allowed per second per connection, and burst
	RateLimit float64
	RateBurst int
}

// Handler handles WebSocket connections
type Handler struct {
	registry  *app.RoomRegistry
	uuid      uuid.UUID
	upgrader  websocket.Upgrader
	logger    *slog.Logger
	rateLimit rate.Limit
	rateBurst int
}

// NewHandler creates a new WebSocket handler
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.UUID == nil {
		cfg.UUID = uuid.New()
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 20
	}

	return &Handler{
		registry: cfg.Registry,
		uuid:     cfg.UUID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Room codes are the only gate; players join from any origin
				return true
			},
		},
		logger:    cfg.Logger,
		rateLimit: rate.Limit(cfg.RateLimit),
		rateBurst: cfg.RateBurst,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomCode, err := validate.RoomCode(r.URL.Query().Get("roomCode"))
	if err != nil {
		http.Error(w, "valid roomCode is required", http.StatusBadRequest)
		return
	}

	// A known playerId resumes a seat; otherwise a fresh id is issued
	playerID := r.URL.Query().Get("playerId")
	if playerID != "" {
		if err := validate.ID(playerID); err != nil {
			http.Error(w, "invalid playerId", http.StatusBadRequest)
			return
		}
	}

	session, err := h.registry.GetSession(roomCode)
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	isReconnect := playerID != "" && session.HasPlayer(playerID)
	if !isReconnect {
		if !session.CanJoin() {
			http.Error(w, "Cannot join this room", http.StatusForbidden)
			return
		}
		if playerID == "" {
			playerID = h.uuid.NewUUID()
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, session, playerID, rate.NewLimiter(h.rateLimit, h.rateBurst), h.logger)

	h.logger.Info("websocket connected",
		"roomCode", roomCode,
		"playerID", playerID,
		"isReconnect", isReconnect,
	)

	// A seated player gets the full snapshot straight away; newcomers get
	// theirs after join_room.
	if session.Connect(playerID, client) {
		client.sendConnected()
	}

	client.Run()
}
