package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"naval-chess/internal/game"
	"naval-chess/internal/room"
	"naval-chess/internal/shared"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn   *websocket.Conn
	player string
	mu     sync.Mutex
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

type envelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Hub fans match notifications out to every socket watching a room and turns
// socket lifecycle into presence events on the state machine.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[*client]struct{}
	roomManager RoomManager
}

func NewHub(roomManager RoomManager) *Hub {
	return &Hub{
		rooms:       make(map[string]map[*client]struct{}),
		roomManager: roomManager,
	}
}

func (h *Hub) HandleWS(c *gin.Context) {
	roomID := c.Query("room_id")
	player := c.Query("player")
	if roomID == "" || player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id and player are required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("websocket upgrade failed")
		return
	}
	cl := &client{conn: conn, player: player}
	ctx := context.Background()

	if err := h.roomManager.ReconnectPlayer(ctx, roomID, player); err != nil {
		h.sendError(cl, err)
		_ = conn.Close()
		return
	}
	h.add(roomID, cl)
	log.Debug().Str("room", roomID).Str("player", player).Msg("socket connected")

	done := make(chan struct{})
	defer func() {
		close(done)
		_ = conn.Close()
		if h.remove(roomID, cl) {
			if err := h.roomManager.DisconnectPlayer(ctx, roomID, player); err != nil {
				log.Warn().Err(err).Str("room", roomID).Str("player", player).Msg("disconnect not recorded")
			}
		}
	}()
	go h.ping(cl, done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("room", roomID).Msg("socket closed")
			}
			return
		}

		switch msg.Action {
		case "make_move":
			h.handleMove(ctx, cl, roomID, msg.Data)
		default:
			h.sendError(cl, &room.ValidationError{Field: "action", Err: errUnknownAction(msg.Action)})
		}
	}
}

var errMissingCoords = errors.New("x and y are required")

type errUnknownAction string

func (e errUnknownAction) Error() string { return "unknown action " + string(e) }

// handleMove reads x as the row and y as the column.
func (h *Hub) handleMove(ctx context.Context, cl *client, roomID string, data json.RawMessage) {
	var move struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := json.Unmarshal(data, &move); err != nil || move.X == nil || move.Y == nil {
		h.sendError(cl, &room.ValidationError{Field: "move", Err: errMissingCoords})
		return
	}
	if _, err := h.roomManager.Fire(ctx, roomID, cl.player, game.Cell{Row: *move.X, Col: *move.Y}); err != nil {
		h.sendError(cl, err)
	}
}

func (h *Hub) ping(cl *client, done <-chan struct{}) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := cl.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) add(roomID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*client]struct{})
	}
	h.rooms[roomID][cl] = struct{}{}
}

// remove drops cl and reports whether it was the player's last socket.
func (h *Hub) remove(roomID string, cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.rooms[roomID]
	delete(clients, cl)
	for other := range clients {
		if other.player == cl.player {
			return false
		}
	}
	if len(clients) == 0 {
		delete(h.rooms, roomID)
	}
	return true
}

func (h *Hub) sendError(cl *client, err error) {
	h.send(cl, shared.ActionError, shared.Error{Code: room.ErrorCode(err), Message: err.Error()})
}

func (h *Hub) send(cl *client, action string, data interface{}) {
	payload, err := encode(action, data)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("encode message")
		return
	}
	if err := cl.write(websocket.TextMessage, payload); err != nil {
		_ = cl.conn.Close()
	}
}

func encode(action string, data interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"action": action,
		"data":   data,
	})
}

// Broadcast implements room.Broadcaster. A socket that cannot be written is
// closed; its reader then unregisters it.
func (h *Hub) Broadcast(roomCode string, action string, data interface{}) {
	if h == nil {
		return
	}
	payload, err := encode(action, data)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("encode broadcast")
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[roomCode]))
	for cl := range h.rooms[roomCode] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(websocket.TextMessage, payload); err != nil {
			log.Debug().Err(err).Str("room", roomCode).Msg("dropping socket")
			_ = cl.conn.Close()
		}
	}
}
