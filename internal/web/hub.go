// Package web serves One Card games to browser clients over websockets.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/onecard-go/onecard/internal/game"
	"github.com/onecard-go/onecard/internal/game/rules"
)

// Message types exchanged with clients.
const (
	TypeNewGame       = "new_game"
	TypeJoinGame      = "join_game"
	TypeMoveSelection = "move_selection"
	TypePlayCard      = "play_card"
	TypeDrawCard      = "draw_card"

	TypeGameState = "game_state"
	TypeRejected  = "rejected"
	TypeError     = "error"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local play only
	},
}

// Envelope is the JSON frame for every websocket message.
type Envelope struct {
	Type   string          `json:"type"`
	GameID string          `json:"game_id,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// MovePayload is the data of a move_selection request.
type MovePayload struct {
	Delta int `json:"delta"`
}

// PlayPayload is the data of a play_card request.
type PlayPayload struct {
	Index int `json:"index"`
}

// RejectedPayload is sent to the client whose action was refused.
type RejectedPayload struct {
	Reason   string        `json:"reason"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// ErrorPayload reports a malformed or unknown request.
type ErrorPayload struct {
	Error string `json:"error"`
}

// Hub tracks connected clients and the games they are watching. Computer
// turns are driven by the hub after ComputerDelay.
type Hub struct {
	manager       *game.Manager
	logger        *zap.Logger
	computerDelay time.Duration

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*Client]bool
	pending map[string]bool

	// wg counts client pumps and scheduled computer turns.
	wg sync.WaitGroup
}

// NewHub creates a hub serving games from manager. A nil logger discards
// all output.
func NewHub(manager *game.Manager, logger *zap.Logger, computerDelay time.Duration) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		manager:       manager,
		logger:        logger,
		computerDelay: computerDelay,
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		done:          make(chan struct{}),
		clients:       make(map[*Client]bool),
		pending:       make(map[string]bool),
	}
}

// Run processes client registration until ctx is cancelled. On return every
// client connection has been told to close.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("remote", client.remote))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.release(client.GameID())
			h.logger.Debug("client unregistered", zap.String("remote", client.remote))
		}
	}
}

// Wait blocks until Run has returned and every client pump and pending
// computer turn has finished. It must only be called after Run was started.
func (h *Hub) Wait() {
	<-h.done
	h.wg.Wait()
}

func (h *Hub) closeClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.markClosed()
		close(client.send)
		delete(h.clients, client)
	}
	h.logger.Debug("hub stopped")
}

// ServeHTTP upgrades the request to a websocket and attaches a client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn, r.RemoteAddr)
	h.wg.Add(2)
	select {
	case h.register <- client:
	case <-h.done:
		h.wg.Add(-2)
		conn.Close()
		return
	}

	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump(h)
	}()
}

func (h *Hub) handleMessage(client *Client, msg Envelope) {
	h.logger.Debug("message received",
		zap.String("type", msg.Type),
		zap.String("game_id", client.GameID()),
	)

	switch msg.Type {
	case TypeNewGame:
		previous := client.GameID()
		g, err := h.manager.Create()
		if err != nil {
			h.sendError(client, err)
			return
		}
		client.setGameID(g.ID())
		h.release(previous)
		h.send(client, TypeGameState, g.ID(), g.Snapshot())

	case TypeJoinGame:
		g, err := h.manager.Get(msg.GameID)
		if err != nil {
			h.sendError(client, err)
			return
		}
		previous := client.GameID()
		client.setGameID(g.ID())
		if previous != g.ID() {
			h.release(previous)
		}
		h.send(client, TypeGameState, g.ID(), g.Snapshot())
		h.scheduleComputer(g)

	case TypeMoveSelection:
		var payload MovePayload
		if err := decode(msg.Data, &payload); err != nil {
			h.sendError(client, err)
			return
		}
		h.submit(client, game.MoveSelection(payload.Delta))

	case TypePlayCard:
		var payload PlayPayload
		if err := decode(msg.Data, &payload); err != nil {
			h.sendError(client, err)
			return
		}
		h.submit(client, game.PlayCard(payload.Index))

	case TypeDrawCard:
		h.submit(client, game.DrawCard())

	default:
		h.sendError(client, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (h *Hub) submit(client *Client, action game.Action) {
	g, err := h.manager.Get(client.GameID())
	if err != nil {
		h.sendError(client, err)
		return
	}

	res := g.SubmitPlayerAction(action)
	if !res.Accepted {
		h.send(client, TypeRejected, g.ID(), RejectedPayload{Reason: res.Reason, Snapshot: res.Snapshot})
		return
	}

	h.broadcast(g.ID(), res.Snapshot)
	h.scheduleComputer(g)
}

// scheduleComputer plays the computer's turns one at a time, each after the
// configured delay, until control returns to the player or the game ends.
func (h *Hub) scheduleComputer(g *game.Game) {
	state := g.State()
	if state.Over() || state.Current != rules.ActorComputer {
		return
	}

	h.mu.Lock()
	if h.pending[g.ID()] {
		h.mu.Unlock()
		return
	}
	h.pending[g.ID()] = true
	h.wg.Add(1)
	h.mu.Unlock()

	time.AfterFunc(h.computerDelay, func() {
		defer h.wg.Done()

		select {
		case <-h.done:
			h.mu.Lock()
			delete(h.pending, g.ID())
			h.mu.Unlock()
			return
		default:
		}

		res := g.AdvanceComputerTurn()

		h.mu.Lock()
		delete(h.pending, g.ID())
		h.mu.Unlock()

		if !res.Accepted {
			h.logger.Error("computer turn rejected",
				zap.String("game_id", g.ID()),
				zap.String("reason", res.Reason),
			)
			return
		}
		h.broadcast(g.ID(), res.Snapshot)
		h.scheduleComputer(g)
	})
}

// release drops a game from the manager once no client is watching it.
func (h *Hub) release(gameID string) {
	if gameID == "" {
		return
	}

	h.mu.RLock()
	for client := range h.clients {
		if client.GameID() == gameID {
			h.mu.RUnlock()
			return
		}
	}
	h.mu.RUnlock()

	if err := h.manager.Remove(gameID); err != nil && !errors.Is(err, game.ErrGameNotFound) {
		h.logger.Warn("failed to remove game", zap.String("game_id", gameID), zap.Error(err))
	}
}

func (h *Hub) broadcast(gameID string, snapshot game.Snapshot) {
	frame, err := encode(TypeGameState, gameID, snapshot)
	if err != nil {
		h.logger.Error("failed to encode snapshot", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.GameID() != gameID {
			continue
		}
		select {
		case client.send <- frame:
		default:
			h.logger.Warn("client send buffer full", zap.String("remote", client.remote))
		}
	}
}

func (h *Hub) send(client *Client, msgType, gameID string, data any) {
	frame, err := encode(msgType, gameID, data)
	if err != nil {
		h.logger.Error("failed to encode message", zap.String("type", msgType), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- frame:
	default:
		h.logger.Warn("client send buffer full", zap.String("remote", client.remote))
	}
}

func (h *Hub) sendError(client *Client, err error) {
	h.send(client, TypeError, client.GameID(), ErrorPayload{Error: err.Error()})
}

func encode(msgType, gameID string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, GameID: gameID, Data: raw})
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("missing data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	return nil
}
