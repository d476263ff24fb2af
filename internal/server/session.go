package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsdeck/internal/game"
	"github.com/lox/liarsdeck/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBuffer = 64
)

// Session is one client connection and the environment it drives. Requests
// are handled in arrival order on the read goroutine, so the environment is
// never touched concurrently.
type Session struct {
	id        string
	conn      *websocket.Conn
	env       *game.Environment
	send      chan *protocol.Message
	logger    *log.Logger
	clock     quartz.Clock
	started   time.Time
	steps     atomic.Int64
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, env *game.Environment, logger *log.Logger, clock quartz.Clock) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:      id,
		conn:    conn,
		env:     env,
		send:    make(chan *protocol.Message, sendBuffer),
		logger:  logger.With("session", id),
		clock:   clock,
		started: clock.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Started returns when the session was opened
func (s *Session) Started() time.Time { return s.started }

// Steps returns the number of steps played
func (s *Session) Steps() int { return int(s.steps.Load()) }

// Done is closed once the session has ended
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Start begins handling the connection
func (s *Session) Start() {
	go s.writePump()
	go s.readPump()
}

// Close ends the session. The write pump sends a close frame and closes the
// connection.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
	})
	return nil
}

func (s *Session) readPump() {
	defer func() {
		_ = s.Close()
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		if s.ctx.Err() != nil {
			return
		}
		s.handleMessage(&msg)
	}
}

func (s *Session) writePump() {
	ticker := s.clock.NewTicker(pingPeriod, "session", "ping")
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Error("Failed to write message", "error", err)
				_ = s.Close()
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = s.Close()
				return
			}

		case <-s.ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes one request and queues its reply
func (s *Session) handleMessage(msg *protocol.Message) {
	s.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	switch msg.Type {
	case protocol.TypeReset:
		var data protocol.ResetData
		if err := msg.Decode(&data); err != nil {
			s.sendError(msg, protocol.ErrorData{Code: protocol.CodeInvalidMessage, Message: err.Error()})
			return
		}
		obs := s.env.Reset(data.Seed)
		s.logger.Debug("Episode reset", "seed", s.env.Seed())
		s.reply(msg, protocol.TypeObservation, protocol.ObservationData{Observation: obs})

	case protocol.TypeStep:
		var data protocol.StepData
		if err := msg.Decode(&data); err != nil || data.Action == nil {
			s.sendError(msg, protocol.ErrorData{Code: protocol.CodeInvalidMessage, Message: "step requires an action"})
			return
		}
		res, err := s.env.Step(*data.Action)
		if err != nil {
			s.sendError(msg, protocol.ErrorFor(err))
			return
		}
		s.steps.Add(1)
		s.reply(msg, protocol.TypeObservation, protocol.ObservationData{
			Observation: res.Observation,
			Reward:      res.Reward,
			Done:        res.Done,
			Info:        &res.Info,
		})

	case protocol.TypeRender:
		s.reply(msg, protocol.TypeRender, protocol.RenderData{Text: s.env.Render()})

	case protocol.TypeSpec:
		cfg := s.env.Config()
		s.reply(msg, protocol.TypeSpec, protocol.SpecData{
			SessionID:      s.id,
			Actions:        s.env.ActionSpace().Size(),
			MaxDeclare:     cfg.MaxDeclare,
			NumPlayers:     cfg.NumPlayers,
			ObservationDim: game.ObservationDim,
		})

	default:
		s.sendError(msg, protocol.ErrorData{Code: protocol.CodeUnknownType, Message: "Unknown message type: " + msg.Type.String()})
	}
}

func (s *Session) reply(req *protocol.Message, t protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		s.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	s.queue(msg)
}

func (s *Session) sendError(req *protocol.Message, data protocol.ErrorData) {
	s.logger.Debug("Request failed", "type", req.Type, "code", data.Code, "message", data.Message)
	s.reply(req, protocol.TypeError, data)
}

func (s *Session) queue(msg *protocol.Message) {
	select {
	case s.send <- msg:
	case <-s.ctx.Done():
	default:
		s.logger.Warn("Send buffer full, closing session")
		_ = s.Close()
	}
}
