// Package client drives a remote Liar's Deck environment over WebSocket with
// the same Reset/Step/Render contract as game.Environment.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsdeck/internal/game"
	"github.com/lox/liarsdeck/internal/gameid"
	"github.com/lox/liarsdeck/internal/protocol"
)

// ErrClosed is returned by calls on a closed Env.
var ErrClosed = errors.New("client closed")

const writeWait = 10 * time.Second

// Env is a remote environment. Calls are serialized; it is safe for
// concurrent use but plays a single episode at a time.
type Env struct {
	conn   *websocket.Conn
	logger *log.Logger

	callMu  sync.Mutex // one request in flight
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int
	pending map[string]chan *protocol.Message
	err     error

	spec      protocol.SpecData
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to a server. serverURL may use ws, wss, http or https; an
// empty path means /ws.
func Dial(ctx context.Context, serverURL string, logger *log.Logger) (*Env, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	logger = logger.WithPrefix("client")

	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	logger.Info("Connecting to server", "url", u.String())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	e := &Env{
		conn:    conn,
		logger:  logger,
		pending: make(map[string]chan *protocol.Message),
		done:    make(chan struct{}),
	}
	go e.readPump()

	var spec protocol.SpecData
	if err := e.call(ctx, protocol.TypeSpec, nil, &spec); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("fetch spec: %w", err)
	}
	if err := gameid.Validate(spec.SessionID); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("unexpected session: %w", err)
	}
	e.spec = spec
	logger.Info("Connected to server", "session", spec.SessionID, "actions", spec.Actions)
	return e, nil
}

// Spec returns the remote environment's description
func (e *Env) Spec() protocol.SpecData {
	return e.spec
}

// ActionSpace returns the remote action space
func (e *Env) ActionSpace() game.ActionSpace {
	return game.NewActionSpace(e.spec.MaxDeclare)
}

// Reset starts a new remote episode. A nil seed lets the server choose.
func (e *Env) Reset(ctx context.Context, seed *int64) (game.Observation, error) {
	var data protocol.ObservationData
	if err := e.call(ctx, protocol.TypeReset, protocol.ResetData{Seed: seed}, &data); err != nil {
		return game.Observation{}, err
	}
	return data.Observation, nil
}

// Step plays one remote turn. Environment errors come back as
// game.ErrNotReset and *game.InvalidActionError.
func (e *Env) Step(ctx context.Context, action game.Action) (game.StepResult, error) {
	var data protocol.ObservationData
	err := e.call(ctx, protocol.TypeStep, protocol.NewStepData(action), &data)
	if err != nil {
		var remote *protocol.RemoteError
		if errors.As(err, &remote) {
			ed := protocol.ErrorData{Code: remote.Code, Message: remote.Message}
			return game.StepResult{}, ed.Err(action, e.spec.Actions)
		}
		return game.StepResult{}, err
	}

	res := game.StepResult{Observation: data.Observation, Reward: data.Reward, Done: data.Done}
	if data.Info != nil {
		res.Info = *data.Info
	}
	return res, nil
}

// Render returns the remote text dump of the current state
func (e *Env) Render(ctx context.Context) (string, error) {
	var data protocol.RenderData
	if err := e.call(ctx, protocol.TypeRender, nil, &data); err != nil {
		return "", err
	}
	return data.Text, nil
}

// Close closes the connection
func (e *Env) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.writeMu.Lock()
		_ = e.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		e.writeMu.Unlock()
		err = e.conn.Close()
		<-e.done
	})
	return err
}

// call sends a request and waits for the reply with the same request id
func (e *Env) call(ctx context.Context, t protocol.MessageType, data any, out any) error {
	e.callMu.Lock()
	defer e.callMu.Unlock()

	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.err != nil {
		e.mu.Unlock()
		return e.err
	}
	e.nextID++
	msg.RequestID = strconv.Itoa(e.nextID)
	reply := make(chan *protocol.Message, 1)
	e.pending[msg.RequestID] = reply
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.pending, msg.RequestID)
		e.mu.Unlock()
	}()

	e.writeMu.Lock()
	_ = e.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = e.conn.WriteJSON(msg)
	e.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send %s: %w", t, err)
	}

	select {
	case resp := <-reply:
		if resp.Type == protocol.TypeError {
			var ed protocol.ErrorData
			if err := resp.Decode(&ed); err != nil {
				return err
			}
			return &protocol.RemoteError{Code: ed.Code, Message: ed.Message}
		}
		return resp.Decode(out)
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return e.closedErr()
	}
}

func (e *Env) closedErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	return ErrClosed
}

// readPump routes replies to their waiting calls
func (e *Env) readPump() {
	defer close(e.done)

	for {
		var msg protocol.Message
		if err := e.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				e.logger.Error("WebSocket error", "error", err)
			}
			e.mu.Lock()
			e.err = ErrClosed
			e.mu.Unlock()
			return
		}

		e.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

		e.mu.Lock()
		reply, ok := e.pending[msg.RequestID]
		e.mu.Unlock()
		if !ok {
			e.logger.Warn("Dropping unsolicited message", "type", msg.Type, "request", msg.RequestID)
			continue
		}
		reply <- &msg
	}
}
