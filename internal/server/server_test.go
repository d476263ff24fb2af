package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/liarsdeck/internal/game"
	"github.com/lox/liarsdeck/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	opts = append([]Option{WithClock(quartz.NewMock(t))}, opts...)
	srv, err := NewServer("127.0.0.1:0", game.DefaultConfig(), quietLogger(), opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, typ protocol.MessageType, data any) *protocol.Message {
	t.Helper()
	req, err := protocol.NewMessage(typ, data)
	require.NoError(t, err)
	req.RequestID = "r-" + typ.String()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.WriteJSON(req))

	var resp protocol.Message
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, req.RequestID, resp.RequestID)
	return &resp
}

func expectError(t *testing.T, resp *protocol.Message, code string) {
	t.Helper()
	require.Equal(t, protocol.TypeError, resp.Type)
	var data protocol.ErrorData
	require.NoError(t, resp.Decode(&data))
	assert.Equal(t, code, data.Code)
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.NumPlayers = 0
	_, err := NewServer(":0", cfg, nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestSpec(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	resp := roundTrip(t, conn, protocol.TypeSpec, nil)
	require.Equal(t, protocol.TypeSpec, resp.Type)

	var spec protocol.SpecData
	require.NoError(t, resp.Decode(&spec))
	assert.True(t, strings.HasPrefix(spec.SessionID, "sess_"))
	assert.Equal(t, 9, spec.Actions)
	assert.Equal(t, 3, spec.MaxDeclare)
	assert.Equal(t, 2, spec.NumPlayers)
	assert.Equal(t, game.ObservationDim, spec.ObservationDim)
}

func TestResetAndStepMatchLocalEnvironment(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	local, err := game.New(game.DefaultConfig())
	require.NoError(t, err)

	seed := int64(77)
	want := local.Reset(&seed)

	resp := roundTrip(t, conn, protocol.TypeReset, protocol.ResetData{Seed: &seed})
	require.Equal(t, protocol.TypeObservation, resp.Type)
	var got protocol.ObservationData
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, want, got.Observation)
	assert.Nil(t, got.Info)

	for step := 0; !local.Done(); step++ {
		action := game.Action(step % 9)
		wantRes, err := local.Step(action)
		require.NoError(t, err)

		resp := roundTrip(t, conn, protocol.TypeStep, protocol.NewStepData(action))
		require.Equal(t, protocol.TypeObservation, resp.Type)
		var got protocol.ObservationData
		require.NoError(t, resp.Decode(&got))

		assert.Equal(t, wantRes.Observation, got.Observation)
		assert.Equal(t, wantRes.Reward, got.Reward)
		assert.Equal(t, wantRes.Done, got.Done)
		require.NotNil(t, got.Info)
		assert.Equal(t, wantRes.Info, *got.Info)
	}
}

func TestStepErrorsKeepConnectionOpen(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	expectError(t, roundTrip(t, conn, protocol.TypeStep, protocol.NewStepData(0)), protocol.CodeNotReset)

	roundTrip(t, conn, protocol.TypeReset, protocol.ResetData{})
	expectError(t, roundTrip(t, conn, protocol.TypeStep, protocol.NewStepData(9)), protocol.CodeInvalidAction)
	expectError(t, roundTrip(t, conn, protocol.TypeStep, protocol.NewStepData(-1)), protocol.CodeInvalidAction)
	expectError(t, roundTrip(t, conn, "teleport", nil), protocol.CodeUnknownType)

	resp := roundTrip(t, conn, protocol.TypeStep, protocol.NewStepData(0))
	assert.Equal(t, protocol.TypeObservation, resp.Type)
}

func TestStepWithoutActionIsRejected(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	seed := int64(7)
	var before protocol.ObservationData
	require.NoError(t, roundTrip(t, conn, protocol.TypeReset, protocol.ResetData{Seed: &seed}).Decode(&before))

	payloads := []struct {
		name string
		data any
	}{
		{"no data", nil},
		{"empty object", json.RawMessage(`{}`)},
		{"null data", json.RawMessage(`null`)},
		{"null action", json.RawMessage(`{"action":null}`)},
	}
	for _, p := range payloads {
		t.Run(p.name, func(t *testing.T) {
			expectError(t, roundTrip(t, conn, protocol.TypeStep, p.data), protocol.CodeInvalidMessage)
		})
	}

	// Nothing was played: the first real step still sees the dealt state.
	local, err := game.New(game.DefaultConfig(), game.WithLogger(quietLogger()))
	require.NoError(t, err)
	want := local.Reset(&seed)
	assert.Equal(t, want, before.Observation)

	wantRes, err := local.Step(0)
	require.NoError(t, err)
	var got protocol.ObservationData
	require.NoError(t, roundTrip(t, conn, protocol.TypeStep, protocol.NewStepData(0)).Decode(&got))
	assert.Equal(t, wantRes.Observation, got.Observation)
	require.NotNil(t, got.Info)
	assert.Equal(t, 1, got.Info.Step)
}

func TestRender(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	var data protocol.RenderData
	require.NoError(t, roundTrip(t, conn, protocol.TypeRender, nil).Decode(&data))
	assert.Equal(t, "Environment not reset.\n", data.Text)

	roundTrip(t, conn, protocol.TypeReset, protocol.ResetData{})
	require.NoError(t, roundTrip(t, conn, protocol.TypeRender, nil).Decode(&data))
	assert.Contains(t, data.Text, "Player 0's turn.")
}

func TestSessionsAreIndependent(t *testing.T) {
	srv, ts := newTestServer(t, WithChallengePolicy(game.Never{}))
	a := dial(t, ts)
	b := dial(t, ts)

	require.Eventually(t, func() bool { return srv.SessionCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	roundTrip(t, a, protocol.TypeReset, protocol.ResetData{})
	expectError(t, roundTrip(t, b, protocol.TypeStep, protocol.NewStepData(0)), protocol.CodeNotReset)

	var data protocol.ObservationData
	require.NoError(t, roundTrip(t, a, protocol.TypeStep, protocol.NewStepData(0)).Decode(&data))
	require.NotNil(t, data.Info)
	assert.False(t, data.Info.Challenged)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStopClosesSessions(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)
	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg protocol.Message
	err := conn.ReadJSON(&msg)
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	require.Eventually(t, func() bool { return srv.SessionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStartShutsDownOnCancel(t *testing.T) {
	srv, err := NewServer("127.0.0.1:0", game.DefaultConfig(), quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
