package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/akinalp/eihracat/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubValidator map[string]string

func (s stubValidator) ValidateAccessToken(_ context.Context, token string) (*models.TokenClaims, error) {
	userID, ok := s[token]
	if !ok {
		return nil, errors.New("invalid")
	}
	return &models.TokenClaims{UserID: userID}, nil
}

func startServer(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	handler := NewHandler(hub, stubValidator{"tok-a": "user-a", "tok-b": "user-b"}, nil)
	srv := httptest.NewServer(http.HandlerFunc(handler.HandleConnection))
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func waitOnline(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(hub.OnlineUserIDs()) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHandleConnection_RejectsMissingOrBadToken(t *testing.T) {
	_, srv, cancel := startServer(t)
	defer func() {
		srv.Close()
		cancel()
	}()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"/?token=nope", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_SendToUserOnlyReachesThatUser(t *testing.T) {
	hub, srv, cancel := startServer(t)

	a := dial(t, srv, "tok-a")
	b := dial(t, srv, "tok-b")

	ready := readEvent(t, a)
	assert.Equal(t, OpReady, ready.Op)
	assert.Equal(t, OpReady, readEvent(t, b).Op)
	waitOnline(t, hub, 2)

	hub.SendToUser("user-b", Event{Op: OpTaskAssigned, Data: map[string]string{"task_id": "t1"}})
	ev := readEvent(t, b)
	assert.Equal(t, OpTaskAssigned, ev.Op)
	assert.Positive(t, ev.Seq)

	hub.Broadcast(Event{Op: OpNewsPublished})
	assert.Equal(t, OpNewsPublished, readEvent(t, a).Op)
	assert.Equal(t, OpNewsPublished, readEvent(t, b).Op)

	a.Close()
	b.Close()
	waitOnline(t, hub, 0)

	srv.Close()
	cancel()
	<-hub.Done()
}

func TestHub_HeartbeatAck(t *testing.T) {
	hub, srv, cancel := startServer(t)

	conn := dial(t, srv, "tok-a")
	assert.Equal(t, OpReady, readEvent(t, conn).Op)

	require.NoError(t, conn.WriteJSON(Event{Op: OpHeartbeat}))
	assert.Equal(t, OpHeartbeatAck, readEvent(t, conn).Op)

	conn.Close()
	waitOnline(t, hub, 0)
	srv.Close()
	cancel()
	<-hub.Done()
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	hub, srv, cancel := startServer(t)
	defer srv.Close()

	conn := dial(t, srv, "tok-a")
	defer conn.Close()
	assert.Equal(t, OpReady, readEvent(t, conn).Op)
	waitOnline(t, hub, 1)

	cancel()
	<-hub.Done()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Empty(t, hub.OnlineUserIDs())
}
