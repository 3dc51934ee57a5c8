package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
)

func startBroadcaster(t *testing.T) (*ViewBroadcaster, context.CancelFunc) {
	t.Helper()
	b := NewViewBroadcaster(logging.NewDiscardLogger(), metrics.NewCollector("test"))
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)
	t.Cleanup(cancel)
	return b, cancel
}

func TestViewBroadcaster_PublishReachesSessionOnly(t *testing.T) {
	// Arrange
	b, _ := startBroadcaster(t)
	mine := NewViewClient(nil, "s1", 4)
	other := NewViewClient(nil, "s2", 4)
	b.Register(mine)
	b.Register(other)
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 && b.ClientCount("s2") == 1 },
		time.Second, 5*time.Millisecond)

	// Act
	b.Publish("s1", session.View{SessionID: "s1", Theme: session.ThemeDark, Status: session.Banner{Visible: true, Message: "hello"}})

	// Assert
	select {
	case raw := <-mine.Send:
		var msg ViewMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MessageTypeView, msg.Type)
		assert.Equal(t, "hello", msg.Data.Status.Message)
		assert.Equal(t, session.ThemeDark, msg.Data.Theme)
	case <-time.After(time.Second):
		t.Fatal("view was not delivered")
	}
	assert.Empty(t, other.Send)
}

func TestViewBroadcaster_UnregisterClosesSend(t *testing.T) {
	b, _ := startBroadcaster(t)
	client := NewViewClient(nil, "s1", 1)
	b.Register(client)
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 }, time.Second, 5*time.Millisecond)

	b.Disconnect("s1")

	require.Eventually(t, func() bool { return b.ClientCount("s1") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)
}

func TestViewBroadcaster_FullBufferDropsMessage(t *testing.T) {
	b, _ := startBroadcaster(t)
	client := NewViewClient(nil, "s1", 1)
	b.Register(client)
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 }, time.Second, 5*time.Millisecond)

	b.Publish("s1", session.View{Expression: "first"})
	b.Publish("s1", session.View{Expression: "second"})

	var msg ViewMessage
	require.NoError(t, json.Unmarshal(<-client.Send, &msg))
	assert.Equal(t, "first", msg.Data.Expression)
	assert.Empty(t, client.Send)
}

func TestViewBroadcaster_StoppedRejectsRegistration(t *testing.T) {
	b, cancel := startBroadcaster(t)
	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-b.done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	client := NewViewClient(nil, "s1", 1)
	b.Register(client)

	_, open := <-client.Send
	assert.False(t, open)
}

func TestViewClient_PumpsOverWebSocket(t *testing.T) {
	// Arrange
	b, _ := startBroadcaster(t)
	logger := logging.NewDiscardLogger()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewViewClient(conn, "s1", 4)
		b.Register(client)
		go client.WritePump(time.Second, 0, logger)
		client.ReadPump(b, logger)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 1 }, time.Second, 5*time.Millisecond)

	// Act
	b.Publish("s1", session.View{Expression: "A & B"})

	// Assert
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg ViewMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "A & B", msg.Data.Expression)

	conn.Close()
	require.Eventually(t, func() bool { return b.ClientCount("s1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
