package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
)

// MessageTypeView tags a pushed view model.
const MessageTypeView = "VIEW"

// ViewMessage is the envelope written to the socket.
type ViewMessage struct {
	Type      string       `json:"type"`
	Timestamp int64        `json:"timestamp"`
	Data      session.View `json:"data"`
}

// ViewBroadcaster manages the live-view connections of every session.
type ViewBroadcaster struct {
	sessionClients map[string]map[*ViewClient]bool
	register       chan *ViewClient
	unregister     chan *ViewClient
	done           chan struct{}
	stopOnce       sync.Once
	logger         *logging.ChanneledLogger
	metrics        *metrics.Collector
	mu             sync.RWMutex
}

// NewViewBroadcaster creates a new broadcaster instance.
func NewViewBroadcaster(logger *logging.ChanneledLogger, collector *metrics.Collector) *ViewBroadcaster {
	return &ViewBroadcaster{
		sessionClients: make(map[string]map[*ViewClient]bool),
		register:       make(chan *ViewClient),
		unregister:     make(chan *ViewClient),
		done:           make(chan struct{}),
		logger:         logger,
		metrics:        collector,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *ViewBroadcaster) Run(ctx context.Context) {
	defer b.stop()

	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			if _, ok := b.sessionClients[client.SessionID]; !ok {
				b.sessionClients[client.SessionID] = make(map[*ViewClient]bool)
			}
			b.sessionClients[client.SessionID][client] = true
			b.mu.Unlock()
			b.logger.WithSession(logging.ChannelWebSocket, client.SessionID).Debug("View client registered")

		case client := <-b.unregister:
			b.removeClient(client)
			b.logger.WithSession(logging.ChannelWebSocket, client.SessionID).Debug("View client unregistered")

		case <-ctx.Done():
			b.closeAll()
			b.logger.WebSocket().Info("View broadcaster stopped")
			return
		}
	}
}

// Register queues a client for registration.
func (b *ViewBroadcaster) Register(client *ViewClient) {
	select {
	case b.register <- client:
	case <-b.done:
		client.closeSend()
	}
}

// Unregister queues a client for unregistration.
func (b *ViewBroadcaster) Unregister(client *ViewClient) {
	select {
	case b.unregister <- client:
	case <-b.done:
	}
}

// Publish sends the view to every connection of the session. Slow clients
// miss the message rather than block the caller.
func (b *ViewBroadcaster) Publish(sessionID string, view session.View) {
	b.mu.RLock()
	clients := len(b.sessionClients[sessionID])
	b.mu.RUnlock()
	if clients == 0 {
		return
	}

	message, err := json.Marshal(ViewMessage{
		Type:      MessageTypeView,
		Timestamp: time.Now().Unix(),
		Data:      view,
	})
	if err != nil {
		b.logger.LogError(logging.ChannelWebSocket, "marshal view", err, sessionID, nil)
		return
	}

	delivered := 0
	b.mu.RLock()
	for client := range b.sessionClients[sessionID] {
		select {
		case client.Send <- message:
			delivered++
		default:
			b.logger.WithSession(logging.ChannelWebSocket, sessionID).Warn("View client send buffer full, message dropped")
		}
	}
	b.mu.RUnlock()

	for i := 0; i < delivered; i++ {
		b.metrics.ViewPushed()
	}
}

// ClientCount returns the number of open connections of a session.
func (b *ViewBroadcaster) ClientCount(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessionClients[sessionID])
}

// TotalClients counts the open connections of all sessions.
func (b *ViewBroadcaster) TotalClients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	for _, clients := range b.sessionClients {
		total += len(clients)
	}
	return total
}

// Disconnect closes every connection of a session, used when it is evicted.
func (b *ViewBroadcaster) Disconnect(sessionID string) {
	b.mu.RLock()
	clients := make([]*ViewClient, 0, len(b.sessionClients[sessionID]))
	for client := range b.sessionClients[sessionID] {
		clients = append(clients, client)
	}
	b.mu.RUnlock()

	for _, client := range clients {
		b.Unregister(client)
	}
}

func (b *ViewBroadcaster) removeClient(client *ViewClient) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if clients, ok := b.sessionClients[client.SessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			client.closeSend()
			if len(clients) == 0 {
				delete(b.sessionClients, client.SessionID)
			}
		}
	}
}

func (b *ViewBroadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sessionID, clients := range b.sessionClients {
		for client := range clients {
			client.closeSend()
		}
		delete(b.sessionClients, sessionID)
	}
}

func (b *ViewBroadcaster) stop() {
	b.stopOnce.Do(func() { close(b.done) })
}
