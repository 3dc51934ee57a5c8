// Package logging provides the log broadcaster for real-time log streaming.
package logging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LogEntry represents a single log entry to be sent to a sysop client.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Channel   string `json:"channel"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// Client represents a single connected log stream listener.
type Client struct {
	id      string
	Channel chan []byte
	filters AppliedFilters
}

// AppliedFilters defines the filtering criteria for a client.
type AppliedFilters struct {
	Channel Channel    // "all" matches every channel
	Level   slog.Level // minimum level delivered
}

// LogBroadcaster manages clients and broadcasts log messages.
type LogBroadcaster struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
	stop       chan struct{}
	stopOnce   sync.Once
}

var (
	broadcaster *LogBroadcaster
	once        sync.Once
)

// GetBroadcaster initializes and returns the singleton LogBroadcaster instance.
func GetBroadcaster() *LogBroadcaster {
	once.Do(func() {
		broadcaster = newLogBroadcaster()
		go broadcaster.run()
	})
	return broadcaster
}

func newLogBroadcaster() *LogBroadcaster {
	return &LogBroadcaster{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 1000),
		stop:       make(chan struct{}),
	}
}

// run is the central loop that manages the broadcaster's state and operations.
// It deliberately avoids logging through slog to prevent feedback loops.
func (b *LogBroadcaster) run() {
	for {
		select {
		case <-b.stop:
			return
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Channel)
			}
			b.mu.Unlock()
		case message := <-b.broadcast:
			b.distribute(message)
		}
	}
}

// distribute sends a log message to all clients whose filters match.
func (b *LogBroadcaster) distribute(message []byte) {
	var entry LogEntry
	if err := json.Unmarshal(message, &entry); err != nil {
		return
	}

	var entryLevel slog.Level
	if err := entryLevel.UnmarshalText([]byte(entry.Level)); err != nil {
		entryLevel = slog.LevelInfo
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for client := range b.clients {
		channelMatch := client.filters.Channel == "all" || client.filters.Channel == Channel(entry.Channel)
		levelMatch := entryLevel >= client.filters.Level

		if channelMatch && levelMatch {
			select {
			case client.Channel <- message:
			default:
				// slow listener, drop
			}
		}
	}
}

// SubmitLog is the public method used by the logger to send a log entry to the broadcaster.
func (b *LogBroadcaster) SubmitLog(entry LogEntry) {
	message, err := json.Marshal(entry)
	if err != nil {
		return
	}

	select {
	case b.broadcast <- message:
	default:
		// Dropped under heavy load rather than blocking the logging call
	}
}

// NewClient creates a new client for the broadcaster.
func (b *LogBroadcaster) NewClient(filters AppliedFilters) *Client {
	return &Client{
		id:      fmt.Sprintf("%d", time.Now().UnixNano()),
		Channel: make(chan []byte, 100),
		filters: filters,
	}
}

// Shutdown gracefully stops the broadcaster.
func (b *LogBroadcaster) Shutdown() {
	b.stopOnce.Do(func() { close(b.stop) })
}

// RegisterClient is the public method for adding a new client.
func (b *LogBroadcaster) RegisterClient(client *Client) {
	select {
	case b.register <- client:
	case <-b.stop:
	}
}

// UnregisterClient is the public method for removing a client.
func (b *LogBroadcaster) UnregisterClient(client *Client) {
	select {
	case b.unregister <- client:
	case <-b.stop:
	}
}
