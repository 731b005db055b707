package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// SSEMessage tells connected dashboards that the record set changed and they
// should re-query.
type SSEMessage struct {
	Version     uint64 `json:"version"`
	TotalImages int    `json:"totalImages"`
}

// SSEBroker manages SSE client connections and broadcasts snapshot updates.
type SSEBroker struct {
	logger  *slog.Logger
	clients map[chan []byte]struct{}
	mu      sync.RWMutex
	updates chan SSEMessage
}

// NewSSEBroker creates a new SSEBroker and starts its processing loop.
func NewSSEBroker(ctx context.Context, logger *slog.Logger) *SSEBroker {
	broker := &SSEBroker{
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
		updates: make(chan SSEMessage, 64),
	}
	go broker.run(ctx)
	return broker
}

// ServeHTTP handles new client connections for the SSE stream.
func (b *SSEBroker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	messageChan := make(chan []byte, 4)
	b.addClient(messageChan)
	defer b.removeClient(messageChan)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messageChan:
			if !ok {
				return // Channel was closed
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// ReportSnapshot is called after a refresh or upload changed the record set.
func (b *SSEBroker) ReportSnapshot(version uint64, totalImages int) {
	select {
	case b.updates <- SSEMessage{Version: version, TotalImages: totalImages}:
	default:
		// Channel is full, drop the report to avoid blocking the caller.
		b.logger.Warn("SSE update channel is full, dropping report")
	}
}

func (b *SSEBroker) addClient(client chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[client] = struct{}{}
	b.logger.Info("SSE client connected")
}

func (b *SSEBroker) removeClient(client chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client)
		b.logger.Info("SSE client disconnected")
	}
}

func (b *SSEBroker) broadcast(msg []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client <- msg:
		default:
			// Client channel is full, maybe slow client.
			// We don't block the broadcast for one slow client.
		}
	}
}

func (b *SSEBroker) run(ctx context.Context) {
	var lastVersion uint64
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.updates:
			// Collapse duplicate reports for the same state version.
			if msg.Version == lastVersion {
				continue
			}
			lastVersion = msg.Version

			jsonData, err := json.Marshal(msg)
			if err != nil {
				b.logger.Error("Failed to marshal SSE message", "error", err)
				continue
			}
			b.broadcast(jsonData)
		}
	}
}
