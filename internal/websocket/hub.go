package websocket

import (
	"context"
	"time"

	"codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/logger"
)

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:       make(map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		inbound:       make(chan *Message, 256),
		handlers:      make(map[string]MessageHandler),
		ctx:           ctx,
		cancel:        cancel,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		shutdownGrace: defaultShutdownGrace,
		ipConnections: make(map[string]int),
	}
}

// registers a handler for a specific message type
func (h *Hub) RegisterHandler(messageType string, handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[messageType] = handler
}

// starts the hub's main loop, returns after Shutdown
func (h *Hub) Run() {
	h.started.Store(true)
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.inbound:
			h.handleMessage(message)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// hands a client to the hub, false once the hub has stopped
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.shutdown:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.shutdown:
	}
}

// queues an inbound message, false once the hub has stopped
func (h *Hub) Submit(msg *Message) bool {
	// inbound is buffered, so check shutdown first
	select {
	case <-h.shutdown:
		return false
	default:
	}

	select {
	case h.inbound <- msg:
		return true
	case <-h.shutdown:
		return false
	}
}

// adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]++
	}
	h.mu.Unlock()

	logger.Info("chat client registered",
		"client_id", client.ID,
		"conversation_id", client.ConversationID(),
	)

	connectedMsg, err := NewMessage(TypeConnected, client.ConversationID(), ConnectedPayload{
		ClientID:       client.ID,
		ConversationID: client.ConversationID(),
	})
	if err == nil {
		if sendErr := client.Send(connectedMsg); sendErr != nil {
			logger.ErrorErr(sendErr, "failed to send connected message",
				"client_id", client.ID,
			)
		}
	}
}

// removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID]; !exists {
		return
	}

	delete(h.clients, client.ID)
	client.Close()

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	logger.Info("chat client unregistered", "client_id", client.ID)
}

// processes an incoming message
func (h *Hub) handleMessage(msg *Message) {
	h.mu.RLock()
	sender, exists := h.clients[msg.ClientID]
	handler, handled := h.handlers[msg.Type]
	h.mu.RUnlock()

	if !exists {
		logger.Warn("sender client not found for message",
			"client_id", msg.ClientID,
			"message_type", msg.Type,
		)
		return
	}

	if !handled {
		logger.Warn("unhandled message type received",
			"message_type", msg.Type,
			"client_id", sender.ID,
		)

		sender.SendError(errors.CodeBadRequest, "unsupported message type", "message type not recognized")
		return
	}

	// run handler asynchronously to avoid blocking the hub
	h.handlersWG.Add(1)
	go func() {
		defer h.handlersWG.Done()

		if err := handler(h, sender, msg); err != nil {
			logger.ErrorErr(err, "handler error",
				"message_type", msg.Type,
				"client_id", sender.ID,
			)

			sender.SendError(errors.CodeServerError, "failed to process message", err.Error())
		}
	}()
}

// returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// checks if a new connection from ipAddress should be allowed
func (h *Hub) CanAcceptConnection(ipAddress string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ipConnections[ipAddress] < maxConnectionsPerIP
}

// stops the hub and waits for in-flight handlers; safe to call more than once
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})

	if h.started.Load() {
		<-h.done
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.RLock()

	logger.Info("notifying chat clients of server shutdown", "clients", len(h.clients))

	for _, client := range h.clients {
		shutdownMsg, err := NewMessage(TypeServerShutdown, client.ConversationID(), ServerShutdownPayload{
			Reason: "server is shutting down for maintenance",
		})
		if err != nil {
			logger.ErrorErr(err, "failed to create shutdown message")
			continue
		}

		if err := client.Send(shutdownMsg); err != nil {
			logger.Debug("failed to send shutdown notification", "client_id", client.ID, "error", err)
		}
	}

	h.mu.RUnlock()

	// give clients time to receive the shutdown message
	if h.shutdownGrace > 0 {
		time.Sleep(h.shutdownGrace)
	}

	h.cancel()
	h.handlersWG.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("closing all websocket connections")

	for _, client := range h.clients {
		client.Close()
	}

	h.clients = make(map[string]*Client)
	h.ipConnections = make(map[string]int)
}
