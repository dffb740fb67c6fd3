package httpapi

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/korylprince/twin-client/chatbot"
	"github.com/sirupsen/logrus"
)

//eventsClient is one connected panel. Writes are serialized by mu.
type eventsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *eventsClient) write(msg chatbot.ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

//eventsHandler serves the session over a WebSocket. On connect it replays the thread
//and status, then sends every turn's messages to all connected clients as they happen.
type eventsHandler struct {
	sess     *chatbot.Session
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*eventsClient]struct{}
}

func newEventsHandler(sess *chatbot.Session, log logrus.FieldLogger, allowedOrigins []string) *eventsHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &eventsHandler{
		sess: sess,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
		clients: make(map[*eventsClient]struct{}),
	}
}

//ServeHTTP handles the WebSocket upgrade and chat flow
func (h *eventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.WithField("remote_addr", r.RemoteAddr)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	client := &eventsClient{conn: conn}

	log.Info("events client connected")
	defer log.Info("events client disconnected")

	//registered before the replay so no turn falls between the two
	client.mu.Lock()
	h.register(client)
	defer h.unregister(client)
	ok := h.replay(client)
	client.mu.Unlock()
	if !ok {
		return
	}

	//a closed socket doesn't cancel an answer already on its way
	ctx := context.WithoutCancel(r.Context())

	for {
		var clientMsg chatbot.ClientMessage
		if err := conn.ReadJSON(&clientMsg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("Failed to read message")
			}
			return
		}

		h.serveTurn(ctx, client, clientMsg.Message)
	}
}

func (h *eventsHandler) register(c *eventsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *eventsHandler) unregister(c *eventsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

//replay sends every message in the thread and the current status, followed by done.
//The caller holds c.mu.
func (h *eventsHandler) replay(c *eventsClient) bool {
	send := func(msg chatbot.ServerMessage) bool {
		if err := c.conn.WriteJSON(msg); err != nil {
			h.log.WithError(err).WithField("type", msg.Type).Warn("Failed to write message")
			return false
		}
		return true
	}

	for _, m := range h.sess.Thread.Messages() {
		m := m
		if !send(chatbot.ServerMessage{Type: chatbot.MessageTypeMessage, Message: &m}) {
			return false
		}
	}

	if s := h.sess.Status.Current(); s != nil {
		if !send(chatbot.ServerMessage{Type: chatbot.MessageTypeStatus, Status: s}) {
			return false
		}
	}

	return send(chatbot.ServerMessage{Type: chatbot.MessageTypeDone})
}

//serveTurn runs one submission. A rejection is only sent to the submitting client;
//an accepted turn is broadcast and always completed, even if every client has gone away.
func (h *eventsHandler) serveTurn(ctx context.Context, from *eventsClient, input string) {
	turn, err := h.sess.Orchestrator.Begin(input)
	if err != nil {
		h.send(from, chatbot.ServerMessage{Type: chatbot.MessageTypeError, Error: err.Error()})
		return
	}

	user := turn.User
	h.broadcast(chatbot.ServerMessage{Type: chatbot.MessageTypeMessage, Message: &user})
	h.broadcast(chatbot.ServerMessage{Type: chatbot.MessageTypePending})

	reply := h.sess.Orchestrator.Await(ctx, turn)

	h.broadcast(chatbot.ServerMessage{Type: chatbot.MessageTypeMessage, Message: reply})
	h.broadcast(chatbot.ServerMessage{Type: chatbot.MessageTypeDone})
}

//broadcast sends msg to every connected client
func (h *eventsHandler) broadcast(msg chatbot.ServerMessage) {
	h.mu.Lock()
	clients := make([]*eventsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.send(c, msg)
	}
}

//send writes msg to c. On failure the connection is closed, which ends its read loop.
func (h *eventsHandler) send(c *eventsClient, msg chatbot.ServerMessage) bool {
	if err := c.write(msg); err != nil {
		h.log.WithError(err).WithField("type", msg.Type).Warn("Failed to write message")
		c.conn.Close()
		return false
	}
	return true
}
