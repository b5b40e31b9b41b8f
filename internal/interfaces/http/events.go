package httpinterface

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pasta-science/marketd/internal/core/application"
	"github.com/pasta-science/marketd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const (
	clientBufferSize = 32
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
)

type eventMessage struct {
	event   string
	payload string
}

type eventsClient struct {
	conn   *websocket.Conn
	event  string
	sendCh chan eventMessage
	once   *sync.Once
	quitCh chan struct{}
}

func (c *eventsClient) close() {
	c.once.Do(func() {
		close(c.quitCh)
	})
}

// eventsHub streams the published events to websocket clients. Clients that
// can't keep up with the stream are disconnected.
type eventsHub struct {
	pubsub   application.PubSubService
	upgrader websocket.Upgrader

	lock    *sync.Mutex
	clients map[*eventsClient]func()
}

func newEventsHub(pubsubSvc application.PubSubService) *eventsHub {
	return &eventsHub{
		pubsub: pubsubSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		lock:    &sync.Mutex{},
		clients: make(map[*eventsClient]func()),
	}
}

func (h *eventsHub) handleEvents(w http.ResponseWriter, r *http.Request) {
	event := r.URL.Query().Get("event")
	if event == ports.AnyTopic {
		event = ports.UnspecifiedTopic
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("http: failed to upgrade events connection")
		return
	}

	client := &eventsClient{
		conn:   conn,
		event:  event,
		sendCh: make(chan eventMessage, clientBufferSize),
		once:   &sync.Once{},
		quitCh: make(chan struct{}),
	}
	h.add(client)

	go h.writeLoop(client)
	h.readLoop(client)
}

func (h *eventsHub) add(c *eventsClient) {
	unregister := h.pubsub.RegisterObserver(func(event, message string) {
		if c.event != "" && c.event != event {
			return
		}
		select {
		case c.sendCh <- eventMessage{event, message}:
		default:
			log.Debug("http: dropping slow events client")
			c.close()
		}
	})

	h.lock.Lock()
	h.clients[c] = unregister
	h.lock.Unlock()
}

func (h *eventsHub) remove(c *eventsClient) {
	h.lock.Lock()
	unregister, ok := h.clients[c]
	delete(h.clients, c)
	h.lock.Unlock()

	if ok {
		unregister()
	}
	c.close()
}

// readLoop only consumes control frames, the stream is one way.
func (h *eventsHub) readLoop(c *eventsClient) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	//nolint
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			) {
				log.WithError(err).Debug("http: events connection dropped")
			}
			return
		}
	}
}

func (h *eventsHub) writeLoop(c *eventsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.quitCh:
			//nolint
			c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			return
		case msg := <-c.sendCh:
			//nolint
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(
				websocket.TextMessage, []byte(msg.payload),
			); err != nil {
				return
			}
		case <-ticker.C:
			//nolint
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *eventsHub) close() {
	h.lock.Lock()
	clients := make([]*eventsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.lock.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}
