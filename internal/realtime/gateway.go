package realtime

import (
	"net/http"
	"sync"

	"github.com/clinibook/clinic-booking-platform/pkg/logging"
	"golang.org/x/net/websocket"
)

// InboundMessage is what a connected frontend sends.
type InboundMessage struct {
	Type string `json:"type"` // "register-doctor", "register-client", "ping"
	ID   string `json:"id"`
}

// OutboundControl answers control-frame sends (pong, errors). Lifecycle
// events go out as Event envelopes instead.
type OutboundControl struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// wsSession adapts a websocket connection to the hub's Session interface.
// websocket.JSON.Send is not safe for concurrent writers, so sends serialize
// behind a mutex.
type wsSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSession) Send(evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return websocket.JSON.Send(s.conn, evt)
}

func (s *wsSession) sendControl(msg OutboundControl) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return websocket.JSON.Send(s.conn, msg)
}

// Gateway terminates websocket connections and feeds registrations into the
// hub. One connection may register as any number of identities; all of them
// are pruned when the connection drops.
type Gateway struct {
	hub    *Hub
	logger *logging.Logger
}

// NewGateway creates a gateway over the hub.
func NewGateway(hub *Hub, logger *logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{hub: hub, logger: logger}
}

// HandleWebSocket upgrades to WebSocket and serves the registration loop.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		g.serveWS(conn)
	}).ServeHTTP(w, r)
}

func (g *Gateway) serveWS(conn *websocket.Conn) {
	sess := &wsSession{conn: conn}
	defer g.hub.Unregister(sess)

	g.logger.Info("realtime: connection opened", "remote", conn.Request().RemoteAddr)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			g.logger.Debug("realtime: connection closed", "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = sess.sendControl(OutboundControl{Type: "pong"})
		case "register-doctor":
			if msg.ID == "" {
				_ = sess.sendControl(OutboundControl{Type: "error", Text: "missing id"})
				continue
			}
			g.hub.Register(RoleDoctor, msg.ID, sess)
		case "register-client":
			if msg.ID == "" {
				_ = sess.sendControl(OutboundControl{Type: "error", Text: "missing id"})
				continue
			}
			g.hub.Register(RoleClient, msg.ID, sess)
		default:
			// Unknown frames are ignored so frontend additions stay
			// backward compatible.
		}
	}
}
