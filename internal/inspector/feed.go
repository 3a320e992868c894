package inspector

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// feed fans messages out to websocket clients.
type feed struct {
	log      *slog.Logger
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*client
	upgrader websocket.Upgrader
}

type client struct {
	mu   sync.Mutex
	sent uint64 // highest Seq written
}

func newFeed(log *slog.Logger) *feed {
	return &feed{
		log:     log,
		clients: make(map[*websocket.Conn]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // local development tool
			},
		},
	}
}

// serve upgrades the request, sends replay, then holds the connection until
// the client goes away.
func (f *feed) serve(w http.ResponseWriter, req *http.Request, replay func() []Message) {
	conn, err := f.upgrader.Upgrade(w, req, nil)
	if err != nil {
		f.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	c := &client{}

	// Live messages wait on c.mu until the replay is written.
	c.mu.Lock()
	f.mu.Lock()
	f.clients[conn] = c
	f.mu.Unlock()
	for _, msg := range replay() {
		if err := f.write(conn, msg); err != nil {
			c.mu.Unlock()
			f.drop(conn)
			return
		}
		c.sent = msg.Seq
	}
	c.mu.Unlock()
	f.log.Debug("feed client connected", "remote", req.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	f.drop(conn)
}

func (f *feed) write(conn *websocket.Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// broadcast sends msg to every client, dropping those that fail.
func (f *feed) broadcast(msg Message) {
	f.mu.RLock()
	clients := make(map[*websocket.Conn]*client, len(f.clients))
	for conn, c := range f.clients {
		clients[conn] = c
	}
	f.mu.RUnlock()

	for conn, c := range clients {
		c.mu.Lock()
		var err error
		if msg.Seq > c.sent {
			err = f.write(conn, msg)
			c.sent = msg.Seq
		}
		c.mu.Unlock()
		if err != nil {
			f.log.Debug("dropping feed client", "error", err)
			f.drop(conn)
		}
	}
}

func (f *feed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	delete(f.clients, conn)
	f.mu.Unlock()
	conn.Close()
}

func (f *feed) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		conn.Close()
		delete(f.clients, conn)
	}
}
