package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// sendBuffer bounds how many events may wait for a slow websocket peer.
const sendBuffer = 16

// wsClient implements realtime.Client by queueing messages for the connection's writer.
// Send never blocks; when the queue is full the message is dropped for this client.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *wsClient) Send(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *wsClient) Close() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// writeLoop is the connection's only writer: queued events and heartbeat pings.
func (c *wsClient) writeLoop(ping time.Duration) {
	ticker := time.NewTicker(ping)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				c.Close()
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same open CORS policy as the JSON endpoints.
		return true
	},
}

// EventsHandler handles GET /events?collection=<name>
// Upgrades to a websocket and streams change events; without a collection
// the client receives events for every collection.
func EventsHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Query("collection")
		switch collection {
		case realtime.AllCollections, UsersCollection, ToolsCollection:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown collection"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("websocket upgrade error:", err)
			return
		}

		client := newWSClient(conn)
		hub.Register(collection, client)
		go client.writeLoop(30 * time.Second)
		defer func() {
			hub.Unregister(collection, client)
			client.Close()
		}()

		conn.SetReadLimit(1024)
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
