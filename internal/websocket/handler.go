package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection with the hub and blocks until it closes.
// initial frames are queued before any hub traffic.
func ServeWs(hub *Hub, c *websocket.Conn, workspaceID string, initial ...[]byte) {
	client := &Client{Hub: hub, Conn: c, WorkspaceID: workspaceID, Send: make(chan []byte, 256)}
	for _, f := range initial {
		client.Send <- f
	}
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
