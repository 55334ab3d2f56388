package controllers

import (
	"io"
	"time"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/events"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// keepAliveInterval is how often an idle stream gets a ping
var keepAliveInterval = 25 * time.Second

// streamEvents subscribes to topics and writes every event as SSE until
// the client goes away
func streamEvents(c *gin.Context, hub *events.Hub, topics ...string) {
	ch, cancel := hub.Subscribe(topics, 32)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{Id: ev.OrderID, Event: string(ev.Type), Data: ev})
			return true
		case <-ticker.C:
			c.Render(-1, sse.Event{Event: "ping", Data: time.Now().UTC().Format(time.RFC3339)})
			return true
		}
	})
}
