package chat

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Two tabs of one browser share the client cookie but must be tracked
// as separate sessions, or one tab's teardown would stop liveness
// sweeping for the other.
func TestHandleChatTracksEachConnection(t *testing.T) {
	ctl := newTestController(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("client_token", "shared-browser-cookie")
		ctl.HandleChat(context.Background(), c)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial first: %v", err)
	}
	defer first.Close()
	second, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial second: %v", err)
	}
	defer second.Close()

	// Track runs in the handler after the handshake response; poll
	// briefly rather than racing it.
	deadline := time.Now().Add(2 * time.Second)
	for ctl.sweeper.Len() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("tracked connections = %d, want 2", ctl.sweeper.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
