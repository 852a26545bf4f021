// Package ws streams a GenerativeSession's clue-by-clue progress over a
// WebSocket, the interactive counterpart to the batch /api/generate
// endpoint.
//
// Grounded on sentra-language-sentra/internal/network/websocket_server.go,
// the only pack repo built on gorilla/websocket: its per-connection mutex
// and closed flag guarding concurrent writes to one *websocket.Conn is
// reused here (one connection per session, so no client map is needed).
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/scorer"
	"github.com/joshhills/logic-puzzle-generator/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsConn wraps a gorilla connection with the write-mutex/closed-flag
// pattern websocket_server.go's WebSocketConn uses to guard concurrent
// writes.
type wsConn struct {
	ws     *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteJSON(v)
}

func (c *wsConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.ws.Close()
}

// clientCommand is one inbound message: "start" begins a fresh session,
// "next" pulls the next clue, "stop" ends the stream.
type clientCommand struct {
	Action       string          `json:"action"`
	Categories   []core.Category `json:"categories,omitempty"`
	AllowedTypes []clue.Type     `json:"allowed_types,omitempty"`
	TargetFact   *targetFactMsg  `json:"target_fact,omitempty"`
	Seed         int64           `json:"seed,omitempty"`
}

type targetFactMsg struct {
	Cat1, Val1, Cat2 string
}

// RegisterRoutes mounts the streaming endpoint onto r.
func RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/session", streamHandler)
}

func streamHandler(c *gin.Context) {
	raw, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn := &wsConn{ws: raw}
	defer conn.close()

	var sess *session.Session

	for {
		var cmd clientCommand
		if err := conn.ws.ReadJSON(&cmd); err != nil {
			return
		}

		switch cmd.Action {
		case "start":
			var target *scorer.TargetFact
			if cmd.TargetFact != nil {
				target = &scorer.TargetFact{Cat1: cmd.TargetFact.Cat1, Val1: cmd.TargetFact.Val1, Cat2: cmd.TargetFact.Cat2}
			}
			allowed := make(clue.AllowedTypes, len(cmd.AllowedTypes))
			for _, t := range cmd.AllowedTypes {
				allowed[t] = true
			}
			s, err := session.Start(cmd.Categories, allowed, target, cmd.Seed)
			if err != nil {
				conn.writeJSON(gin.H{"event": "error", "message": err.Error()})
				continue
			}
			sess = s
			conn.writeJSON(gin.H{"event": "started", "percent_complete": sess.CurrentGrid().PercentComplete()})

		case "next":
			if sess == nil {
				conn.writeJSON(gin.H{"event": "error", "message": "session not started"})
				continue
			}
			picked, solved, err := sess.GetNextClue(session.Constraints{})
			if err != nil {
				conn.writeJSON(gin.H{"event": "error", "message": err.Error()})
				continue
			}
			payload, _ := json.Marshal(picked)
			conn.writeJSON(gin.H{
				"event":            "clue",
				"clue":             json.RawMessage(payload),
				"percent_complete": sess.CurrentGrid().PercentComplete(),
				"solved":           solved,
			})
			if solved {
				conn.writeJSON(gin.H{"event": "solved", "solution": sess.GetSolution()})
			}

		case "stop":
			conn.writeJSON(gin.H{"event": "stopped"})
			return

		default:
			conn.writeJSON(gin.H{"event": "error", "message": "unknown action"})
		}
	}
}
