package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type ChatHandler struct {
	assistant services.AssistantService
	upgrader  websocket.Upgrader
}

func NewChatHandler(assistant services.AssistantService) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type chatClientMsg struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

type chatServerMsg struct {
	Type    string     `json:"type"`
	Result  string     `json:"result,omitempty"`
	Code    utils.Code `json:"code,omitempty"`
	Message string     `json:"message,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

// Chat runs the grounded Q&A loop over a websocket. Anonymous connections
// are allowed; their history lives under the shared anonymous identity.
func (h *ChatHandler) Chat(c *gin.Context) {
	identity := optionalUsername(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx := c.Request.Context()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		var msg chatClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(chatServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "invalid json"})
			continue
		}

		switch msg.Type {
		case "ask":
			if strings.TrimSpace(msg.Query) == "" {
				_ = wc.writeJSON(chatServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "le champ 'query' est obligatoire"})
				continue
			}

			_ = wc.writeJSON(chatServerMsg{Type: "status", Message: "processing"})

			answer, aerr := h.assistant.Ask(ctx, identity, msg.Query)
			if aerr != nil {
				_ = wc.writeJSON(chatServerMsg{Type: "error", Code: errCode(aerr), Message: utils.Message(aerr)})
				continue
			}
			_ = wc.writeJSON(chatServerMsg{Type: "answer", Result: answer})

		case "ping":
			_ = wc.writeJSON(chatServerMsg{Type: "pong"})

		default:
			_ = wc.writeJSON(chatServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "unknown message type"})
		}
	}
}

func errCode(err error) utils.Code {
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return utils.CodeInternal
}
