package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"photo-quiz-service/internal/app"
	"photo-quiz-service/internal/domain"
)

const wsWriteWait = 10 * time.Second

// WSHandler streams question collection changes to admin pages.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and forwards change events until the client goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	// server read/write timeouts carry over to the hijacked connection
	_ = conn.SetReadDeadline(time.Time{})

	events, cancel := h.service.Subscribe(r.Context())
	defer cancel()

	// The read loop only detects the client closing; admin clients never send.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, outboundMessage[struct{}]{Type: "ready"}); err != nil {
		return
	}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, outboundMessage[domain.ChangeEvent]{Type: "change", Payload: ev}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *WSHandler) write(conn *websocket.Conn, msg any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}
