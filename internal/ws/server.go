package ws

import (
	"net/http"
	"time"

	"chatrelay/internal/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second // must be < pongWait

	// JSON framing headroom on top of the file payload ceiling.
	readLimit = chat.MaxFileSize + 64*1024
)

type WsServer struct {
	hub      *chat.Hub
	upgrader websocket.Upgrader
}

func NewWsServer(hub *chat.Hub) *WsServer {
	return &WsServer{
		hub: hub,
		upgrader: websocket.Upgrader{
			// Cross-origin policy lives in the HTTP layer's CORS middleware.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

// Handle upgrades the request and runs the join protocol. The upgrade comes
// before parameter validation so a missing roomId/username can be answered
// with a 400 error envelope over the socket before closing it.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	room := ginCtx.Query("roomId")
	username := ginCtx.Query("username")

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(readLimit)

	conn := newClientConn(rawConn)
	if room == "" || username == "" {
		s.hub.SendError(conn, "Room and username parameters are required.", 400)
		_ = conn.Close()
		return
	}

	zap.L().Info("ws.connect",
		zap.String("room", room), zap.String("user", username), zap.String("conn", conn.ID()))

	// ─────────────────── Client joined ────────────────────────
	s.hub.Join(conn, room, username)

	go s.reader(conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) reader(conn *clientConn) {
	defer func() {
		s.hub.ConnectionClosed(conn)
		_ = conn.Close()
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.rawConn.ReadMessage()
		if err != nil {
			return // client closed or errored
		}
		s.hub.HandleInbound(conn, payload)
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			_ = conn.Close()
			return
		}
	}
}
