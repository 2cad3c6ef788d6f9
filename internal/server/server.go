package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ctchen222/tictactoe/internal/api/controller"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/events"
)

const (
	heartbeatInterval = 10 * time.Second
	writeWait         = 5 * time.Second
	pongWait          = 2 * heartbeatInterval
)

var tracer = otel.Tracer("server")

// Subscriber hands out event streams.
type Subscriber interface {
	Subscribe() (<-chan events.Event, func())
}

type Server struct {
	engine   *gin.Engine
	upgrader websocket.Upgrader
	users    service.UserService
	events   Subscriber
}

// NewServer builds the HTTP API on a gin engine.
func NewServer(
	users service.UserService,
	userController *controller.UserController,
	sessionController *controller.SessionController,
	leaderboardController *controller.LeaderboardController,
	subscriber Subscriber,
) *Server {
	s := &Server{
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		users:  users,
		events: subscriber,
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.registerHandlers(userController, sessionController, leaderboardController)
	return s
}

// Engine returns the http.Handler serving the API.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers(uc *controller.UserController, sc *controller.SessionController, lc *controller.LeaderboardController) {
	api := s.engine.Group("/api")

	users := api.Group("/users")
	users.POST("/register", uc.Register)
	users.POST("/login", uc.Login)
	users.POST("/guest", uc.GuestLogin)

	api.GET("/leaderboard", lc.Top)

	sessions := api.Group("/session", s.authenticate())
	sessions.POST("", sc.Start)
	sessions.GET("", sc.View)
	sessions.DELETE("", sc.End)
	sessions.POST("/moves", sc.Move)
	sessions.POST("/computer-move", sc.ComputerMove)
	sessions.POST("/rematch", sc.Rematch)
	sessions.GET("/events", s.handleEvents)
}

// authenticate accepts a bearer token, or a token query parameter for
// websocket clients that cannot set headers.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing token")
			return
		}

		claims, err := s.users.ParseToken(token)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(controller.UsernameKey, claims.Username)
		c.Next()
	}
}

// handleEvents streams session events to a websocket client until either side
// closes.
func (s *Server) handleEvents(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleEvents", trace.WithAttributes(
		attribute.String("user.name", c.GetString(controller.UsernameKey)),
	))
	defer span.End()

	// Subscribe before the handshake completes so no event is missed.
	stream, cancel := s.events.Subscribe()
	defer cancel()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upgrade connection")
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go readPump(conn, closed)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-stream:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				slog.WarnContext(ctx, "failed to write event, closing stream", "event.type", event.Type, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.WarnContext(ctx, "failed to send ping, assuming disconnect", "error", err)
				return
			}
		}
	}
}

// readPump discards client messages and reports when the connection closes.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "http request",
			"http.method", c.Request.Method,
			"http.path", c.FullPath(),
			"http.status", c.Writer.Status(),
			"duration", time.Since(start),
		)
		for _, err := range c.Errors {
			slog.ErrorContext(c.Request.Context(), "request failed", "error", err.Err)
		}
	}
}
