package websocket

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/metrics"
	"bowell-service/internal/pkg/utils"
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gws "github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// commands maps an inbound command to the event it fans out to the user's group.
var commands = map[string]models.EventType{
	"ping": models.EventTypePong,
}

// Hub upgrades dashboard connections and relays the events published to the
// user's group.
type Hub struct {
	Log            *zap.Logger
	Notifier       contracts.Notifier
	Metrics        *metrics.Collector
	InternalConfig *config.InternalConfig

	upgrader gws.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	stopped bool
}

func NewHub(logger *zap.Logger, notifier contracts.Notifier, collector *metrics.Collector, internalConfig *config.InternalConfig) *Hub {
	hub := &Hub{
		Log:            logger,
		Notifier:       notifier,
		Metrics:        collector,
		InternalConfig: internalConfig,
		clients:        make(map[*client]struct{}),
	}
	hub.upgrader = gws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     hub.checkOrigin,
		Error:           hub.upgradeError,
	}
	return hub
}

// ServeWS handles GET /ws/users/{user_code}/. The path segment is not used,
// the group is derived from the authenticated principal.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	h.Log.Info("Hub.ServeWS called", zap.String(constvars.LoggingRequestIDKey, requestID))

	principal := utils.GetPrincipal(r.Context())
	if principal == nil {
		h.Log.Warn("Hub.ServeWS unauthorized user tried to connect",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		utils.BuildErrorResponse(h.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	if h.isStopped() {
		utils.BuildErrorResponse(h.Log, w, exceptions.ErrDependencyUnavailable(nil, "websocket hub"))
		return
	}

	// The subscription outlives the request context once the connection is hijacked.
	ctx, cancel := context.WithCancel(utils.WithRequestID(context.Background(), requestID))
	subscription, err := h.Notifier.Subscribe(ctx, principal.UserID)
	if err != nil {
		cancel()
		h.Log.Error("Hub.ServeWS error subscribing to user group",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingUserIDKey, principal.UserID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(h.Log, w, exceptions.ErrDependencyUnavailable(err, "redis"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		_ = subscription.Close()
		h.Log.Warn("Hub.ServeWS error upgrading connection",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}

	c := &client{
		hub:          h,
		conn:         conn,
		principal:    principal,
		requestID:    requestID,
		subscription: subscription,
		limiter:      rate.NewLimiter(rate.Limit(h.InternalConfig.Websocket.InboundMessagesPerSec), h.InternalConfig.Websocket.InboundMessagesBurst),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	if !h.register(c) {
		c.close()
		return
	}

	h.Log.Info("Hub.ServeWS connection established",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, principal.UserID),
	)

	if err := h.Notifier.Send(ctx, principal.UserID, &models.Event{
		Type:    models.EventTypeHello,
		Message: constvars.WebsocketGreetingMessage,
	}); err != nil {
		h.Log.Warn("Hub.ServeWS error sending greeting",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	go c.writePump()
	c.readPump()
}

// Stop closes every open connection and refuses new ones.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	open := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		open = append(open, c)
	}
	h.mu.Unlock()

	deadline := time.Now().Add(h.writeTimeout())
	for _, c := range open {
		_ = c.conn.WriteControl(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseGoingAway, "server shutting down"), deadline)
		c.close()
	}
}

// Clients returns the number of open connections.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.clients[c] = struct{}{}
	h.Metrics.WebsocketOpened()
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		h.Metrics.WebsocketClosed()
	}
}

func (h *Hub) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if h.InternalConfig.Websocket.CheckOriginAllowAllHost {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.InternalConfig.App.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (h *Hub) upgradeError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	if status == http.StatusForbidden {
		utils.BuildErrorResponse(h.Log, w, exceptions.ErrPermissionDenied(reason))
		return
	}
	utils.BuildErrorResponse(h.Log, w, exceptions.ErrWebsocketUpgrade(reason))
}

func (h *Hub) pingInterval() time.Duration {
	if h.InternalConfig.Websocket.PingIntervalInSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(h.InternalConfig.Websocket.PingIntervalInSeconds) * time.Second
}

func (h *Hub) writeTimeout() time.Duration {
	if h.InternalConfig.Websocket.WriteTimeoutInSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(h.InternalConfig.Websocket.WriteTimeoutInSeconds) * time.Second
}
