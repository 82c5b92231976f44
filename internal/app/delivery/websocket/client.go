package websocket

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gws "github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type client struct {
	hub          *Hub
	conn         *gws.Conn
	principal    *models.Principal
	requestID    string
	subscription contracts.Subscription
	limiter      *rate.Limiter

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// readPump owns all reads. It returns when the peer goes away or the
// connection is closed from the server side.
func (c *client) readPump() {
	defer c.close()

	log := c.hub.Log
	pongWait := c.hub.pingInterval() + c.hub.writeTimeout()

	if limit := c.hub.InternalConfig.Websocket.ReadLimitInBytes; limit > 0 {
		c.conn.SetReadLimit(limit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if gws.IsUnexpectedCloseError(err, gws.CloseGoingAway, gws.CloseNormalClosure, gws.CloseNoStatusReceived) {
				log.Warn("Hub.readPump connection closed unexpectedly",
					zap.String(constvars.LoggingRequestIDKey, c.requestID),
					zap.Error(err),
				)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if !c.limiter.Allow() {
			log.Warn("Hub.readPump inbound message throttled",
				zap.String(constvars.LoggingRequestIDKey, c.requestID),
				zap.Int64(constvars.LoggingUserIDKey, c.principal.UserID),
			)
			continue
		}

		var command models.ClientCommand
		if err := json.Unmarshal(data, &command); err != nil {
			log.Warn("Hub.readPump malformed command",
				zap.String(constvars.LoggingRequestIDKey, c.requestID),
				zap.Error(err),
			)
			continue
		}
		log.Debug("Hub.readPump received command",
			zap.String(constvars.LoggingRequestIDKey, c.requestID),
			zap.String(constvars.LoggingCommandKey, command.Type),
		)

		eventType, ok := commands[command.Type]
		if !ok {
			log.Warn("Hub.readPump invalid command",
				zap.String(constvars.LoggingRequestIDKey, c.requestID),
				zap.String(constvars.LoggingCommandKey, command.Type),
			)
			continue
		}

		if err := c.hub.Notifier.Send(c.ctx, c.principal.UserID, &models.Event{Type: eventType}); err != nil {
			log.Error("Hub.readPump error sending command reply",
				zap.String(constvars.LoggingRequestIDKey, c.requestID),
				zap.String(constvars.LoggingCommandKey, command.Type),
				zap.Error(err),
			)
		}
	}
}

// writePump owns all data writes. Control frames go through WriteControl,
// which gorilla allows concurrently.
func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.pingInterval())
	defer func() {
		ticker.Stop()
		c.close()
	}()

	writeTimeout := c.hub.writeTimeout()
	messages := c.subscription.Messages()
	for {
		select {
		case <-c.done:
			return
		case payload, ok := <-messages:
			if !ok {
				_ = c.conn.WriteControl(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseGoingAway, ""), time.Now().Add(writeTimeout))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(gws.TextMessage, payload); err != nil {
				c.hub.Log.Warn("Hub.writePump error writing event",
					zap.String(constvars.LoggingRequestIDKey, c.requestID),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(gws.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		if err := c.subscription.Close(); err != nil {
			c.hub.Log.Warn("Hub.close error unsubscribing",
				zap.String(constvars.LoggingRequestIDKey, c.requestID),
				zap.Error(err),
			)
		}
		_ = c.conn.Close()
		c.hub.unregister(c)
		c.hub.Log.Info("Hub.close connection closed",
			zap.String(constvars.LoggingRequestIDKey, c.requestID),
			zap.Int64(constvars.LoggingUserIDKey, c.principal.UserID),
		)
	})
}
