package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teamdesk/calldesk-backend/internal/realtime"
	pkgAuth "github.com/teamdesk/calldesk-backend/pkg/auth"
	"github.com/teamdesk/calldesk-backend/pkg/auth/session"
	"github.com/teamdesk/calldesk-backend/pkg/config"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

const (
	streamWriteWait = 10 * time.Second
	streamPingEvery = 30 * time.Second
)

var streamUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream upgrades to a websocket and pushes dashboard events. Browsers
// cannot set Authorization headers on websocket dials, so the token rides
// the query string.
func Stream(hub *realtime.Hub, cfg config.JWTConfig, verifier session.Checker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			token = bearerToken(r)
		}
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := pkgAuth.ParseAccessToken(cfg, token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if verifier != nil {
			ok, err := verifier.HasSession(r.Context(), claims.SessionID)
			if err != nil || !ok {
				http.Error(w, "session unavailable", http.StatusUnauthorized)
				return
			}
		}

		conn, err := streamUpgrader.Upgrade(w, r, nil)
		if err != nil {
			if logg != nil {
				logg.Warn(r.Context(), fmt.Sprintf("websocket upgrade: %v", err))
			}
			return
		}

		client := hub.Register(claims.UserName)
		defer func() {
			hub.Unregister(client)
			conn.Close()
		}()

		// Reader drains control frames and detects the peer going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(streamPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case raw, ok := <-client.Send:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
