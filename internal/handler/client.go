package handler

import (
	"net/http"
	"time"

	"facewatch/internal/logger"
	hub "facewatch/internal/service/websocket"

	"github.com/gorilla/websocket"
)

const pingWriteWait = 5 * time.Second

// viewerReadTimeout is how long a viewer may stay silent, pongs included.
// Pings go out at nine tenths of it.
var viewerReadTimeout = 60 * time.Second

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ViewWebsocketHandler handles viewer connections over WebSocket and
// registers them in the HubService to receive frames and events.
func ViewWebsocketHandler(viewers *hub.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		readTimeout := viewerReadTimeout
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(readTimeout))
		connection.SetPongHandler(func(string) error {
			return connection.SetReadDeadline(time.Now().Add(readTimeout))
		})

		viewers.Register(connection)
		defer viewers.Unregister(connection)

		stopPing := make(chan struct{})
		defer close(stopPing)
		go keepAlive(connection, readTimeout*9/10, stopPing)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Viewer disconnected normally")
				} else {
					logger.Warning("Viewer disconnected: %v", err)
				}
				break
			}
			connection.SetReadDeadline(time.Now().Add(readTimeout))
		}
	}
}

// keepAlive pings the viewer until stop is closed. WriteControl may run
// concurrently with the hub's message writes.
func keepAlive(connection *websocket.Conn, period time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := connection.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingWriteWait)); err != nil {
				return
			}
		}
	}
}
