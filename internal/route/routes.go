package route

import (
	"net/http"
	"os"
	"path/filepath"

	"facewatch/internal/config"
	"facewatch/internal/handler"
	"facewatch/internal/logger"
	"facewatch/internal/middleware"
	"facewatch/internal/repository"
	hub "facewatch/internal/service/websocket"
)

// Dependencies groups what the HTTP layer needs from the running application.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Counts      handler.CountsProvider
	Viewers     *hub.HubService
	SessionRepo repository.SessionRepository
	EventRepo   repository.EventRepository
	Metrics     http.Handler
}

// dynamicHTMLHandler serves /path as /static/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/" {
		path = "/index"
	}

	filePath := filepath.Join("static", filepath.Clean(path)+".html")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filePath)
}

// SetupRoutes registers HTTP routes, static file serving, API endpoints,
// and wraps the mux with the authentication middleware.
func SetupRoutes(deps Dependencies) http.Handler {
	cfg, log := deps.Config, deps.Logger
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// API endpoints
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(deps.Viewers, log))
	mux.HandleFunc("/api/counts", handler.CountsHandler(deps.Counts, log))
	mux.HandleFunc("/api/events", handler.GetEventsHandler(log, deps.EventRepo))
	mux.HandleFunc("/api/sessions", handler.GetSessionsHandler(log, deps.SessionRepo))
	mux.HandleFunc("/api/snapshots/view", handler.ViewSnapshotHandler(cfg))

	// Log endpoints
	for path, file := range map[string]string{
		"/logs/info":    logger.InfoFile,
		"/logs/warning": logger.WarningFile,
		"/logs/error":   logger.ErrorFile,
	} {
		mux.HandleFunc(path, handler.ShowLogsHandler(log, file))
		mux.HandleFunc(path+"/clear", handler.ClearLogsHandler(log, file))
	}

	// Auth endpoints
	mux.HandleFunc("/auth/login", handler.LoginHandler(cfg, log))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	if deps.Metrics != nil {
		mux.Handle("/metrics", deps.Metrics)
	}

	// Automatic HTML handler mapping for example: /login -> /static/login.html
	mux.HandleFunc("/", dynamicHTMLHandler)

	// Apply middleware
	return middleware.AuthMiddleware(mux)
}
