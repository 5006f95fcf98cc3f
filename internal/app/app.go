package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"facewatch/internal/config"
	"facewatch/internal/logger"
	"facewatch/internal/metrics"
	"facewatch/internal/model"
	"facewatch/internal/repository"
	"facewatch/internal/repository/sqlite"
	"facewatch/internal/route"
	"facewatch/internal/service"
	"facewatch/internal/service/storage"
	"facewatch/internal/service/vision"
	"facewatch/internal/service/websocket"
	"facewatch/internal/tracker"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      *logger.Logger
	db          *sqlite.DB
	sessionRepo repository.SessionRepository
	eventRepo   repository.EventRepository
	detector    *vision.CascadeDetector
	camera      *vision.Camera
	buffer      *storage.EventBuffer
	hubService  *websocket.HubService
	metrics     *metrics.Metrics
	manager     *service.Manager
}

// NewApp wires the application. Any error here is fatal for the process.
func NewApp() (*App, error) {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sessionRepo := sqlite.NewSessionRepository(db)
	eventRepo := sqlite.NewEventRepository(db)

	detector, err := vision.NewCascadeDetector(cfg, log)
	if err != nil {
		db.Close()
		log.Close()
		return nil, err
	}

	camera, err := vision.OpenCamera(cfg, detector, log)
	if err != nil {
		detector.Close()
		db.Close()
		log.Close()
		return nil, err
	}

	sessionID, err := sessionRepo.Insert(&model.Session{StartedAt: time.Now().UTC()})
	if err != nil {
		camera.Close()
		detector.Close()
		db.Close()
		log.Close()
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	hub := websocket.NewHubService(log)
	m := metrics.New()
	m.RegisterViewerGauge(hub.GetClientCount)
	buffer := storage.NewEventBuffer(cfg, log, sessionRepo, eventRepo)

	source := service.FrameSourceFunc(func() (service.Frame, error) {
		frame, err := camera.NextFrame()
		if err != nil {
			return nil, err
		}
		return frame, nil
	})
	t := tracker.New(cfg.EyebrowCooldown, cfg.EyebrowRaiseRatio)
	mng := service.NewManager(sessionID, t, source, hub, buffer, m, cfg.FrameInterval, log)

	return &App{
		config:      cfg,
		logger:      log,
		db:          db,
		sessionRepo: sessionRepo,
		eventRepo:   eventRepo,
		detector:    detector,
		camera:      camera,
		buffer:      buffer,
		hubService:  hub,
		metrics:     m,
		manager:     mng,
	}, nil
}

// Run serves HTTP and runs the frame loop until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.close()

	loopsDone := startLoops(ctx, a.manager.Run, a.hubService.Run, a.buffer.Run)

	router := route.SetupRoutes(route.Dependencies{
		Config:      a.config,
		Logger:      a.logger,
		Counts:      a.manager,
		Viewers:     a.hubService,
		SessionRepo: a.sessionRepo,
		EventRepo:   a.eventRepo,
		Metrics:     a.metrics.Handler(),
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: router,
	}

	a.logger.Info("🚀 Facewatch server")
	a.logger.Info("📍 URL: http://localhost:%d", a.config.Port)
	a.logger.Info("🎞️ Session: %d", a.manager.SessionID())
	a.logger.Info("📁 Snapshots: %s", a.config.SnapshotDirectory)

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var err error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down...")
	case err = <-serveErr:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		a.logger.Error("HTTP shutdown: %v", shutdownErr)
	}

	<-loopsDone
	return err
}

// startLoops runs the frame loop on ctx and the services it feeds on a
// separate context. The services are stopped only after the frame loop has
// returned, so the buffer's final flush sees the last frame's events.
// The returned channel is closed once everything has stopped.
func startLoops(ctx context.Context, frameLoop func(context.Context), services ...func(context.Context)) <-chan struct{} {
	servicesCtx, stopServices := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	for _, run := range services {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(servicesCtx)
		}(run)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		frameLoop(ctx)
		stopServices()
		wg.Wait()
	}()
	return done
}

func (a *App) close() {
	counts := a.manager.Counts()
	if err := a.sessionRepo.UpdateCounts(counts.Session, counts.Counts); err != nil {
		a.logger.Error("Failed to store final counts: %v", err)
	}
	if err := a.sessionRepo.End(counts.Session, time.Now().UTC()); err != nil {
		a.logger.Error("Failed to end session %d: %v", counts.Session, err)
	}
	a.logger.Info("Session %d ended: %d blinks, %d mouth openings, %d eyebrow raises",
		counts.Session, counts.Blinks, counts.Mouths, counts.Eyebrows)

	if err := a.camera.Close(); err != nil {
		a.logger.Error("Failed to close camera: %v", err)
	}
	a.detector.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database: %v", err)
	}
	a.logger.Close()
}
