package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rhys706/house-inspector/internal/application"
	appreport "github.com/rhys706/house-inspector/internal/application/report"
	appsession "github.com/rhys706/house-inspector/internal/application/session"
	"github.com/rhys706/house-inspector/internal/config"
	domcamera "github.com/rhys706/house-inspector/internal/domain/camera"
	"github.com/rhys706/house-inspector/internal/domain/inspection"
	domspeech "github.com/rhys706/house-inspector/internal/domain/speech"
	camerafeed "github.com/rhys706/house-inspector/internal/infra/camera"
	mysqlp "github.com/rhys706/house-inspector/internal/infra/db/mysql"
	postgresp "github.com/rhys706/house-inspector/internal/infra/db/postgres"
	"github.com/rhys706/house-inspector/internal/infra/httpserver"
	permstatic "github.com/rhys706/house-inspector/internal/infra/permission"
	speechopenai "github.com/rhys706/house-inspector/internal/infra/speech/openai"
	minioStore "github.com/rhys706/house-inspector/internal/infra/storage"
	"github.com/rhys706/house-inspector/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// optional record archive
	var archive inspection.Archiver
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Archive.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		archive = mysqlp.NewRecordRepository(db)
		checkers["mysql"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		archive = postgresp.NewRecordRepository(db)
		checkers["postgres"] = &middleware.DatabaseHealthChecker{DB: db}
	case "":
		// in-memory only; reports still work, past sessions are gone on restart
	default:
		log.Fatalf("unknown archive driver: %q", cfg.Archive.Driver)
	}

	// optional photo export
	var images inspection.ImageStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		images = store
	}

	frameTimeout := time.Duration(cfg.Capture.FrameTimeoutSeconds) * time.Second
	mgr := appsession.NewManager(appsession.Deps{
		Cameras: func() domcamera.Device {
			return camerafeed.NewFeed(frameTimeout)
		},
		Recognizers: func() domspeech.Recognizer {
			return speechopenai.NewRecognizer(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		},
		Perms: permstatic.Static{
			Camera:     cfg.Permissions.Camera,
			Microphone: cfg.Permissions.Microphone,
		},
		Clock:   application.SystemClock{},
		Archive: archive,
		Images:  images,
	})
	reports := &appreport.Service{Clock: application.SystemClock{}}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
		mux.Use(middleware.RateLimitMiddleware(rl))
	}
	if cfg.Auth.Enabled {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.Keys))
		mux.Use(middleware.RequireInspectorMatch(inspectorFromPath))
	}

	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/healthz", middleware.HealthHandler(checkers))
	mux.Mount("/", httpserver.NewRouter(mgr, reports, archive))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	// release camera feeds and stop any dictation before exit
	mgr.Shutdown(ctx2)
}

// inspectorFromPath pulls the {inspector} segment out of /v1/... paths before
// routing has happened.
func inspectorFromPath(r *http.Request) string {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "v1" {
		return parts[1]
	}
	return ""
}
