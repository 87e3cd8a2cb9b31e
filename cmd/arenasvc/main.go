package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/flappyduel/flappy-services/configs"
	"github.com/flappyduel/flappy-services/internal/arenasvc/auth"
	"github.com/flappyduel/flappy-services/internal/arenasvc/db"
	"github.com/flappyduel/flappy-services/internal/arenasvc/handlers"
	"github.com/flappyduel/flappy-services/internal/arenasvc/hub"
	"github.com/flappyduel/flappy-services/internal/arenasvc/service"
	"github.com/flappyduel/flappy-services/internal/arenasvc/store"
	"github.com/flappyduel/flappy-services/internal/arenasvc/ws"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "arena"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	userStore := store.NewUserStore(dbpool)
	userService := service.NewUserService(userStore)

	friendStore := store.NewFriendStore(dbpool)
	friendService := service.NewFriendService(friendStore, userStore)

	scoreStore := store.NewScoreStore(dbpool)
	scoreService := service.NewScoreService(scoreStore)

	// Initialize websocket connection table and the event hub
	s := ws.NewWs()

	pendingTTL := 5 * time.Minute
	if ttlStr := os.Getenv("PENDING_GAME_TTL_MIN"); ttlStr != "" {
		ttlMin, err := strconv.Atoi(ttlStr)
		if err != nil {
			log.Fatalf("Invalid PENDING_GAME_TTL_MIN value: %v", err)
		}
		pendingTTL = time.Duration(ttlMin) * time.Minute
	}

	arena := hub.NewHub(s, userService, friendService, scoreService, pendingTTL)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go arena.Run(hubCtx)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	session := auth.NewSession()
	google := auth.NewTokenInfoVerifier()
	h := handlers.NewHandler(s, arena, userService, session, google)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:        ":" + os.Getenv("SERVICE_PORT"),
		Handler:     r,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
