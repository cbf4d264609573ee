package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/config"
	"github.com/funsideofwine/guardian-grc/database"
	"github.com/funsideofwine/guardian-grc/handlers"
	"github.com/funsideofwine/guardian-grc/middleware"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/routes"
	"github.com/funsideofwine/guardian-grc/store"
	"github.com/funsideofwine/guardian-grc/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	config.LoadConfig()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	stores := store.NewStores(database.Database())

	emitter := audit.NewEmitter(stores.Audit)
	hub := websocket.NewHub()
	emitter.AttachHub(hub)
	go hub.Run()

	h := &routes.Handlers{
		Auth:       handlers.NewAuthHandler(stores.Users),
		Risks:      handlers.NewRiskHandler(repository.NewRiskRepository(stores.Risks, emitter)),
		Compliance: handlers.NewComplianceHandler(repository.NewComplianceRepository(stores.Compliance, emitter)),
		Incidents:  handlers.NewIncidentHandler(repository.NewIncidentRepository(stores.Incidents, stores.IncidentCounter, emitter)),
		Policies:   handlers.NewPolicyHandler(repository.NewPolicyRepository(stores.Policies, emitter)),
		Audit:      handlers.NewAuditHandler(stores.Audit, emitter),
		Activity:   hub.ServeWS,
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	// Global middlewares (order matters!)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CorsMiddleware)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Guardian GRC backend running on http://localhost:%s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	database.Disconnect()
	log.Println("Server stopped gracefully")
}
