package webserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"solbot/rewards"
)

const (
	DefaultAddr = "127.0.0.1:8082"

	shutdownTimeout = 5 * time.Second
)

// CacheSource exposes the reward cache state
type CacheSource interface {
	Snapshot() rewards.Snapshot
}

// ExpirySource exposes replies waiting to be deleted
type ExpirySource interface {
	Pending() int
	NextExpiry() (time.Time, bool)
}

type WebServer struct {
	addr    string
	version string
	started time.Time

	cache   CacheSource
	expirer ExpirySource

	httpSvr *http.Server
}

func New(addr, version string, cache CacheSource, expirer ExpirySource) *WebServer {

	if addr == "" {
		addr = DefaultAddr
	}

	return &WebServer{
		addr:    addr,
		version: version,
		started: time.Now(),
		cache:   cache,
		expirer: expirer,
	}
}

// Router builds the HTTP handler, wrapped with request logging and panic
// recovery
func (ws *WebServer) Router() http.Handler {

	router := mux.NewRouter()
	router.HandleFunc("/api/health", ws.health).Methods(http.MethodGet)
	router.HandleFunc("/api/status", ws.status).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	logged := handlers.CombinedLoggingHandler(log.StandardLogger().WriterLevel(log.DebugLevel), router)

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(false),
	)(logged)
}

// Start launches the server in the background. When shutdownChannel closes
// the server is shut down and wg is released.
func (ws *WebServer) Start(shutdownChannel <-chan interface{}, wg *sync.WaitGroup) {

	ws.httpSvr = &http.Server{
		Handler:      ws.Router(),
		Addr:         ws.addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.WithField("Addr", ws.addr).Info("Status server listening")

	// Launch webserver in background
	go func() {
		if err := ws.httpSvr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Httpserver: ListenAndServe()")
		}
		log.Info("Httpserver: Shutdown")
	}()

	// Wait for shutdown signal on channel
	wg.Add(1)
	go func() {
		defer wg.Done()

		<-shutdownChannel

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := ws.httpSvr.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Httpserver: Shutdown()")
		}
	}()
}
