package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/wurt83ow/worktravel/docs" // connecting generated Swagger files
	authz "github.com/wurt83ow/worktravel/internal/authorization"
	"github.com/wurt83ow/worktravel/internal/bdkeeper"
	"github.com/wurt83ow/worktravel/internal/config"
	"github.com/wurt83ow/worktravel/internal/controllers"
	"github.com/wurt83ow/worktravel/internal/dockeeper"
	"github.com/wurt83ow/worktravel/internal/gormkeeper"
	"github.com/wurt83ow/worktravel/internal/logger"
	"github.com/wurt83ow/worktravel/internal/middleware"
	"github.com/wurt83ow/worktravel/internal/seed"
	"github.com/wurt83ow/worktravel/internal/service"
	"github.com/wurt83ow/worktravel/internal/storage"
	"go.uber.org/zap"
)

const defaultConcurrency = 5

type Server struct {
	srv     *http.Server
	ctx     context.Context
	storage *storage.MemoryStorage
}

// NewServer creates a new Server instance with the provided context
func NewServer(ctx context.Context) *Server {
	server := new(Server)
	server.ctx = ctx
	return server
}

// Serve starts the server and handles signal interruption for graceful shutdown
func (server *Server) Serve() {
	// create and initialize a new option instance
	option := config.NewOptions()
	option.ParseFlags()

	// get a new logger
	nLogger, err := logger.NewLogger(option.LogLevel())
	if err != nil {
		log.Fatalln(err)
	}
	defer nLogger.Sync()

	// initialize the keeper instance for the configured backend
	keeper := initializeKeeper(option, nLogger)
	if keeper == nil {
		nLogger.Warn("Keeper is nil, data is kept in memory only", zap.String("backend", option.StorageBackend()))
	}

	// initialize the storage instance
	server.storage = storage.NewMemoryStorage(server.ctx, keeper, nLogger)

	// create a new NewJWTAuthz for user authorization
	authz := initializeAuthz(server.storage, option, nLogger)

	// create the service with the import worker pool size
	svc := service.NewService(server.storage, authz, concurrency(option, nLogger), nLogger)

	// fill an empty installation
	if err := initializeData(server.ctx, svc, option, nLogger); err != nil {
		log.Fatalln(err)
	}

	// create a new controller to process incoming requests
	basecontr := controllers.NewBaseController(svc, nLogger, authz)

	// get a middleware for logging requests
	reqLog := middleware.NewReqLog(nLogger)

	// create router and mount routes
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(reqLog.RequestLogger)
	r.Mount("/", basecontr.Route())

	// Add route for Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// configure and start the server
	server.srv = startServer(r, option.RunAddr())
	nLogger.Info("server started", zap.String("address", option.RunAddr()), zap.String("backend", option.StorageBackend()))

	// Create a channel to receive interrupt signals (e.g., CTRL+C)
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)

	// Block execution until a signal or the context cancellation
	select {
	case <-stopChan:
	case <-server.ctx.Done():
	}

	// Perform graceful server shutdown
	server.Shutdown()
}

// initializeKeeper picks the persistent keeper of the storage backend.
// A nil keeper leaves the storage memory-only.
func initializeKeeper(option *config.Options, logger *logger.Logger) storage.Keeper {
	switch option.StorageBackend() {
	case config.BackendPostgres:
		if kp := bdkeeper.NewBDKeeper(option.DataBaseDSN, logger); kp != nil {
			return kp
		}
	case config.BackendSQLite:
		if kp := gormkeeper.NewGormKeeper(option.SQLitePath, logger); kp != nil {
			return kp
		}
	case config.BackendMongo:
		if kp := dockeeper.NewDocKeeper(option.MongoURI, option.MongoDatabase, logger); kp != nil {
			return kp
		}
	case config.BackendMemory:
	default:
		logger.Warn("unknown storage backend", zap.String("backend", option.StorageBackend()))
	}

	return nil
}

// initializeAuthz initializes a JWTAuthz instance for user authorization
func initializeAuthz(storage *storage.MemoryStorage, option *config.Options, logger *logger.Logger) *authz.JWTAuthz {
	return authz.NewJWTAuthz(storage, option.JWTSigningKey(), option.JWTTTL(), logger)
}

// initializeData seeds the city directory and the settings, and makes sure
// the bootstrap super admin exists.
func initializeData(ctx context.Context, svc *service.Service, option *config.Options, logger *logger.Logger) error {
	data, err := seed.Load(option.SeedFile())
	if err != nil {
		return err
	}

	if err := svc.SeedCities(ctx, data.Cities); err != nil {
		return err
	}

	if err := svc.SeedSettings(ctx, data.Settings); err != nil {
		return err
	}

	if option.AdminPassword() == "" {
		logger.Warn("ADMIN_PASSWORD is empty, no bootstrap admin is created")
		return nil
	}

	return svc.EnsureAdmin(ctx, option.AdminUsername(), option.AdminPassword())
}

func concurrency(option *config.Options, logger *logger.Logger) int {
	n, err := strconv.Atoi(option.Concurrency())
	if err != nil || n <= 0 {
		logger.Warn("invalid concurrency, using default", zap.String("value", option.Concurrency()))
		return defaultConcurrency
	}

	return n
}

// startServer configures and starts an HTTP server with the provided router and address
func startServer(router chi.Router, address string) *http.Server {
	const (
		oneMegabyte  = 1 << 20
		readTimeout  = 10 * time.Second
		writeTimeout = 30 * time.Second
	)

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       readTimeout,
		MaxHeaderBytes:    oneMegabyte, // 1 MB
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln(err)
		}
	}()

	return server
}

// Shutdown gracefully shuts down the server
func (server *Server) Shutdown() {
	log.Printf("server stopped")

	const shutdownTimeout = 5 * time.Second
	ctxShutDown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

	defer cancel()

	if server.srv != nil {
		if err := server.srv.Shutdown(ctxShutDown); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("server Shutdown Failed:%s", err)
			}
		}
	}

	if server.storage != nil {
		server.storage.Close()
	}

	log.Println("server exited properly")
}
