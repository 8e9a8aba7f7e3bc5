package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	calculateQuoteHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/calculate_quote"
	cancelBookingHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/get_booking"
	getDayBookingsHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/get_day_bookings"
	listServicesHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/list_services"
	managePricingHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/manage_pricing"
	updateBookingStatusHandler "github.com/m04kA/GardenBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/GardenBookingService/internal/api/middleware"
	"github.com/m04kA/GardenBookingService/internal/catalog"
	"github.com/m04kA/GardenBookingService/internal/config"
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/infra/cache/daystate"
	"github.com/m04kA/GardenBookingService/internal/infra/holidays"
	bookingRepo "github.com/m04kA/GardenBookingService/internal/infra/storage/booking"
	pricingRepo "github.com/m04kA/GardenBookingService/internal/infra/storage/pricing"
	"github.com/m04kA/GardenBookingService/internal/integrations/distance"
	"github.com/m04kA/GardenBookingService/internal/jobs/completion"
	bookingsService "github.com/m04kA/GardenBookingService/internal/service/bookings"
	pricingService "github.com/m04kA/GardenBookingService/internal/service/pricing"
	calculateQuoteUC "github.com/m04kA/GardenBookingService/internal/usecase/calculate_quote"
	createBookingUC "github.com/m04kA/GardenBookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/GardenBookingService/internal/usecase/get_availability"
	"github.com/m04kA/GardenBookingService/pkg/logger"
	"github.com/m04kA/GardenBookingService/pkg/metrics"
	"github.com/m04kA/GardenBookingService/pkg/txmanager"
)

// dayStateCache every consumer's view of the day state cache
type dayStateCache interface {
	Get(ctx context.Context, date time.Time) (*domain.DayBookingState, bool, error)
	Version(ctx context.Context, date time.Time) (int64, error)
	Set(ctx context.Context, date time.Time, version int64, state *domain.DayBookingState) (bool, error)
	Invalidate(ctx context.Context, date time.Time) error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting GardenBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Invalid business timezone: %v", err)
	}

	// metrics collector stays nil when disabled; its methods are nil-safe
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Service catalog
	services := catalog.Default()
	if cfg.Business.CatalogFile != "" {
		services, err = catalog.Load(cfg.Business.CatalogFile)
		if err != nil {
			log.Fatal("Failed to load service catalog: %v", err)
		}
	}
	log.Info("Service catalog loaded: %d services", len(services.All()))

	var holidayChecker domain.HolidayChecker
	if cfg.Business.ClosedOnBankHolidays {
		holidayChecker = holidays.NewUKCalendar()
		log.Info("Closed on UK bank holidays")
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Day state cache; left nil when redis is disabled or unreachable
	var cache dayStateCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unavailable at %s, day state cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			cache = daystate.NewCache(rdb, cfg.Redis.TTL())
			log.Info("Day state cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
		}
	}

	// Distance lookup; without a geocoder every distance is unknown
	var distanceClient calculateQuoteUC.DistanceClient
	if cfg.Distance.GeocoderURL != "" {
		distanceClient = distance.NewClient(distance.Config{
			BaseURL:    cfg.Distance.GeocoderURL,
			Timeout:    time.Duration(cfg.Distance.Timeout) * time.Second,
			Base:       distance.Coordinates{Lat: cfg.Distance.BaseLat, Lng: cfg.Distance.BaseLng},
			RoadFactor: cfg.Distance.RoadFactor,
		}, log)
		log.Info("Distance lookup via %s (timeout=%ds)", cfg.Distance.GeocoderURL, cfg.Distance.Timeout)
	}

	// Repositories
	bookingRepository := bookingRepo.NewRepository(db)
	pricingRepository := pricingRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	// Use cases
	calculateQuoteUseCase := calculateQuoteUC.NewUseCase(
		services,
		pricingRepository,
		distanceClient,
		metricsCollector,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		cache,
		services,
		metricsCollector,
		getAvailabilityUC.Settings{
			AdvanceBookingDays: cfg.Business.AdvanceBookingDays,
			Location:           location,
			Holidays:           holidayChecker,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		calculateQuoteUseCase,
		cache,
		txMgr,
		metricsCollector,
		createBookingUC.Settings{
			AdvanceBookingDays: cfg.Business.AdvanceBookingDays,
			Location:           location,
			Holidays:           holidayChecker,
		},
		log,
	)

	// Services
	bookingSvc := bookingsService.NewService(bookingRepository, cache, txMgr, log)
	pricingSvc := pricingService.NewService(pricingRepository, services, log)

	// Handlers
	listServices := listServicesHandler.NewHandler(calculateQuoteUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	calculateQuote := calculateQuoteHandler.NewHandler(calculateQuoteUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getDayBookings := getDayBookingsHandler.NewHandler(bookingSvc, log)
	managePricing := managePricingHandler.NewHandler(pricingSvc, log)

	// Router
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Metrics(metricsCollector))

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	managerAuth := middleware.NewManagerAuth(cfg.Manager.Token, log)

	limited := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		proxies, err := cfg.RateLimit.TrustedProxyPrefixes()
		if err != nil {
			log.Fatal("Invalid rate_limit.trusted_proxies: %v", err)
		}
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, proxies, log)
		limited = func(h http.HandlerFunc) http.Handler { return limiter.Limit(h) }
		log.Info("Rate limit on quotes and bookings: %d/min, burst %d, %d trusted proxies",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, len(proxies))
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(managerAuth.Identify)

	// ============================================================
	// PUBLIC ROUTES (booking form)
	// ============================================================

	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.Handle("/quotes", limited(calculateQuote.Handle)).Methods(http.MethodPost)
	api.Handle("/bookings", limited(createBooking.Handle)).Methods(http.MethodPost)

	// customer by reference + email, or the manager token
	api.HandleFunc("/bookings/{reference}", getBooking.Handle).Methods(http.MethodGet)
	api.Handle("/bookings/{reference}/cancel", limited(cancelBooking.Handle)).Methods(http.MethodPatch)

	// ============================================================
	// MANAGER ROUTES (require the manager token)
	// ============================================================

	manager := api.PathPrefix("/manager").Subrouter()
	manager.Use(managerAuth.Require)

	manager.HandleFunc("/days/{date}/bookings", getDayBookings.Handle).Methods(http.MethodGet)
	manager.HandleFunc("/bookings/{reference}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	manager.HandleFunc("/pricing", managePricing.HandleList).Methods(http.MethodGet)
	manager.HandleFunc("/pricing/{service}", managePricing.HandleGet).Methods(http.MethodGet)
	manager.HandleFunc("/pricing/{service}", managePricing.HandleUpdate).Methods(http.MethodPut)
	manager.HandleFunc("/pricing/{service}", managePricing.HandleDelete).Methods(http.MethodDelete)

	co := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.ManagerTokenHeader},
	})

	// Completion job
	var scheduler *cron.Cron
	if cfg.Jobs.CompletionEnabled {
		scheduler = cron.New(cron.WithLocation(location))
		job := completion.NewJob(bookingRepository, location, log)
		if _, err := job.Register(scheduler, cfg.Jobs.CompletionSchedule); err != nil {
			log.Fatal("Failed to schedule completion job: %v", err)
		}
		scheduler.Start()
		log.Info("Completion job scheduled: %s", cfg.Jobs.CompletionSchedule)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      co.Handler(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if scheduler != nil {
		<-scheduler.Stop().Done()
		log.Info("Completion job stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
