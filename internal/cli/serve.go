package cli

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	cancelBookingHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/create_booking"
	createReviewHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/create_review"
	deleteRestaurantHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/delete_restaurant"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_booking"
	getRestaurantHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_restaurant"
	getRestaurantBookingsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_restaurant_bookings"
	getRestaurantConfigHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_restaurant_config"
	getRestaurantReviewsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_restaurant_reviews"
	getUserBookingsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/get_user_bookings"
	searchRestaurantsHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/search_restaurants"
	updateBookingStatusHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/update_booking_status"
	updateRestaurantConfigHandler "github.com/m04kA/SMC-TableBooking/internal/api/handlers/update_restaurant_config"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	restaurantCache "github.com/m04kA/SMC-TableBooking/internal/infra/cache/restaurant"
	bookingRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	bookingsService "github.com/m04kA/SMC-TableBooking/internal/service/bookings"
	configService "github.com/m04kA/SMC-TableBooking/internal/service/config"
	restaurantsService "github.com/m04kA/SMC-TableBooking/internal/service/restaurants"
	reviewsService "github.com/m04kA/SMC-TableBooking/internal/service/reviews"
	createBookingUC "github.com/m04kA/SMC-TableBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-TableBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/metrics"
	"github.com/m04kA/SMC-TableBooking/pkg/txmanager"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the booking API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

func runServe(configPath string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting SMC-TableBooking...")

	location, err := cfg.Booking.Location()
	if err != nil {
		return err
	}

	// Метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// База данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка только пробрасывает запросы
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}

	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	configRepository := configRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Клиент сервиса ресторанов, при включенном redis - с кэшем
	backendClient := restaurantservice.NewClient(
		cfg.RestaurantService.URL,
		cfg.RestaurantService.APIKey,
		time.Duration(cfg.RestaurantService.Timeout)*time.Second,
		log,
	)
	var restaurantClient restaurantCache.Source = backendClient
	log.Info("Restaurant service client initialized (url=%s, timeout=%ds)",
		cfg.RestaurantService.URL, cfg.RestaurantService.Timeout)

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// кэш необязателен: при недоступном redis работаем напрямую с источником
			log.Warn("Redis is unavailable at %s, restaurant cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			cache := restaurantCache.NewCache(redisClient, time.Duration(cfg.Redis.TTL)*time.Second)
			restaurantClient = restaurantCache.NewCachedClient(restaurantClient, cache, log)
			log.Info("Restaurant cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
	}

	timeProvider := &createBookingUC.RealTimeProvider{Location: location}

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, restaurantClient, txMgr, metricsCollector, log)
	configSvc := configService.NewService(configRepository, restaurantClient, log)
	restaurantSvc := restaurantsService.NewService(
		restaurantClient,
		bookingRepository,
		configRepository,
		txMgr,
		timeProvider,
		log,
	)
	reviewSvc := reviewsService.NewService(restaurantClient, backendClient, timeProvider, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		configRepository,
		restaurantClient,
		txMgr,
		metricsCollector,
		timeProvider,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		configRepository,
		restaurantClient,
		metricsCollector,
		&getAvailableSlotsUC.RealTimeProvider{Location: location},
		log,
	)

	// Handlers
	searchRestaurants := searchRestaurantsHandler.NewHandler(restaurantSvc, log)
	getRestaurant := getRestaurantHandler.NewHandler(restaurantSvc, log)
	deleteRestaurant := deleteRestaurantHandler.NewHandler(restaurantSvc, log)
	getRestaurantReviews := getRestaurantReviewsHandler.NewHandler(reviewSvc, log)
	createReview := createReviewHandler.NewHandler(reviewSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getRestaurantBookings := getRestaurantBookingsHandler.NewHandler(bookingSvc, log)
	getRestaurantConfig := getRestaurantConfigHandler.NewHandler(configSvc, log)
	updateRestaurantConfig := updateRestaurantConfigHandler.NewHandler(configSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxyHeaders, log)
		api.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d, trust_proxy_headers=%t)",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxyHeaders)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Поиск ресторанов и карточка ресторана
	api.HandleFunc("/restaurants", searchRestaurants.Handle).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{restaurantId}", getRestaurant.Handle).Methods(http.MethodGet)

	// Свободные слоты на дату
	api.HandleFunc("/restaurants/{restaurantId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Конфигурация слотов ресторана
	api.HandleFunc("/restaurants/{restaurantId}/config", getRestaurantConfig.Handle).Methods(http.MethodGet)

	// Отзывы
	api.HandleFunc("/restaurants/{restaurantId}/reviews", getRestaurantReviews.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Отзывы ---
	protected.HandleFunc("/restaurants/{restaurantId}/reviews", createReview.Handle).Methods(http.MethodPost)

	// --- Управление рестораном (для менеджеров) ---
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/restaurants/{restaurantId}/bookings", getRestaurantBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/restaurants/{restaurantId}/config", updateRestaurantConfig.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/restaurants/{restaurantId}", deleteRestaurant.Handle).Methods(http.MethodDelete)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return serveUntilSignal(srv, time.Duration(cfg.Server.ShutdownTimeout)*time.Second, log)
}
