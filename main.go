package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TamerJohn/literate-spoon/handlers"
	"github.com/TamerJohn/literate-spoon/internal/config"
	"github.com/TamerJohn/literate-spoon/internal/database"
	"github.com/TamerJohn/literate-spoon/internal/document/repository"
	"github.com/TamerJohn/literate-spoon/internal/document/service"
	"github.com/TamerJohn/literate-spoon/internal/render"
	"github.com/TamerJohn/literate-spoon/internal/sessions"
	"github.com/TamerJohn/literate-spoon/internal/users"
	"github.com/TamerJohn/literate-spoon/pkg/logger"
	"github.com/TamerJohn/literate-spoon/pkg/metrics"
	"github.com/TamerJohn/literate-spoon/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s documents=%s users=%s sessions=%s", cfg.Server.Environment, cfg.Data.DocumentStore, cfg.Data.UsersSource, cfg.Session.Store)
	if cfg.Server.Environment != "development" && cfg.Server.Environment != config.EnvTest {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mongoClient *mongo.Client
	if cfg.UsesMongo() {
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Fatalf("mongodb: %v", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		logger.Infof("connected to MongoDB database %s", cfg.MongoDB.Database)
	}

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("redis %s: %v", cfg.RedisAddr(), err)
		}
		defer func() { _ = redisClient.Close() }()
		logger.Infof("connected to Redis at %s", cfg.RedisAddr())
	}

	repo, err := repository.Open(ctx, cfg, mongoClient)
	if err != nil {
		logger.Fatalf("document store: %v", err)
	}
	if fr, ok := repo.(*repository.FileRepo); ok {
		logger.Infof("serving documents from %s", fr.Dir())
	}

	var userRepo users.UserRepository
	switch cfg.Data.UsersSource {
	case config.UsersMongo:
		userRepo = users.NewMongoUserRepository(mongoClient.Database(cfg.MongoDB.Database).Collection("users"))
	default:
		userRepo = users.NewYAMLRepository(cfg.UsersPath())
		logger.Infof("reading credentials from %s", cfg.UsersPath())
	}

	cookieOpts := sessions.CookieOptions{Name: cfg.Session.CookieName, MaxAge: cfg.Session.MaxAge, Secure: cfg.Session.Secure}
	var store sessions.Store
	switch cfg.Session.Store {
	case config.SessionsRedis:
		store = sessions.NewServerStore(sessions.NewRedisRepository(redisClient, "cms:session:"), cookieOpts)
	case config.SessionsMongo:
		store = sessions.NewServerStore(sessions.NewMongoRepository(mongoClient.Database(cfg.MongoDB.Database).Collection("sessions")), cookieOpts)
	default:
		store = sessions.NewCookieStore([]byte(cfg.Session.Secret), cookieOpts)
	}

	mw := []gin.HandlerFunc{logger.GinMiddleware(), metrics.GinMiddleware()}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			mw = append(mw, middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			mw = append(mw, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
		logger.Infof("rate limiter enabled: rps=%.1f burst=%d redis=%v", cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.UseRedis)
	}

	r := handlers.NewRouter(handlers.Options{
		Documents: service.New(repo),
		Renderer:  render.New(),
		Users:     users.NewService(userRepo),
		Sessions:  store,
	}, mw...)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the stores in use answer
	r.GET("/ready", func(c *gin.Context) {
		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready := true
		deps := map[string]bool{}

		_, err := repo.List(rctx)
		deps["documents"] = err == nil
		if mongoClient != nil {
			deps["mongodb"] = mongoClient.Ping(rctx, nil) == nil
		}
		if redisClient != nil {
			deps["redis"] = redisClient.Ping(rctx).Err() == nil
		}
		for _, ok := range deps {
			ready = ready && ok
		}

		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Starting cms on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
