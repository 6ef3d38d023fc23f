package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/handler"
	"yatube/internal/queue"
	"yatube/internal/redis"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Object storage (optional)
	var images service.ImageStore
	var objects worker.ObjectDeleter
	if cfg.MediaEnabled() {
		media, err := service.NewMediaService(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to init media service: %w", err)
		}
		images, objects = media, media
	} else {
		log.Println("[Server] R2 not configured, image uploads disabled")
	}

	// 4. Redis: page cache and activity stream (optional)
	var pageCache cache.PageCache = cache.NewMemoryPageCache()
	var publisher queue.Publisher
	var manager *worker.Manager
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()

		pageCache = cache.NewRedisPageCache(client.Client)
		publisher = queue.NewPublisher(client.Client)

		managerCfg := worker.DefaultManagerConfig()
		managerCfg.WorkerCount = cfg.WorkerCount
		manager = worker.NewManager(queue.NewConsumer(client.Client), worker.NewHandler(objects), managerCfg)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer manager.Stop()
	} else {
		log.Println("[Server] REDIS_URL not set, using in-process page cache and inline image cleanup")
	}

	// 5. Repositories, services, handlers
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(cfg)
	groupService := service.NewGroupService(groupRepo)
	feedService := service.NewFeedService(postRepo, groupRepo, userRepo, followRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, tx)
	postService := service.NewPostService(postRepo, groupRepo, commentService, tx, images, publisher)
	followService := service.NewFollowService(followRepo, userRepo, tx, publisher)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService),
		FeedHandler:    handler.NewFeedHandler(feedService, pageCache, cfg.HomeCacheTTL),
		PostHandler:    handler.NewPostHandler(postService, groupService),
		CommentHandler: handler.NewCommentHandler(commentService),
		FollowHandler:  handler.NewFollowHandler(followService),
		JWTSecret:      cfg.JWTSecret,
	})

	// 6. Serve until interrupted
	server := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
