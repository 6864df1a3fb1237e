package bootstrap

import (
	"context"
	"fmt"
	"time"

	"bioez-be/internal/config"
	"bioez-be/internal/controller"
	"bioez-be/internal/handler"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/repository/contract"
	"bioez-be/internal/repository/implementation"
	"bioez-be/internal/repository/memory"
	"bioez-be/internal/service"
	"bioez-be/internal/websocket"
	"bioez-be/pkg/biosearch"
	"bioez-be/pkg/database"
	"bioez-be/pkg/events"
	pktNats "bioez-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ProteinController  controller.IProteinController
	ChatController     controller.IChatController
	SearchController   controller.ISearchController
	DatabaseController controller.IDatabaseController

	// Realtime
	RealtimeHandler  *handler.RealtimeHandler
	WebSocketHub     *websocket.Hub
	RealtimeConsumer service.IRealtimeConsumer

	// ChatService is exposed so shutdown can wait for background replies.
	ChatService service.IChatService

	Logger      logger.ILogger
	DataSources *DataSources

	closers []func() error
}

func NewContainer(cfg *config.Config, log logger.ILogger) (*Container, error) {
	c := &Container{Logger: log}

	// 1. Remote collaborators
	ds, err := NewDataSources(cfg, log)
	if err != nil {
		return nil, err
	}
	c.DataSources = ds
	log.Info("BOOTSTRAP", "Data sources ready", map[string]interface{}{
		"fixture":      ds.Fixture,
		"fallback":     ds.Fallback,
		"llm_provider": cfg.Ai.LLMProvider,
		"databases":    cfg.Search.Databases,
	})

	// 2. Infrastructure
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		rdb = newRedisClient(cfg.App.RedisURL, log)
		c.closers = append(c.closers, rdb.Close)
	}

	repo, err := c.newStateRepository(cfg, rdb, log)
	if err != nil {
		c.Close()
		return nil, err
	}

	// 3. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256, BlockPublishUntilSubscriberAck: true},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to connect to NATS, external events disabled", map[string]interface{}{"error": err.Error()})
			natsPub = nil
		} else {
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	var publisher service.IEventPublisher = service.NewNopEventPublisher()
	if cfg.Storage.EventsEnabled {
		var external service.ExternalPublisher
		if natsPub != nil {
			external = natsPub
		}
		publisher = service.NewEventPublisher(pubSub, service.RealtimeTopic, external, []string{events.TypePredictionCompleted}, log)
	}

	// 4. WebSocket hub
	wsLogger := log
	if cfg.App.RealtimeLogPath != "" {
		wsLogger = logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	}
	c.WebSocketHub = websocket.NewHub(rdb, uuid.NewString(), wsLogger)
	c.RealtimeConsumer = service.NewRealtimeConsumer(pubSub, service.RealtimeTopic, c.WebSocketHub, wsLogger)

	// 5. Services
	workspaces := service.NewWorkspaceService(repo, ds.Predictor, ds.LLM, publisher, cfg.Storage.WorkspaceTTL, log)

	var sources []biosearch.Source
	resultCache := biosearch.NewResultCache(cfg.Search.CacheTTL)
	for _, src := range ds.Sources {
		if cfg.Search.CacheTTL > 0 {
			src = biosearch.NewCachedSource(src, resultCache)
		}
		sources = append(sources, src)
	}
	var delay biosearch.DelayPolicy = biosearch.NoDelay{}
	if cfg.Search.Delay > 0 {
		delay = biosearch.FixedDelay{Interval: cfg.Search.Delay}
	}
	orchestrator := biosearch.NewOrchestrator(sources, delay, cfg.Search.ResultLimit)

	proteinService := service.NewProteinService(publisher, log)
	c.ChatService = service.NewChatService(cfg.Ai.LLMTimeout, log)
	searchService := service.NewSearchService(orchestrator, publisher, log)
	databaseService := service.NewDatabaseService(ds.UniProt, ds.RCSB, time.Hour)

	// 6. Controllers
	c.ProteinController = controller.NewProteinController(workspaces, proteinService)
	c.ChatController = controller.NewChatController(workspaces, c.ChatService)
	c.SearchController = controller.NewSearchController(workspaces, searchService)
	c.DatabaseController = controller.NewDatabaseController(databaseService)
	c.RealtimeHandler = handler.NewRealtimeHandler(workspaces, c.WebSocketHub, wsLogger)

	return c, nil
}

func (c *Container) newStateRepository(cfg *config.Config, rdb *redis.Client, log logger.ILogger) (contract.StateRepository, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory, "":
		return memory.NewStateRepository(), nil

	case config.StorageRedis:
		if rdb == nil {
			return nil, fmt.Errorf("STORAGE_BACKEND=redis requires REDIS_URL")
		}
		return implementation.NewRedisStateRepository(rdb, 0), nil

	case config.StoragePostgres:
		if cfg.Database.Connection == "" {
			return nil, fmt.Errorf("STORAGE_BACKEND=postgres requires DB_CONNECTION_STRING")
		}
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsDevelopment())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to postgres: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, sqlDB.Close)
		}
		log.Info("BOOTSTRAP", "Using postgres state storage", nil)
		return implementation.NewStateRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND: %s", cfg.Storage.Backend)
	}
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	return rdb
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
