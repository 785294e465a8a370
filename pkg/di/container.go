package di

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"todo-back/application/serviceimpl"
	"todo-back/domain/ports"
	"todo-back/domain/repositories"
	"todo-back/domain/services"
	"todo-back/infrastructure/messaging"
	natspkg "todo-back/infrastructure/nats"
	"todo-back/infrastructure/postgres"
	redispkg "todo-back/infrastructure/redis"
	"todo-back/infrastructure/websocket"
	"todo-back/interfaces/api/handlers"
	"todo-back/pkg/config"
	"todo-back/pkg/logger"
	"todo-back/pkg/scheduler"
)

type Container struct {
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client // Redis client สำหรับ cache (optional)
	NATSClient     *natspkg.Client  // NATS connection + JetStream (optional)
	EventScheduler scheduler.EventScheduler

	// Repositories
	TaskRepository repositories.TaskRepository

	// Services
	TaskService      services.TaskService
	RetentionService *serviceimpl.RetentionServiceImpl

	// Events
	EventPublisher   ports.TaskEventPublisherPort
	EventSubscriber  ports.TaskEventSubscriberPort
	WebSocketManager *websocket.Manager
	TaskBroadcaster  *websocket.TaskBroadcaster

	stopHub context.CancelFunc
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initEvents(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
		AppName:    c.Config.App.Name,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Driver:     c.Config.Database.Driver,
		Host:       c.Config.Database.Host,
		Port:       c.Config.Database.Port,
		User:       c.Config.Database.User,
		Password:   c.Config.Database.Password,
		DBName:     c.Config.Database.DBName,
		SSLMode:    c.Config.Database.SSLMode,
		SQLitePath: c.Config.Database.SQLitePath,
		LogLevel:   c.Config.Log.Level,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "driver", dbConfig.Driver, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Initialize Redis Client (optional - ถ้าไม่มีจะอ่านจาก database ตรง)
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
		}
	} else {
		logger.Info("Redis not configured (cache disabled)")
	}

	// Initialize NATS Client (optional - ถ้าไม่มี events ส่งถึงแค่ websocket ของ instance นี้)
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed (events stay in-process)", "error", err)
		} else {
			c.NATSClient = natsClient
		}
	} else {
		logger.Info("NATS not configured (events stay in-process)")
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initEvents() error {
	c.WebSocketManager = websocket.NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	c.stopHub = cancel
	go c.WebSocketManager.Run(ctx)

	if c.NATSClient != nil {
		c.EventPublisher = messaging.NewNATSTaskEventPublisher(
			natspkg.NewPublisher(c.NATSClient, c.Config.App.Name),
		)
		c.EventSubscriber = messaging.NewNATSTaskEventSubscriber(
			natspkg.NewSubscriber(c.NATSClient),
		)
		c.TaskBroadcaster = websocket.NewTaskBroadcaster(c.WebSocketManager, c.EventSubscriber)
		if err := c.TaskBroadcaster.Start(); err != nil {
			return err
		}
		logger.Info("Task events routed through NATS")
		return nil
	}

	c.TaskBroadcaster = websocket.NewTaskBroadcaster(c.WebSocketManager, nil)
	c.EventPublisher = c.TaskBroadcaster
	logger.Info("Task events delivered in-process")
	return nil
}

func (c *Container) initServices() error {
	c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.EventPublisher)

	if c.RedisClient != nil {
		ttl := time.Duration(c.Config.Redis.CacheTTLSeconds) * time.Second
		c.TaskService = serviceimpl.NewCachedTaskService(c.TaskService, c.RedisClient, ttl)
		logger.Info("Task list cache enabled", "ttl", ttl.String())
	}

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	c.RetentionService = serviceimpl.NewRetentionService(
		serviceimpl.RetentionConfig{
			Cron:   c.Config.Retention.Cron,
			MaxAge: time.Duration(c.Config.Retention.Days) * 24 * time.Hour,
		},
		c.TaskRepository,
		c.EventScheduler,
	)
	if err := c.RetentionService.RegisterPurgeJob(); err != nil {
		return err
	}

	c.EventScheduler.Start()
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.TaskBroadcaster != nil {
		if err := c.TaskBroadcaster.Stop(); err != nil {
			logger.Warn("Failed to stop task broadcaster", "error", err)
		}
	}

	if c.stopHub != nil {
		c.stopHub()
		<-c.WebSocketManager.Done()
	}

	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return logger.Close()
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	s := &handlers.Services{
		TaskService: c.TaskService,
		AppName:     c.Config.App.Name,
		DatabaseCheck: func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.RedisClient != nil {
		s.CacheCheck = c.RedisClient.Ping
	}
	if c.NATSClient != nil {
		s.EventsCheck = func(context.Context) error {
			if !c.NATSClient.IsConnected() {
				return errors.New("nats disconnected")
			}
			return c.NATSClient.Ping()
		}
	}
	return s
}
