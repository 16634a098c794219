package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"publications-backend/internal/config"
	pubHandler "publications-backend/internal/domains/publication/handler"
	pubRepo "publications-backend/internal/domains/publication/repository"
	pubService "publications-backend/internal/domains/publication/service"
	"publications-backend/internal/infrastructure/database"
	"publications-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the application's dependency graph.
type Container struct {
	// Infrastructure
	Config *config.Config
	DB     *database.PostgresDB

	// Repositories
	PublicationRepo pubRepo.PublicationRepository
	AuthorRepo      pubRepo.AuthorRepository
	TxManager       pubRepo.TxManager

	// Services
	PublicationService pubService.PublicationService
	SearchService      pubService.SearchService

	// Handlers
	PublicationHandler *pubHandler.PublicationHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in order: config, database, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	c := &Container{Config: cfg}

	if err := c.initDatabase(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Str("env", cfg.App.Environment).Msg("DI container ready")
	return c, nil
}

// initDatabase connects, checks the pool and makes sure the tables exist.
func (c *Container) initDatabase() error {
	db := database.NewPostgresDB(config.LoadDatabaseConfig(c.Config))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if err := database.EnsureSchema(ctx, db.Pool); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (c *Container) initRepositories() {
	queryTimeout := c.Config.Database.QueryTimeout

	c.PublicationRepo = pubRepo.NewPublicationRepository(c.DB.Pool, queryTimeout)
	c.AuthorRepo = pubRepo.NewAuthorRepository(c.DB.Pool, queryTimeout)
	c.TxManager = pubRepo.NewTxManager(c.DB.Pool, queryTimeout, c.Config.Database.TxTimeout)
}

func (c *Container) initServices() {
	c.PublicationService = pubService.NewPublicationService(c.PublicationRepo, c.AuthorRepo, c.TxManager)
	c.SearchService = pubService.NewSearchService(c.PublicationRepo, c.AuthorRepo)
}

func (c *Container) initHandlers() {
	c.PublicationHandler = pubHandler.NewPublicationHandler(c.PublicationService, c.SearchService)
}

// Cleanup releases the database pool. Safe to call more than once.
func (c *Container) Cleanup() {
	if c.DB == nil {
		return
	}
	if err := c.DB.Close(); err != nil {
		logger.Error("Failed to close database", err)
		return
	}
	log.Info().Msg("Container cleanup completed")
}
