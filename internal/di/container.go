package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhnmartin/join-gradient/internal/client"
	"github.com/jhnmartin/join-gradient/internal/config"
	"github.com/jhnmartin/join-gradient/internal/database"
	"github.com/jhnmartin/join-gradient/internal/handler"
	"github.com/jhnmartin/join-gradient/internal/mapper"
	"github.com/jhnmartin/join-gradient/internal/repository"
	"github.com/jhnmartin/join-gradient/internal/service"
	"github.com/jhnmartin/join-gradient/internal/timeconv"
	"github.com/jhnmartin/join-gradient/pkg/logger"
)

// Container holds all wired dependencies for the sync service
type Container struct {
	Config *config.Config

	// Infrastructure (nil when the corresponding feature is disabled)
	DB    *database.PostgresDB
	Redis *redis.Client

	// Clients
	Webflow   client.WebflowClient
	OfficeRnd client.OfficeRndClient
	Klaviyo   client.KlaviyoClient

	// Repositories
	CorrelationRepo repository.CorrelationRepository

	// Services
	EventService  service.EventService
	MemberService service.MemberService

	// Handlers
	EventHandler  *handler.EventHandler
	MemberHandler *handler.MemberHandler
	SystemHandler *handler.SystemHandler
}

// NewContainer wires the full dependency graph from configuration
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		c.DB = db

		repo := repository.NewPostgresCorrelationRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ensure correlation schema: %w", err)
		}
		c.CorrelationRepo = repo
	}

	if cfg.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	c.Webflow = client.NewHTTPWebflowClient(client.WebflowConfig{
		BaseURL:      cfg.Webflow.BaseURL,
		AccessToken:  cfg.Webflow.AccessToken,
		CollectionID: cfg.Webflow.CollectionID,
		SiteID:       cfg.Webflow.SiteID,
		Timeout:      cfg.Webflow.Timeout,
	})
	c.OfficeRnd = client.NewHTTPOfficeRndClient(client.OfficeRndConfig{
		AuthURL:      cfg.OfficeRnd.AuthURL,
		BaseURL:      cfg.OfficeRnd.BaseURL,
		ClientID:     cfg.OfficeRnd.ClientID,
		ClientSecret: cfg.OfficeRnd.ClientSecret,
		OrgSlug:      cfg.OfficeRnd.OrgSlug,
		Scopes:       cfg.OfficeRnd.Scopes,
		Timeout:      cfg.OfficeRnd.Timeout,
	})
	c.Klaviyo = client.NewHTTPKlaviyoClient(client.KlaviyoConfig{
		BaseURL:  cfg.Klaviyo.BaseURL,
		APIKey:   cfg.Klaviyo.APIKey,
		Revision: cfg.Klaviyo.Revision,
		Timeout:  cfg.Klaviyo.Timeout,
	})

	policy := &timeconv.Policy{
		DefaultDuration: cfg.Sync.DefaultDuration,
		DSTStartMonth:   time.Month(cfg.Sync.DSTStartMonth),
		DSTEndMonth:     time.Month(cfg.Sync.DSTEndMonth),
		DSTOffset:       time.Duration(cfg.Sync.DSTOffsetHours) * time.Hour,
		StdOffset:       time.Duration(cfg.Sync.StdOffsetHours) * time.Hour,
	}

	c.EventService = service.NewEventService(&service.EventServiceConfig{
		Webflow:      c.Webflow,
		OfficeRnd:    c.OfficeRnd,
		Correlations: c.CorrelationRepo,
		Mapper:       mapper.New(policy),
		Policy:       policy,
		OfficeID:     cfg.OfficeRnd.OfficeID,
		Logger:       logger.Get(),
	})
	c.MemberService = service.NewMemberService(c.Klaviyo, cfg.Klaviyo.ListID, logger.Get())

	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.MemberHandler = handler.NewMemberHandler(c.MemberService)
	c.SystemHandler = handler.NewSystemHandler(cfg.Cron.Secret, c.DB)

	return c, nil
}

// Close releases infrastructure connections
func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
