package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"

	"github.com/janhq/chat-assistant/internal/config"
	"github.com/janhq/chat-assistant/internal/domain/boardsync"
	"github.com/janhq/chat-assistant/internal/domain/catalog"
	"github.com/janhq/chat-assistant/internal/infrastructure/logger"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const (
	CatalogWarmSchedule = "*/5 * * * *"
	CronJobTimeout      = 10 * time.Minute // Timeout for each cron job execution
)

// BoardSyncer runs a full conversation board sync.
type BoardSyncer interface {
	SyncAll(ctx context.Context) (boardsync.Stats, error)
}

// CatalogWarmer refreshes the product cache when it went stale.
type CatalogWarmer interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

type Crontab struct {
	ctab         *crontab.Crontab
	boardSync    BoardSyncer
	catalog      CatalogWarmer
	syncSchedule string
}

// NewCrontab schedules the board sync when boardSync is non-nil and the catalog warm-up when
// products is non-nil.
func NewCrontab(cfg *config.Config, boardSync *boardsync.BoardSyncService, products *catalog.Cache) *Crontab {
	c := &Crontab{ctab: crontab.New(), syncSchedule: cfg.BoardSyncCron}
	if boardSync != nil && cfg.BoardSyncEnabled {
		c.boardSync = boardSync
	}
	if products != nil {
		c.catalog = products
	}
	return c
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	if c.catalog != nil {
		// execute once on server start
		c.warmCatalog(ctx)
		if err := c.ctab.AddJob(CatalogWarmSchedule, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.warmCatalog(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add catalog warm job")
		}
	}

	if c.boardSync != nil {
		if err := c.ctab.AddJob(c.syncSchedule, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.syncBoard(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add board sync job")
		}
		log.Info().Str("schedule", c.syncSchedule).Msg("Board sync scheduled")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) syncBoard(ctx context.Context) {
	log := logger.GetLogger()
	if _, err := c.boardSync.SyncAll(ctx); err != nil {
		log.Error().Err(err).Msg("Board sync failed")
	}
}

func (c *Crontab) warmCatalog(ctx context.Context) {
	log := logger.GetLogger()
	products, err := c.catalog.Products(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to warm product catalog")
		return
	}
	log.Debug().Int("products", len(products)).Msg("Product catalog warm")
}
