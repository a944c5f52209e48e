package app

import (
	"context"
	"fmt"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database"
	"talent-match/internal/database/migration"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/database/sqlite"
	"talent-match/internal/extraction"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/pipeline"
	"talent-match/internal/repository"
	"talent-match/internal/taxonomy"
	"talent-match/internal/usecase"
	"talent-match/internal/ws"
	"talent-match/migrations"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency shared by the server and the CLI.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis

	Profiles repository.ProfileRepository
	Scores   repository.MatchScoreRepository
	Skills   repository.SkillRepository
	Weights  repository.WeightsRepository

	Taxonomy     *taxonomy.Cache
	Shared       *taxonomy.SharedFetcher
	Extractor    *extraction.Extractor
	Hub          *ws.Hub
	MatchingUC   *usecase.Matching
	QueryUC      *usecase.MatchQuery
	ExtractionUC *usecase.Extraction
	WeightsUC    *usecase.WeightsService
	TaxonomyUC   *usecase.Taxonomy
	ReportUC     *usecase.Reports
	Rematch      *pipeline.Rematch
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := OpenDB(connectCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: log, DB: db}
	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)

	c.Profiles = repository.NewPostgresProfileRepository(db)
	c.Scores = repository.NewPostgresMatchScoreRepository(db)
	c.Skills = repository.NewPostgresSkillRepository(db)
	c.Weights = repository.NewPostgresWeightsRepository(db)

	c.Shared = taxonomy.NewSharedFetcher(c.Skills, c.Cache, cfg.Matching.TaxonomyTTL, log)
	c.Taxonomy = taxonomy.New(c.Shared,
		taxonomy.WithTTL(cfg.Matching.TaxonomyTTL),
		taxonomy.WithLogger(log),
	)
	c.Extractor = extraction.New(c.Taxonomy)

	c.Hub = ws.NewHub(log)
	skillSource := repository.NewFallbackSkillSource(
		repository.NewRelationalSkillSource(db),
		repository.EmbeddedJSONSkillSource{},
	)
	c.MatchingUC = usecase.NewMatchingUsecase(c.Profiles, skillSource, c.Scores, c.Weights,
		usecase.WithWorkers(cfg.Matching.Workers),
		usecase.WithDefaultLimit(cfg.Matching.Limit),
		usecase.WithListingCache(c.Cache),
		usecase.WithEvents(ws.NewNotifier(c.Hub, log)),
		usecase.WithMatchingLogger(log),
	)
	c.QueryUC = usecase.NewMatchQueryUsecase(c.Scores, c.Cache, log)
	c.ExtractionUC = usecase.NewExtractionUsecase(c.Extractor, c.Profiles, log)
	c.WeightsUC = usecase.NewWeightsUsecase(c.Weights, log)
	c.TaxonomyUC = usecase.NewTaxonomyUsecase(c.Skills, c.Taxonomy, c.Shared, log)
	c.ReportUC = usecase.NewReportUsecase(c.Profiles, c.Scores)
	c.Rematch = pipeline.NewRematch(c.MatchingUC, c.Profiles, log)

	return c, nil
}

// OpenDB connects to the configured driver.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	case config.DriverPostgres, "":
		return dbpostgres.Connect(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate applies the embedded migrations for the container's dialect.
func (c *Container) Migrate(ctx context.Context) error {
	fsys, err := migrations.For(c.DB.Dialect())
	if err != nil {
		return err
	}
	return migration.Runner{FS: fsys, Logger: c.Logger}.Run(ctx, c.DB)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
