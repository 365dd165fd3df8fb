package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/justin-aj/tailor-resume-ai/internal/config"
	"github.com/justin-aj/tailor-resume-ai/internal/database"
	"github.com/justin-aj/tailor-resume-ai/internal/database/migration"
	dbpostgres "github.com/justin-aj/tailor-resume-ai/internal/database/postgres"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/handler"
	"github.com/justin-aj/tailor-resume-ai/internal/infrastructure/cache"
	"github.com/justin-aj/tailor-resume-ai/internal/jobs"
	"github.com/justin-aj/tailor-resume-ai/internal/latex"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/jwt"
	"github.com/justin-aj/tailor-resume-ai/internal/scraper"
	"github.com/justin-aj/tailor-resume-ai/internal/storage"
	"github.com/justin-aj/tailor-resume-ai/internal/ws"
)

// Container wires the services. DB and JWT stay nil when their env is
// not configured; the compile endpoint degrades when no engine and no
// cloud endpoint is available.
type Container struct {
	Config   config.Config
	Logger   *log.Logger
	DB       database.DB
	Cache    *cache.Redis
	Files    *storage.Store
	Compiler handler.SourceCompiler
	Scraper  *scraper.Scraper
	Hub      *ws.Hub
	Jobs     *jobs.Service
	JWT      jwt.Service

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	files, err := storage.NewStore(cfg.Files.ResumePath, cfg.Files.NotesPath)
	if err != nil {
		return nil, err
	}

	compiler := buildCompiler(cfg.LaTeX, logger)

	redisCache := cache.NewRedis(logger)
	sc := scraper.New(scraper.Options{
		Timeout:             cfg.Scraper.Timeout,
		MaxDescriptionChars: cfg.Scraper.MaxDescriptionChars,
		TrimNoise:           true,
		Headless:            cfg.Scraper.HeadlessEnabled,
		CacheTTL:            cfg.Scraper.CacheTTL,
		BatchRateLimit:      cfg.Scraper.BatchRateLimit,
		Cache:               redisCache,
		Logger:              logger,
	})

	var db database.DB
	var jobStore jobs.Store = jobs.NewMemoryStore()
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err = dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := migration.Default().Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, err
		}
		jobStore = jobs.NewPostgresStore(db)
		logger.Printf("job store | backend=postgres host=%s db=%s", cfg.Database.DBHost, cfg.Database.DBName)
	} else {
		logger.Printf("job store | backend=memory")
	}

	hub := ws.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	jobsSvc := jobs.NewService(jobStore, sc, files, ws.NewJobNotifier(hub), logger)

	var jwtSvc jwt.Service
	if cfg.Auth.Enabled() {
		jwtSvc = jwt.NewHMACService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		logger.Printf("auth enabled | token_ttl=%s", cfg.Auth.TokenTTL)
	}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Cache:    redisCache,
		Files:    files,
		Compiler: compiler,
		Scraper:  sc,
		Hub:      hub,
		Jobs:     jobsSvc,
		JWT:      jwtSvc,
		stopHub:  stopHub,
	}, nil
}

func buildCompiler(cfg config.LaTeXConfig, logger *log.Logger) handler.SourceCompiler {
	local, err := latex.NewCompiler(cfg.Engine, cfg.PassTimeout, logger)
	if err == nil {
		return local
	}
	if !errors.Is(err, latex.ErrEngineMissing) {
		logger.Printf("latex engine probe failed | engine=%s err=%v", cfg.Engine, err)
	}

	if cloud := latex.NewCloudCompiler(cfg.CloudURL, cfg.PassTimeout, logger); cloud != nil {
		logger.Printf("latex engine not found, using cloud compiler | engine=%s endpoint=%s", cfg.Engine, cfg.CloudURL)
		return cloud
	}

	logger.Printf("latex engine not found, compile endpoint disabled | engine=%s", cfg.Engine)
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
