package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustykeyboard1/DKScraper/internal/cache"
	"github.com/dustykeyboard1/DKScraper/internal/config"
	"github.com/dustykeyboard1/DKScraper/internal/dedup"
	"github.com/dustykeyboard1/DKScraper/internal/enrich"
	"github.com/dustykeyboard1/DKScraper/internal/model"
	"github.com/dustykeyboard1/DKScraper/internal/notifier"
	"github.com/dustykeyboard1/DKScraper/internal/pipeline"
	"github.com/dustykeyboard1/DKScraper/internal/providers/bbref"
	"github.com/dustykeyboard1/DKScraper/internal/providers/browser"
	"github.com/dustykeyboard1/DKScraper/internal/providers/draftkings"
	"github.com/dustykeyboard1/DKScraper/internal/providers/fantasypros"
	"github.com/dustykeyboard1/DKScraper/internal/publisher"
	"github.com/dustykeyboard1/DKScraper/internal/ratelimit"
	"github.com/dustykeyboard1/DKScraper/internal/runlog"
	"github.com/dustykeyboard1/DKScraper/internal/selector"
	"github.com/dustykeyboard1/DKScraper/internal/settler"
	"github.com/dustykeyboard1/DKScraper/internal/writer"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	stagesFlag := flag.String("stages", "", "comma separated stages to run (default: all)")
	once := flag.Bool("once", false, "run once even when a schedule is configured")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := cfg.Log.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to configure logging: %v\n", err)
		os.Exit(1)
	}
	log.Info("=== Prop Pipeline ===")

	stageNames := cfg.Schedule.Stages
	if *stagesFlag != "" {
		stageNames = strings.Split(*stagesFlag, ",")
	}
	stages, err := pipeline.ParseStages(stageNames)
	if err != nil {
		log.WithError(err).Fatal("invalid stages")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		cancel()
	}()

	// Redis is optional: shared throttle, dedup and the pick stream
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to Redis")
		}
		defer redisClient.Close()
		log.Info("✓ Connected to Redis")
	}

	// Postgres is optional: pick history and the run log
	var db *sql.DB
	if cfg.Postgres.DSN != "" {
		db, err = connectDB(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to Postgres")
		}
		defer db.Close()
		log.Info("✓ Connected to picks DB")
	}

	clf, err := model.LoadOrNew(cfg.Model.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to load model")
	}

	runner := &app{
		cfg:    cfg,
		log:    log,
		stages: stages,
		model:  clf,
		loader: browser.NewChromeLoader(cfg.Scrape.ChromeExecutable, cfg.Scrape.UserAgent, cfg.Scrape.PageTimeout),
	}
	if err := runner.wireOptional(ctx, redisClient, db); err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}

	if cfg.Schedule.Cron == "" || *once {
		if err := runner.run(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.VerbosePrintfLogger(log))),
	)
	if _, err := c.AddFunc(cfg.Schedule.Cron, func() { _ = runner.run(ctx) }); err != nil {
		log.WithError(err).WithField("cron", cfg.Schedule.Cron).Fatal("invalid schedule")
	}
	c.Start()
	log.WithField("cron", cfg.Schedule.Cron).Info("pipeline scheduled")

	<-ctx.Done()
	log.Info("🛑 Shutting down gracefully...")
	<-c.Stop().Done()
	log.Info("✓ Prop Pipeline stopped")
}

// app holds what survives between scheduled runs
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	stages []pipeline.Stage
	model  *model.Classifier
	loader browser.Loader

	limiter  ratelimit.Limiter
	notifier notifier.Notifier
	picks    *writer.PicksWriter
	runs     *runlog.RunLogger
	stream   *publisher.StreamPublisher
	dedup    *dedup.Deduplicator
}

func (a *app) wireOptional(ctx context.Context, redisClient *redis.Client, db *sql.DB) error {
	a.limiter = ratelimit.NewIntervalGate(a.cfg.Scrape.Delay)
	if redisClient != nil {
		if a.cfg.Scrape.SharedThrottle {
			a.limiter = ratelimit.NewRedisGate(redisClient, "basketball-reference", a.cfg.Scrape.Delay)
		}
		a.stream = publisher.NewStreamPublisher(redisClient, a.cfg.Redis.PickStream)
		a.dedup = dedup.NewDeduplicator(redisClient, a.cfg.Redis.DedupTTL)
	}

	if db != nil {
		a.picks = writer.NewPicksWriter(db)
		if err := a.picks.EnsureSchema(ctx); err != nil {
			return err
		}
		a.runs = runlog.NewRunLogger(db)
		if err := a.runs.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	var targets notifier.Multi
	if a.cfg.Email.Host != "" {
		e := a.cfg.Email
		targets = append(targets, notifier.NewEmailNotifier(e.Host, e.Port, e.Username, e.Password, e.From, e.To, a.log))
	}
	if a.cfg.Slack.WebhookURL != "" {
		targets = append(targets, notifier.NewSlackNotifier(a.cfg.Slack.WebhookURL, a.log))
	}
	if len(targets) > 0 {
		a.notifier = targets
	}
	return nil
}

// newPipeline builds a pipeline with fresh caches so every run sees the latest game logs
func (a *app) newPipeline() *pipeline.Pipeline {
	cfg := a.cfg

	client := bbref.New(a.limiter,
		bbref.WithBaseURL(cfg.Scrape.StatsBaseURL),
		bbref.WithSeason(cfg.Scrape.Season),
		bbref.WithTimeout(cfg.Scrape.Timeout),
		bbref.WithUserAgent(cfg.Scrape.UserAgent),
	)
	defense := fantasypros.NewScraper(a.loader, cfg.Scrape.DefenseURL, a.log)

	players := cache.NewPlayerCache(client.FetchPlayer, a.log)
	teams := cache.NewTeamCache(client.FetchTeamRecord, a.log)
	defenseTables := cache.NewDefenseCache(defense.FetchDefense, a.log)
	lastGames := cache.NewLastGameCache(client.FetchLastGame, a.log)

	var pickSettler settler.PickSettler
	deps := pipeline.Deps{
		Odds: draftkings.NewScraper(a.loader, cfg.Scrape.SportsbookURL, a.log),
		NewEnricher: func(asOf time.Time) pipeline.Enricher {
			return enrich.NewAnalyzer(players, teams, defenseTables, asOf, a.log)
		},
		Model: a.model,
		Selector: selector.New(selector.Options{
			StraightCount: cfg.Selection.StraightCount,
			ParlayCount:   cfg.Selection.ParlayCount,
			TopCount:      cfg.Selection.TopCount,
			DailyBudget:   decimal.NewFromFloat(cfg.Selection.DailyBudget),
			ParlayShare:   decimal.NewFromFloat(cfg.Selection.ParlayShare),
		}, a.log),
		Notifier: a.notifier,
	}
	if a.picks != nil {
		pickSettler = a.picks
		deps.Store = a.picks
	}
	if a.runs != nil {
		deps.Runs = a.runs
	}
	if a.stream != nil {
		deps.Publisher = a.stream
	}
	if a.dedup != nil {
		deps.Dedup = a.dedup
	}
	deps.Labeler = settler.NewSettler(lastGames, pickSettler, a.log)

	return pipeline.New(deps, pipeline.Options{
		Stages: a.stages,
		Paths: pipeline.Paths{
			Odds:        cfg.WorkbookPath(cfg.Workbooks.Odds),
			Enriched:    cfg.WorkbookPath(cfg.Workbooks.Enriched),
			Labeled:     cfg.WorkbookPath(cfg.Workbooks.Labeled),
			Predictions: cfg.WorkbookPath(cfg.Workbooks.Predictions),
			Picks:       cfg.WorkbookPath(cfg.Workbooks.Picks),
			Model:       cfg.Model.Path,
		},
		Params: model.Params{
			Epochs:       cfg.Model.Epochs,
			LearningRate: cfg.Model.LearningRate,
			L2:           cfg.Model.L2,
			Seed:         cfg.Model.Seed,
		},
		Incremental: cfg.Model.Incremental,
	}, a.log)
}

func (a *app) run(ctx context.Context) error {
	report, err := a.newPipeline().Run(ctx)
	if err != nil {
		a.log.WithError(err).WithField("run_id", report.RunID).Error("pipeline run failed")
		return err
	}
	if report.Selection != nil {
		fmt.Println(selector.Render(*report.Selection))
	}
	return nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing Redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func connectDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
