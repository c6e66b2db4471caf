package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"FibScope/internal/calculator"
	"FibScope/internal/chart"
	"FibScope/internal/collector"
	"FibScope/internal/config"
	"FibScope/internal/model"
	"FibScope/internal/notifier"
	"FibScope/internal/recorder"
	"FibScope/internal/render"
	"FibScope/internal/report"
	"FibScope/internal/scheduler"
	"FibScope/internal/server"
	"FibScope/internal/viewstate"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config path] build|serve\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "config file (.yaml or .toml)")
	flag.Usage = usage
	flag.Parse()

	cmd := "build"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer app.close()

	switch cmd {
	case "build":
		err = app.build(ctx)
	case "serve":
		err = app.serve(ctx)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("[FATAL] %s: %v", cmd, err)
	}
}

type app struct {
	cfg      *config.Config
	sched    *scheduler.Scheduler
	notifier *notifier.TelegramNotifier
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	fetcher := newFetcher(cfg)
	if cfg.Cache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] redis %s unreachable, caching disabled: %v", cfg.Cache.RedisAddr, err)
			rdb.Close()
		} else {
			fetcher = collector.NewCachingFetcher(rdb, cfg.CacheTTL(), fetcher, "fibscope:bars")
			a.closers = append(a.closers, rdb.Close)
		}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.Symbol)
	for _, tf := range model.Timeframes {
		lookback, fast, slow := cfg.Timeframe(tf)
		col.Settings[tf] = collector.TimeframeSettings{Lookback: lookback, FastMA: fast, SlowMA: slow}
	}

	def, _ := model.ParseTimeframe(cfg.DefaultTimeframe)
	trough, _ := calculator.ParseTroughSource(cfg.Fibonacci.TroughSource)
	comp := chart.NewComposer(cfg.Symbol, def, trough)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			a.closers = append(a.closers, sr.Close)
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	var sender scheduler.Sender
	if cfg.Telegram.BotToken != "" {
		a.notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = a.notifier
	}

	a.sched = scheduler.NewScheduler(ctx, col, comp, sender, rec, scheduler.Options{
		HTMLPath: cfg.Output.HTMLPath,
		PNGPath:  cfg.Output.PNGPath,
		HTML:     render.HTMLOptions{PlotlyJSURL: cfg.Output.PlotlyJSURL},
		Width:    cfg.Output.Width,
		Height:   cfg.Output.Height,
	})

	store, err := viewstate.NewStore(cfg.Output.StatePath, cfg.Symbol)
	if err != nil {
		log.Printf("[WARN] %v, starting from %s", err, cfg.DefaultTimeframe)
		store, _ = viewstate.NewStore("", cfg.Symbol)
	}
	a.sched.State = store
	return a, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderVsTrader:
		return collector.NewVsTraderFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy)
	case config.ProviderBinance:
		return collector.NewBinanceFetcher(ds.APIKey, ds.APISecret, ds.BaseURL, cfg.Proxy)
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 100, GapEvery: 37}
	default:
		f := collector.NewYahooFetcher(cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("[WARN] close: %v", err)
		}
	}
}

func (a *app) build(ctx context.Context) error {
	b, err := a.sched.Rebuild(ctx)
	if err != nil {
		return err
	}
	fmt.Println(report.SummaryTable(b.Report))
	fmt.Println(report.LevelsTable(b.Report))
	if err := b.Report.Err(); err != nil {
		log.Printf("[WARN] degraded build: %v", err)
	}
	return nil
}

func (a *app) serve(ctx context.Context) error {
	log.Println("[INFO] FibScope starting...")
	if _, err := a.sched.Rebuild(ctx); err != nil {
		log.Printf("[ERROR] initial build: %v", err)
	}

	if err := a.sched.Register(a.cfg.Schedule.RebuildCron); err != nil {
		return err
	}
	a.sched.Start()
	defer a.sched.Stop()

	if a.notifier != nil {
		go a.notifier.StartPolling(ctx, a.sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	h := server.NewChartHandler(a.sched, render.HTMLOptions{PlotlyJSURL: a.cfg.Output.PlotlyJSURL})
	err := server.Run(ctx, a.cfg.Server.Addr, server.NewRouter(h))
	log.Println("[INFO] FibScope stopped")
	return err
}
