package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"QuantResearch/internal/calculator"
	"QuantResearch/internal/collector"
	"QuantResearch/internal/config"
	"QuantResearch/internal/dashboard"
	"QuantResearch/internal/notifier"
	"QuantResearch/internal/recorder"
	"QuantResearch/internal/scheduler"
	"QuantResearch/internal/viewstore"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	var (
		configFlag = flag.String("config", cfgPath, "path to the YAML config file")
		symbol     = flag.String("symbol", "", "ticker symbol (default from config)")
		days       = flag.Int("days", 0, "range length in days ending today")
		preset     = flag.String("range", "", "range preset: 5Y, 3Y, 1Y, 9M, 6M, 3M or 1M")
		start      = flag.String("start", "", "start date YYYY-MM-DD")
		end        = flag.String("end", "", "end date YYYY-MM-DD (default today)")
		overlays   = flag.String("overlays", "", "comma separated overlays: SMA,EMA,DEMA,TEMA,BB,RVWAP")
		panels     = flag.String("panels", "", "comma separated panels: MACD,ATR,RSI")
		weekly     = flag.Bool("weekly", false, "aggregate daily bars into weekly bars")
		asJSON     = flag.Bool("json", false, "print the chart frame as JSON instead of the text report")
		offline    = flag.Bool("offline", false, "use generated data instead of a market data provider")
		serve      = flag.Bool("serve", false, "run the scheduler and Telegram bot until interrupted")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *symbol != "" {
		cfg.Dashboard.Symbol = *symbol
	}
	if *days > 0 {
		cfg.Dashboard.RangeDays = *days
	}
	if *overlays != "" || *panels != "" {
		cfg.Dashboard.Overlays = splitList(*overlays)
		cfg.Dashboard.Panels = splitList(*panels)
	}
	if *weekly {
		cfg.Dashboard.Weekly = true
	}

	validate := cfg.Validate
	if *serve {
		validate = cfg.ValidateServe
	}
	if err := validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	col := collector.NewCollector(newFetcher(cfg, *offline), cfg.Params())
	state, rollDays, err := initialState(cfg, *preset, *start, *end, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, userMessage(cfg.Dashboard.Symbol, err))
		os.Exit(2)
	}

	if *serve {
		viewFlags := false
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "symbol", "days", "range", "start", "end", "overlays", "panels", "weekly":
				viewFlags = true
			}
		})
		runService(cfg, col, state, rollDays, viewFlags)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := runOnce(ctx, col, state, *asJSON); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(state.Symbol, err))
		os.Exit(1)
	}
}

func newFetcher(cfg *config.Config, offline bool) collector.Fetcher {
	var fetcher collector.Fetcher
	switch {
	case offline:
		fetcher = &collector.MockFetcher{Price: 100}
	case cfg.DataSource.BaseURL != "":
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy)
		for k, v := range cfg.DataSource.Aliases {
			yf.SymbolMap[strings.ToUpper(k)] = v
		}
		fetcher = yf
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	return fetcher
}

func runOnce(ctx context.Context, col *collector.Collector, state dashboard.ViewState, asJSON bool) error {
	req, err := state.Request()
	if err != nil {
		return err
	}
	analysis, err := col.Collect(ctx, req)
	if err != nil {
		return err
	}
	frame, err := dashboard.Render(state, analysis)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(frame)
	}
	summary, err := dashboard.Summarize(state, analysis)
	if err != nil {
		return err
	}
	fmt.Print(dashboard.FormatReport(summary))
	return nil
}

func runService(cfg *config.Config, col *collector.Collector, state dashboard.ViewState, rollDays int, viewFlags bool) {
	log.Println("[INFO] QuantResearch starting...")

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore the view left by the previous run
	snap, err := viewstore.Load(cfg.Dashboard.StateFile)
	if err != nil {
		log.Printf("[WARN] load view state: %v", err)
	}
	state, rollDays = restoreView(snap, state, rollDays, viewFlags)

	sched := scheduler.NewScheduler(ctx, col, tn, rec, state, rollDays)
	sched.StateFile = cfg.Dashboard.StateFile
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if cfg.Schedule.RunOnStart {
		log.Println("[INFO] run_on_start enabled, executing refresh now")
		go sched.RunNow()
	}

	log.Println("[INFO] QuantResearch is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] QuantResearch stopped")
}

func userMessage(symbol string, err error) string {
	switch {
	case errors.Is(err, collector.ErrNoData):
		return "No data found for " + strings.ToUpper(symbol)
	case errors.Is(err, dashboard.ErrNoSymbol):
		return "Please enter a ticker symbol"
	case errors.Is(err, calculator.ErrInvalidInput):
		return "Invalid input: " + err.Error()
	}
	return "Error: " + err.Error()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
