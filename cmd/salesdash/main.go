package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rewired-gh/salesdash/internal/config"
	"github.com/rewired-gh/salesdash/internal/logger"
	"github.com/rewired-gh/salesdash/internal/render"
	"github.com/rewired-gh/salesdash/internal/salesapi"
	"github.com/rewired-gh/salesdash/internal/server"
	"github.com/rewired-gh/salesdash/internal/telegram"
	"github.com/rewired-gh/salesdash/internal/view"
)

const pageTitle = "Sales Dashboard"

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	yearFlag   = flag.Int("year", 0, "Year to select after the initial load (0 keeps the default)")
	serveFlag  = flag.Bool("serve", false, "Serve the dashboard over HTTP instead of writing it once")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	first, last := cfg.Dashboard.YearRange()
	if *yearFlag != 0 && (*yearFlag < first || *yearFlag > last) {
		logger.Fatal("Year %d is outside the selectable range %d..%d", *yearFlag, first, last)
	}
	logger.Debug("Selectable years: %d..%d (forecast year %d)", first, last, cfg.Dashboard.ForecastYear)

	api := salesapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	page := render.NewPage(pageTitle)
	controller := view.New(api, page.View(), view.Options{
		CurrentYear:     cfg.Dashboard.CurrentYear,
		ForecastYear:    cfg.Dashboard.ForecastYear,
		InventoryPolicy: view.InventoryPolicy(cfg.Dashboard.InventoryPolicy),
	})

	var png *render.PNGExporter
	if cfg.Output.ChartDir != "" {
		png = render.NewPNGExporter(cfg.Output.ChartDir, cfg.Output.ChartWidth, cfg.Output.ChartHeight)
	}

	var telegramClient *telegram.Client
	if cfg.Telegram.Enabled {
		telegramClient, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	publish := func(ctx context.Context) {
		writeOutputs(page, png, cfg.Output)
		if telegramClient != nil {
			sel := page.Selection()
			if err := telegramClient.SendDashboard(telegram.Dashboard{
				Title:     pageTitle,
				Year:      sel.Year,
				Mode:      sel.Mode.String(),
				Sales:     page.SalesTable.Rows(),
				Inventory: page.InventoryTable.Rows(),
			}); err != nil {
				logger.Warn("Failed to publish dashboard to Telegram: %v", err)
			}
		}
	}

	if err := controller.Start(ctx); err != nil {
		logger.Fatal("Initial selection failed: %v", err)
	}
	if *yearFlag != 0 && *yearFlag != controller.DefaultYear() {
		if err := controller.SelectYear(ctx, *yearFlag); err != nil {
			logger.Fatal("Failed to select year: %v", err)
		}
	}
	page.SyncSelection(controller)

	if !*serveFlag {
		publish(ctx)
		logger.Info("Dashboard written")
		return
	}

	srv := server.New(controller, page, png, publish)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		logger.Fatal("Server error: %v", err)
	}
	logger.Info("Service stopped")
}

// writeOutputs writes the HTML page and, when enabled, the workbook and one PNG per chart.
// Failures are logged and do not affect the view.
func writeOutputs(page *render.Page, png *render.PNGExporter, out config.OutputConfig) {
	if err := page.WriteFile(out.HTMLPath); err != nil {
		logger.Warn("Failed to write HTML page: %v", err)
	} else {
		logger.Info("Dashboard page written to %s", out.HTMLPath)
	}

	if out.XLSXPath != "" {
		if err := page.WriteXLSXFile(out.XLSXPath); err != nil {
			logger.Warn("Failed to write workbook: %v", err)
		} else {
			logger.Info("Workbook written to %s", out.XLSXPath)
		}
	}

	if png == nil {
		return
	}
	paths, err := png.ExportPage(page)
	if err != nil {
		logger.Warn("Failed to export charts: %v", err)
	}
	for _, p := range paths {
		logger.Debug("Chart written to %s", p)
	}
}
