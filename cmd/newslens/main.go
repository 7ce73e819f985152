package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"newslens/internal/config"
	"newslens/internal/fetcher"
	"newslens/internal/headlines"
	"newslens/internal/logger"
	"newslens/internal/metrics"
	"newslens/internal/models"
	"newslens/internal/pipeline"
	"newslens/internal/ratelimit"
	"newslens/internal/storage"
	"newslens/internal/telegram"
	"newslens/internal/textproc"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	if err := textproc.EnsureResources(cfg.StopwordsPath, cfg.StopwordsURL); err != nil {
		logger.Warn("stopword resources unavailable, using embedded list", "error", err)
	}

	svc := buildService(cfg)
	runMenu(svc)
}

func buildService(cfg *config.Config) *pipeline.Service {
	limiter := ratelimit.NewAIRateLimiter(cfg.MaxHFRequests, cfg.MaxGeminiRequests, cfg.MaxOpenAIRequests, cfg.MaxAIRequests)
	registry := models.NewRegistry(cfg, limiter)

	fetch := fetcher.New(cfg.ConnectTimeout, cfg.ReadTimeout,
		fetcher.WithBlocklist(cfg.BlockedDomains),
		fetcher.WithMinChars(cfg.MinArticleChars),
	)

	var providers []headlines.Provider
	if cfg.NewsAPIKey != "" {
		providers = append(providers, headlines.NewNewsAPI(cfg.NewsAPIKey, cfg.NewsAPIBaseURL))
	}
	if feeds, err := headlines.LoadFeeds(cfg.FeedsConfigPath); err == nil {
		providers = append(providers, headlines.NewRSS(feeds))
	} else {
		logger.Warn("feeds config not loaded", "path", cfg.FeedsConfigPath, "error", err)
	}
	source := headlines.NewMulti(providers...)

	var opts []pipeline.ServiceOption

	var inference storage.InferenceCache
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresCache(cfg.DatabaseURL, cfg.CacheTTLHours)
		if err != nil {
			logger.Warn("postgres cache unavailable, falling back to file cache", "error", err)
		} else {
			inference = pg
		}
	}
	if inference == nil {
		fc := storage.NewFileCache(cfg.CacheFilePath, cfg.CacheTTLHours)
		if err := fc.Load(); err != nil {
			logger.Warn("file cache not loaded", "error", err)
		}
		inference = fc
	}
	opts = append(opts, pipeline.WithInferenceCache(inference))

	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		opts = append(opts, pipeline.WithNotifier(telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)))
	}

	return pipeline.New(cfg, registry, fetch, source, opts...)
}

func runMenu(svc *pipeline.Service) {
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println(" NEWS ASSISTANT & PRESS REVIEW")
		fmt.Println(strings.Repeat("=", 50))
		for i, cat := range headlines.Categories {
			fmt.Printf("%d. %s\n", i+1, capitalize(cat))
		}
		fmt.Println("q. Quit")

		fmt.Print("\nSelect your area of interest: ")
		choice := readLine(reader)
		if strings.EqualFold(choice, "q") {
			return
		}

		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(headlines.Categories) {
			continue
		}
		category := headlines.Categories[idx-1]

		briefing, err := svc.GenerateBriefing(ctx, category)
		if err != nil {
			fmt.Printf("Briefing failed: %v\n", err)
			continue
		}
		fmt.Println("\n" + pipeline.FormatBriefing(briefing, category))

		if len(briefing.Headlines) == 0 {
			fmt.Println("News not found.")
			continue
		}

		fmt.Print("\nAnalyse a specific article? (number, or 'b' to go back): ")
		sel := readLine(reader)
		if strings.EqualFold(sel, "b") {
			continue
		}

		n, err := strconv.Atoi(sel)
		if err != nil || n < 1 || n > len(briefing.Headlines) {
			fmt.Println("Invalid number.")
			continue
		}
		selected := briefing.Headlines[n-1]

		fmt.Printf("\n--- In-depth analysis: %s ---\n", selected.Title)
		result, err := svc.AnalyzeArticle(ctx, selected.URL)
		if err != nil {
			fmt.Println("Impossible to analyse the article.")
			continue
		}

		fmt.Println("\n" + pipeline.FormatAnalysis(result))

		fmt.Print("Read the full article? (y/n): ")
		if strings.EqualFold(readLine(reader), "y") {
			fmt.Println("\n--- FULL ARTICLE ---")
			fmt.Println(result.FullText)
		}
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	logger.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
