package generate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/schemaforge/internal/common"
	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/caching"
	"github.com/dtnitsch/schemaforge/pkg/db"
)

// GenerateAction runs the pipeline over every requested page and writes
// one JSON-LD payload per page.
func GenerateAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.IsSet("output-dir") {
		config.OutputDir = c.String("output-dir")
	}
	if c.IsSet("db") {
		config.DBPath = c.String("db")
	}

	jobs, err := collectJobs(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  schemaforge generate --urls "https://example.com/post,https://example.com/product"`)
		fmt.Fprintln(os.Stderr, `  schemaforge generate --files "page1.html,page2.html" --urls "https://a.com/1,https://a.com/2"`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: schemaforge generate --help")
		os.Exit(1)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		logger.Error("failed to create output directory", "dir", config.OutputDir, "error", err)
		os.Exit(2)
	}

	database, err := db.Open(config.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	var cache *caching.Cache
	if !c.Bool("force-fetch") {
		maxAge, err := time.ParseDuration(c.String("max-age"))
		if err != nil {
			logger.Error("invalid max-age duration", "error", err)
			os.Exit(2)
		}
		cache, err = caching.NewCache(filepath.Join(config.OutputDir, ".cache"), maxAge)
		if err != nil {
			logger.Error("failed to initialize markup cache", "error", err)
			os.Exit(2)
		}
	}

	results, runErr := run(logger, config, jobs, database, cache, c.Bool("script-tag"))

	output := BuildFinalOutput(results, time.Since(startTime))
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		logger.Error("failed to marshal final output", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(encoded))

	if runErr != nil {
		os.Exit(1)
	}
	return nil
}

// collectJobs builds the job list from the --urls and --files flags.
// With both set, files are paired positionally with URLs.
func collectJobs(c *cli.Context) ([]Job, error) {
	if !c.IsSet("urls") {
		return nil, fmt.Errorf("no URLs provided")
	}

	rawURLs := strings.Split(c.String("urls"), ",")
	sanitized, invalid := common.SanitizeAndValidateURLs(rawURLs)
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%d URL(s) are malformed (even after cleanup): %s",
			len(invalid), strings.Join(invalid, ", "))
	}

	jobs := make([]Job, len(sanitized))
	for i, u := range sanitized {
		jobs[i] = Job{URL: u}
	}

	if c.IsSet("files") {
		files := strings.Split(c.String("files"), ",")
		if len(files) != len(jobs) {
			return nil, fmt.Errorf("--files count (%d) must match --urls count (%d)", len(files), len(jobs))
		}
		for i, f := range files {
			jobs[i].FilePath = strings.TrimSpace(f)
		}
	}

	return jobs, nil
}
