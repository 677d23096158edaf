package generate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dtnitsch/schemaforge/internal/common"
	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/caching"
	"github.com/dtnitsch/schemaforge/pkg/db"
	"github.com/dtnitsch/schemaforge/pkg/fetcher"
	"github.com/dtnitsch/schemaforge/pkg/parser"
	"github.com/dtnitsch/schemaforge/pkg/schema"
	"github.com/dtnitsch/schemaforge/pkg/storage"
)

func run(logger *slog.Logger, config *models.Config, jobsToRun []Job, database *db.DB, cache *caching.Cache, scriptTag bool) ([]Result, error) {
	f := fetcher.NewFetcher()
	s := &storage.Storage{}
	p := parser.New(logger)
	g := schema.NewGenerator(logger)
	g.HeadlineLimit = config.HeadlineLimit
	g.DescriptionLimit = config.DescriptionLimit

	logger.Info("Starting concurrent generate phase",
		"url_count", len(jobsToRun), "workers", config.WorkerCount)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(jobsToRun))
	results := make(chan Result, len(jobsToRun))

	for w := 1; w <= config.WorkerCount; w++ {
		wg.Add(1)
		go worker(w, logger, f, s, p, g, config.OutputDir, database, cache, scriptTag, &wg, jobs, results)
	}

	for _, job := range jobsToRun {
		jobs <- job
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All generate workers finished")

	allResults := make([]Result, 0, len(jobsToRun))
	var runErr error
	for result := range results {
		allResults = append(allResults, result)
		if result.Error != nil {
			runErr = fmt.Errorf("one or more jobs failed")
		}
	}

	return allResults, runErr
}

func worker(id int, logger *slog.Logger, f *fetcher.Fetcher, s *storage.Storage, p *parser.Parser, g *schema.Generator, outputDir string, database *db.DB, cache *caching.Cache, scriptTag bool, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started job", "worker_id", id, "url", job.URL)

		html, err := loadMarkup(id, logger, f, s, cache, job)
		if err != nil {
			logger.Error("Error loading markup", "worker_id", id, "url", job.URL, "error", err)
			results <- Result{URL: job.URL, Error: err, ErrorType: "fetch_error"}
			continue
		}

		results <- processPage(id, logger, s, p, g, outputDir, database, scriptTag, job.URL, html)
	}
}

// loadMarkup reads the page markup from disk, the cache, or the network.
func loadMarkup(id int, logger *slog.Logger, f *fetcher.Fetcher, s *storage.Storage, cache *caching.Cache, job Job) (string, error) {
	if job.FilePath != "" {
		data, err := s.ReadFile(job.FilePath)
		if err != nil {
			return "", fmt.Errorf("failed to read markup file: %w", err)
		}
		return string(data), nil
	}

	if cache != nil {
		if data, hit := cache.Get(job.URL); hit {
			logger.Info("Markup found in cache", "worker_id", id, "url", job.URL)
			return string(data), nil
		}
	}

	data, err := f.GetHtmlBytes(job.URL)
	if err != nil {
		return "", err
	}

	if cache != nil {
		if err := cache.Set(job.URL, data); err != nil {
			logger.Warn("Failed to cache markup", "url", job.URL, "error", err)
		}
	}

	return string(data), nil
}

func processPage(id int, logger *slog.Logger, s *storage.Storage, p *parser.Parser, g *schema.Generator, outputDir string, database *db.DB, scriptTag bool, url, html string) Result {
	result := Result{URL: url}

	content, err := p.Parse(url, html)
	if err != nil {
		logger.Error("Error parsing page", "worker_id", id, "url", url, "error", err)
		result.Error = err
		result.ErrorType = "parse_error"
		return result
	}

	collection := g.Generate(content)

	var payload []byte
	if scriptTag {
		tag, tagErr := collection.ScriptTag()
		if tagErr != nil {
			err = tagErr
		} else {
			payload = []byte(tag)
		}
	} else {
		payload, err = json.MarshalIndent(collection, "", "  ")
	}
	if err != nil {
		logger.Error("Error marshalling documents", "worker_id", id, "url", url, "error", err)
		result.Error = err
		result.ErrorType = "marshal_error"
		return result
	}

	outputPath := common.SavePathFor(outputDir, url)
	if err := s.SaveFile(outputPath, payload); err != nil {
		logger.Error("Error saving output", "worker_id", id, "url", url, "path", outputPath, "error", err)
		result.Error = err
		result.ErrorType = "save_error"
		return result
	}

	result.OutputPath = outputPath
	result.ContentType = string(content.ContentType)
	result.SourceType = string(content.SourceType)
	result.Confidence = content.ConfidenceScore
	result.DocumentCount = len(collection.Documents)
	result.FileSizeBytes = int64(len(payload))

	if database != nil {
		_, dbErr := database.RecordRun(db.RunRecord{
			URL:           url,
			SourceType:    result.SourceType,
			ContentType:   result.ContentType,
			Confidence:    result.Confidence,
			Capabilities:  content.ComputeCapabilities().Available(),
			DocumentCount: result.DocumentCount,
			JSONLD:        string(payload),
		})
		if dbErr != nil {
			logger.Warn("Failed to record run", "url", url, "error", dbErr)
		}
	}

	logger.Info("Worker finished processing",
		"worker_id", id, "url", url,
		"content_type", result.ContentType,
		"confidence", result.Confidence,
		"documents", result.DocumentCount)
	return result
}
