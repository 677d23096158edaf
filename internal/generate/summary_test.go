package generate

import (
	"errors"
	"testing"
	"time"
)

func TestBuildFinalOutput_AllSuccessful(t *testing.T) {
	results := []Result{
		{URL: "https://example.com/a", OutputPath: "out/a.json", ContentType: "article", Confidence: 0.9, DocumentCount: 2},
		{URL: "https://example.com/b", OutputPath: "out/b.json", ContentType: "product", Confidence: 0.8, DocumentCount: 1},
	}

	output := BuildFinalOutput(results, 3*time.Second)

	if output.Status != "success" {
		t.Errorf("Status = %q, want success", output.Status)
	}
	if output.Stats.TotalURLs != 2 || output.Stats.Successful != 2 || output.Stats.Failed != 0 {
		t.Errorf("Stats = %+v", output.Stats)
	}
	if output.Stats.ContentTypes["article"] != 1 || output.Stats.ContentTypes["product"] != 1 {
		t.Errorf("ContentTypes = %v", output.Stats.ContentTypes)
	}
	if output.Stats.TotalTimeSeconds != 3.0 {
		t.Errorf("TotalTimeSeconds = %v, want 3", output.Stats.TotalTimeSeconds)
	}
	if output.Results[0].Status != "success" {
		t.Errorf("Results[0].Status = %q", output.Results[0].Status)
	}
}

func TestBuildFinalOutput_PartialFailure(t *testing.T) {
	results := []Result{
		{URL: "https://example.com/a", ContentType: "article", Confidence: 0.9},
		{URL: "https://example.com/b", Error: errors.New("fetch failed"), ErrorType: "fetch_error"},
	}

	output := BuildFinalOutput(results, time.Second)

	if output.Status != "partial_failure" {
		t.Errorf("Status = %q, want partial_failure", output.Status)
	}
	if output.Stats.Successful != 1 || output.Stats.Failed != 1 {
		t.Errorf("Stats = %+v", output.Stats)
	}

	var failed ResultOutput
	for _, r := range output.Results {
		if r.Status == "failed" {
			failed = r
		}
	}
	if failed.Error != "fetch failed" || failed.ErrorType != "fetch_error" {
		t.Errorf("failed entry = %+v", failed)
	}
	// A failed page contributes nothing to the content-type tally
	if output.Stats.ContentTypes["article"] != 1 || len(output.Stats.ContentTypes) != 1 {
		t.Errorf("ContentTypes = %v", output.Stats.ContentTypes)
	}
}

func TestBuildFinalOutput_AllFailed(t *testing.T) {
	results := []Result{
		{URL: "https://example.com/a", Error: errors.New("boom"), ErrorType: "parse_error"},
	}

	output := BuildFinalOutput(results, time.Second)

	if output.Status != "failed" {
		t.Errorf("Status = %q, want failed", output.Status)
	}
	if output.Stats.Successful != 0 || output.Stats.Failed != 1 {
		t.Errorf("Stats = %+v", output.Stats)
	}
}

func TestBuildFinalOutput_Empty(t *testing.T) {
	output := BuildFinalOutput(nil, 0)

	if output.Status != "success" {
		t.Errorf("Status = %q, want success for empty run", output.Status)
	}
	if output.Stats.TotalURLs != 0 {
		t.Errorf("TotalURLs = %d, want 0", output.Stats.TotalURLs)
	}
	if output.Results == nil {
		t.Error("Results = nil, want empty slice for stable JSON output")
	}
}
