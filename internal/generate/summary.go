package generate

import "time"

// BuildFinalOutput aggregates per-URL results into the run summary
// printed to stdout.
func BuildFinalOutput(results []Result, elapsed time.Duration) FinalOutput {
	output := FinalOutput{
		Status:  "success",
		Results: make([]ResultOutput, 0, len(results)),
	}

	contentTypes := make(map[string]int)
	for _, r := range results {
		entry := ResultOutput{
			URL:           r.URL,
			OutputPath:    r.OutputPath,
			ContentType:   r.ContentType,
			Confidence:    r.Confidence,
			DocumentCount: r.DocumentCount,
		}
		if r.Error != nil {
			entry.Status = "failed"
			entry.Error = r.Error.Error()
			entry.ErrorType = r.ErrorType
			output.Stats.Failed++
		} else {
			entry.Status = "success"
			output.Stats.Successful++
			contentTypes[r.ContentType]++
		}
		output.Results = append(output.Results, entry)
	}

	output.Stats.TotalURLs = len(results)
	output.Stats.TotalTimeSeconds = elapsed.Seconds()
	if len(contentTypes) > 0 {
		output.Stats.ContentTypes = contentTypes
	}
	if output.Stats.Failed > 0 {
		output.Status = "partial_failure"
		if output.Stats.Successful == 0 {
			output.Status = "failed"
		}
	}

	return output
}
