package generate

// Job is one page to run through the pipeline. Exactly one of URL-fetch
// or local file input applies: when FilePath is set the markup is read
// from disk and URL is used only as the page identity.
type Job struct {
	URL      string
	FilePath string
}

// Result holds the outcome of a processed job.
type Result struct {
	URL           string
	OutputPath    string
	ContentType   string
	SourceType    string
	Confidence    float64
	DocumentCount int
	FileSizeBytes int64
	Error         error
	ErrorType     string
}

// ResultOutput is the structured output for a single URL.
type ResultOutput struct {
	URL           string  `json:"url"`
	OutputPath    string  `json:"output_path,omitempty"`
	Status        string  `json:"status"`
	ContentType   string  `json:"content_type,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
	DocumentCount int     `json:"document_count,omitempty"`
	Error         string  `json:"error,omitempty"`
	ErrorType     string  `json:"error_type,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string         `json:"status"`
	Results []ResultOutput `json:"results"`
	Stats   Stats          `json:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalURLs        int            `json:"total_urls"`
	Successful       int            `json:"successful"`
	Failed           int            `json:"failed"`
	TotalTimeSeconds float64        `json:"total_time_seconds"`
	ContentTypes     map[string]int `json:"content_types,omitempty"`
}
