package classify

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test markup: %v", err)
	}
	return doc
}

func TestDetect_ProductBeatsEverything(t *testing.T) {
	// A page with strong editorial signals that still sells something.
	html := `<html><head>
		<meta property="article:published_time" content="2024-01-15T10:00:00Z">
	</head><body>
		<article><h1>Our new widget</h1><p>Add to cart today.</p></article>
	</body></html>`

	in := Input{
		URL: "https://example.com/blog/widget-launch",
		Doc: docFromHTML(t, html),
		Graph: jsongraph.Graph{
			"BlogPosting": []jsongraph.Node{{"@type": "BlogPosting"}},
		},
	}

	contentType, signals := Detect(in, testLogger())
	if contentType != models.ContentProduct {
		t.Errorf("Detect() = %q, want product", contentType)
	}
	if len(signals) != 0 {
		t.Errorf("signals = %v, want none once commerce wins", signals)
	}
}

func TestDetect_CommerceURLSegment(t *testing.T) {
	in := Input{
		URL:   "https://shop.example.com/products/widget",
		Doc:   docFromHTML(t, "<html><body><p>plain</p></body></html>"),
		Graph: jsongraph.Graph{},
	}

	contentType, _ := Detect(in, testLogger())
	if contentType != models.ContentProduct {
		t.Errorf("Detect() = %q, want product from URL segment", contentType)
	}
}

func TestDetect_DeclaredType(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		want     models.ContentType
	}{
		{name: "blog posting", typeName: "BlogPosting", want: models.ContentBlogPost},
		{name: "news article", typeName: "NewsArticle", want: models.ContentArticle},
		{name: "article", typeName: "Article", want: models.ContentArticle},
		{name: "service", typeName: "Service", want: models.ContentService},
		{name: "faq page", typeName: "FAQPage", want: models.ContentFAQ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				URL:   "https://example.com/page",
				Doc:   docFromHTML(t, "<html><body></body></html>"),
				Graph: jsongraph.Graph{tt.typeName: []jsongraph.Node{{"@type": tt.typeName}}},
			}

			contentType, signals := Detect(in, testLogger())
			if contentType != tt.want {
				t.Errorf("Detect() = %q, want %q", contentType, tt.want)
			}
			if len(signals) != 1 || !strings.HasPrefix(signals[0], "graph:") {
				t.Errorf("signals = %v, want single graph signal", signals)
			}
		})
	}
}

func TestDetect_TwoSignalsMakeArticle(t *testing.T) {
	html := `<html><head>
		<meta property="article:published_time" content="2024-01-15T10:00:00Z">
	</head><body>
		<article><p>Editorial text.</p></article>
	</body></html>`

	in := Input{
		URL:   "https://example.com/technology/new-chips",
		Doc:   docFromHTML(t, html),
		Graph: jsongraph.Graph{},
	}

	contentType, signals := Detect(in, testLogger())
	if contentType != models.ContentArticle {
		t.Errorf("Detect() = %q, want article", contentType)
	}
	if len(signals) < 2 {
		t.Errorf("signals = %v, want at least two", signals)
	}
}

func TestDetect_BlogURLRefinesToBlogPost(t *testing.T) {
	html := `<html><head>
		<meta property="article:published_time" content="2024-01-15T10:00:00Z">
	</head><body><article><p>Post text.</p></article></body></html>`

	in := Input{
		URL:   "https://example.com/blog/my-post",
		Doc:   docFromHTML(t, html),
		Graph: jsongraph.Graph{},
	}

	contentType, _ := Detect(in, testLogger())
	if contentType != models.ContentBlogPost {
		t.Errorf("Detect() = %q, want blog_post on /blog URL", contentType)
	}
}

func TestDetect_SingleSignalIsUnknown(t *testing.T) {
	html := `<html><body><article><p>Short text.</p></article></body></html>`

	in := Input{
		URL:   "https://example.com/page",
		Doc:   docFromHTML(t, html),
		Graph: jsongraph.Graph{},
	}

	contentType, signals := Detect(in, testLogger())
	if contentType != models.ContentUnknown {
		t.Errorf("Detect() = %q, want unknown on one signal", contentType)
	}
	if len(signals) != 1 || signals[0] != "article_element" {
		t.Errorf("signals = %v, want the partial signal carried forward", signals)
	}
}

func TestDetect_WeakURLSegments(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want models.ContentType
	}{
		{name: "service", url: "https://example.com/services/consulting", want: models.ContentService},
		{name: "about", url: "https://example.com/about-us", want: models.ContentAbout},
		{name: "contact", url: "https://example.com/contact", want: models.ContentContact},
		{name: "faq", url: "https://example.com/faq", want: models.ContentFAQ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				URL:   tt.url,
				Doc:   docFromHTML(t, "<html><body></body></html>"),
				Graph: jsongraph.Graph{},
			}

			contentType, _ := Detect(in, testLogger())
			if contentType != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.url, contentType, tt.want)
			}
		})
	}
}

func TestDetect_FAQDensity(t *testing.T) {
	in := Input{
		URL:   "https://example.com/help",
		Doc:   docFromHTML(t, "<html><body></body></html>"),
		Graph: jsongraph.Graph{},
		FAQ: []models.FAQItem{
			{Question: "A?", Answer: "a"},
			{Question: "B?", Answer: "b"},
			{Question: "C?", Answer: "c"},
		},
	}

	contentType, _ := Detect(in, testLogger())
	if contentType != models.ContentFAQ {
		t.Errorf("Detect() = %q, want faq at three pairs", contentType)
	}
}

func TestDetect_FAQBelowThreshold(t *testing.T) {
	in := Input{
		URL:   "https://example.com/help",
		Doc:   docFromHTML(t, "<html><body></body></html>"),
		Graph: jsongraph.Graph{},
		FAQ: []models.FAQItem{
			{Question: "A?", Answer: "a"},
			{Question: "B?", Answer: "b"},
		},
	}

	contentType, _ := Detect(in, testLogger())
	if contentType == models.ContentFAQ {
		t.Error("Detect() = faq below the three-pair threshold")
	}
}

func TestDetect_Homepage(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want models.ContentType
	}{
		{name: "bare domain", url: "https://example.com", want: models.ContentHome},
		{name: "root slash", url: "https://example.com/", want: models.ContentHome},
		{name: "index html", url: "https://example.com/index.html", want: models.ContentHome},
		{name: "index php", url: "https://example.com/index.php", want: models.ContentHome},
		{name: "deep path is not home", url: "https://example.com/deep/path", want: models.ContentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				URL:   tt.url,
				Doc:   docFromHTML(t, "<html><body></body></html>"),
				Graph: jsongraph.Graph{},
			}

			contentType, _ := Detect(in, testLogger())
			if contentType != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.url, contentType, tt.want)
			}
		})
	}
}

func TestArticleSignals_Collection(t *testing.T) {
	html := `<html><head>
		<meta property="article:published_time" content="2024-01-15T10:00:00Z">
		<meta property="article:modified_time" content="2024-01-16T10:00:00Z">
		<meta name="author" content="Jane Doe">
	</head><body>
		<article><p>Text.</p></article>
		<time datetime="2024-01-15">Jan 15</time>
	</body></html>`

	headings := []models.HeadingData{{Level: 1, Text: "Title"}}
	signals := articleSignals(docFromHTML(t, html), headings, "https://example.com/news/story", 400)

	want := map[string]bool{
		"article_element":   true,
		"published_time":    true,
		"modified_time":     true,
		"author":            true,
		"time_element":      true,
		"url_segment":       true,
		"long_form_content": true,
		"single_h1":         true,
	}
	got := map[string]bool{}
	for _, s := range signals {
		got[s] = true
	}
	for name := range want {
		if !got[name] {
			t.Errorf("missing signal %q in %v", name, signals)
		}
	}
}
