package common

import "testing"

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "clean URL untouched",
			raw:  "https://example.com/page",
			want: "https://example.com/page",
		},
		{
			name: "whitespace trimmed",
			raw:  "  https://example.com/page  ",
			want: "https://example.com/page",
		},
		{
			name: "markdown link unwrapped",
			raw:  "[my page](https://example.com/page)",
			want: "https://example.com/page",
		},
		{
			name: "trailing comma removed",
			raw:  "https://example.com/page,",
			want: "https://example.com/page",
		},
		{
			name: "surrounding quotes removed",
			raw:  `"https://example.com/page"`,
			want: "https://example.com/page",
		},
		{
			name: "angle brackets removed",
			raw:  "<https://example.com/page>",
			want: "https://example.com/page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.raw); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeAndValidateURLs(t *testing.T) {
	urls := []string{
		"https://example.com/good",
		"  https://example.com/trimmed  ",
		"ftp://example.com/wrong-scheme",
		"https://example.com/has space",
		"not a url at all",
		"",
	}

	sanitized, invalid := SanitizeAndValidateURLs(urls)

	if len(sanitized) != 2 {
		t.Errorf("sanitized count = %d, want 2: %v", len(sanitized), sanitized)
	}
	if len(invalid) != 4 {
		t.Errorf("invalid count = %d, want 4: %v", len(invalid), invalid)
	}
	if len(sanitized) > 0 && sanitized[0] != "https://example.com/good" {
		t.Errorf("sanitized[0] = %q", sanitized[0])
	}
}

func TestSanitizeAndValidateURLs_BracesInHost(t *testing.T) {
	_, invalid := SanitizeAndValidateURLs([]string{"https://exa{mple}.com/page"})
	if len(invalid) != 1 {
		t.Errorf("invalid count = %d, want 1 for braces in host", len(invalid))
	}
}

func TestSavePathFor(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "host and path flattened",
			url:  "https://example.com/blog/my-post",
			want: "out/example_com-blog-my-post.json",
		},
		{
			name: "root URL uses host only",
			url:  "https://example.com/",
			want: "out/example_com.json",
		},
		{
			name: "dots in path replaced",
			url:  "https://example.com/index.html",
			want: "out/example_com-index_html.json",
		},
		{
			name: "different pages never collide",
			url:  "https://example.com/a/b",
			want: "out/example_com-a-b.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SavePathFor("out", tt.url); got != tt.want {
				t.Errorf("SavePathFor(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHash([]byte("hello"))
	c := ContentHash([]byte("world"))

	if a != b {
		t.Error("same content produced different hashes")
	}
	if a == c {
		t.Error("different content produced the same hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
