package help

const ColdstartYAML = `# schemaforge Quick Start

output_modes:
  json: "Bare JSON-LD per page (default)"
  script-tag: "Embeddable <script type=\"application/ld+json\"> tag (--script-tag)"

commands:
  basic_generate: |
    schemaforge generate --urls "https://example.com/blog/my-post"

  multiple_pages: |
    schemaforge generate --urls "https://shop.example.com/products/widget,https://example.com/about"

  local_markup: |
    schemaforge generate --urls "https://example.com/page" --files "page.html"

  embeddable_output: |
    schemaforge generate --urls "https://example.com/page" --script-tag

  refetch: |
    schemaforge generate --urls "https://example.com/page" --force-fetch

  run_history: |
    schemaforge history
    schemaforge history --limit 50

key_files:
  - "schemaforge-results/<host>-<path>.json (generated JSON-LD per page)"
  - "schemaforge-results/.cache/ (fetched markup, keyed by URL hash)"
  - "schemaforge.db (run history: content type, confidence, capabilities)"

document_rules:
  - "One generated document serializes as a single JSON object"
  - "Several documents serialize as a JSON array"
  - "Product fields are capability-gated: nothing extracted, nothing emitted"
  - "Dates normalize to YYYY-MM-DDTHH:MM:SSZ; unparseable dates are omitted"

classification:
  - "Commerce signals always win: any one makes the page a product"
  - "JSON-LD type declarations are trusted next (BlogPosting, Article, Service, FAQPage)"
  - "Two or more editorial signals make an article (blog_post on /blog or /post URLs)"
  - "Weak URL keywords, FAQ density, and homepage paths follow in order"

error_behavior:
  - "Malformed URLs: fail fast before fetching"
  - "Per-page extraction failures degrade to empty fields, never abort the run"
  - "Exit codes: 0=success, 1=one or more pages failed, 2=setup failure"
`
