package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiscordGophers/dr-folio/content"
)

const articlePage = `<!doctype html>
<html>
<head><title> Crypto Fabric </title><style>body{}</style></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
  <header><h1>Crypto   Fabric</h1></header>
  <p>A profitability-first
     control center.</p>
  <h2>Highlights</h2>
  <ul><li>Scaling</li><li> Telemetry </li><li></li></ul>
  <ol><li>Evaluate</li><li>Promote</li></ol>
  <pre>
make dev
</pre>
  <section id="pricing">
    <h3>Pricing</h3>
    <p>Free to evaluate.</p>
  </section>
  <script>track()</script>
</article>
<footer>copyright</footer>
</body>
</html>`

const inlinePage = `<html><body><main>
<div>Read the <a href="/guide">full guide</a> before <strong>launch</strong>.</div>
<section>
  <span>Ships</span> <em>weekly</em><br>on Fridays
  <div>Nested block</div>
  trailing <code>text</code>
</section>
</main></body></html>`

const sitemapXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc></url>
  <url><loc> https://example.com/blog </loc></url>
  <url><loc></loc></url>
</urlset>`

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/crypto-fabric", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(articlePage))
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body>just text<p>and a paragraph</p></body></html>"))
	})
	mux.HandleFunc("/inline", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(inlinePage))
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sitemapXML))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrape(t *testing.T) {
	srv := newServer(t)

	page, err := Scrape(context.Background(), srv.Client(), srv.URL+"/crypto-fabric")
	require.NoError(t, err)

	assert.Equal(t, "Crypto Fabric", page.Title)
	assert.Equal(t, srv.URL+"/crypto-fabric", page.BaseURL)
	assert.Empty(t, page.Fragment)

	assert.Equal(t, []content.Block{
		content.Heading{Level: 1, Text: "Crypto Fabric"},
		content.Paragraph{Text: "A profitability-first control center."},
		content.Heading{Level: 2, Text: "Highlights"},
		content.List{Items: []string{"Scaling", "Telemetry"}},
		content.List{Ordered: true, Items: []string{"Evaluate", "Promote"}},
		content.Code{Text: "make dev"},
		content.Heading{Level: 3, Text: "Pricing"},
		content.Paragraph{Text: "Free to evaluate."},
	}, page.Blocks)
}

func TestScrapeFragment(t *testing.T) {
	srv := newServer(t)

	page, err := Scrape(context.Background(), srv.Client(), srv.URL+"/crypto-fabric#pricing")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/crypto-fabric", page.BaseURL)
	assert.Equal(t, "pricing", page.Fragment)
	assert.Equal(t, []content.Block{
		content.Heading{Level: 3, Text: "Pricing"},
		content.Paragraph{Text: "Free to evaluate."},
	}, page.Blocks)
}

func TestScrapeBodyFallback(t *testing.T) {
	srv := newServer(t)

	page, err := Scrape(context.Background(), srv.Client(), srv.URL+"/plain")
	require.NoError(t, err)

	assert.Equal(t, "just text\n\nand a paragraph", page.Text)
	assert.Len(t, page.Blocks, 2)
}

func TestScrapeInlineRuns(t *testing.T) {
	srv := newServer(t)

	page, err := Scrape(context.Background(), srv.Client(), srv.URL+"/inline")
	require.NoError(t, err)

	assert.Equal(t, []content.Block{
		content.Paragraph{Text: "Read the full guide before launch."},
		content.Paragraph{Text: "Ships weekly on Fridays"},
		content.Paragraph{Text: "Nested block"},
		content.Paragraph{Text: "trailing text"},
	}, page.Blocks)
}

func TestScrapeStatus(t *testing.T) {
	srv := newServer(t)

	_, err := Scrape(context.Background(), srv.Client(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestSitemap(t *testing.T) {
	srv := newServer(t)

	urls, err := Sitemap(context.Background(), srv.Client(), srv.URL+"/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/", "https://example.com/blog"}, urls)
}

func TestGroup(t *testing.T) {
	pages := []Page{
		{URL: "https://b.com/x#two", BaseURL: "https://b.com/x", Fragment: "two"},
		{URL: "https://a.com/", BaseURL: "https://a.com/"},
		{URL: "https://b.com/x", BaseURL: "https://b.com/x", Title: "base"},
		{URL: "https://b.com/x#one", BaseURL: "https://b.com/x", Fragment: "one"},
	}

	groups := Group(pages)
	require.Len(t, groups, 2)

	assert.Equal(t, "https://a.com/", groups[0].Base.URL)
	assert.Empty(t, groups[0].Fragments)

	assert.Equal(t, "base", groups[1].Base.Title)
	require.Len(t, groups[1].Fragments, 2)
	assert.Equal(t, "two", groups[1].Fragments[0].Fragment)
	assert.Equal(t, "one", groups[1].Fragments[1].Fragment)
}
