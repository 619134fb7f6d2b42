package render

import (
	"encoding/xml"
	"fmt"
	"time"

	"blog-publisher/internal/domain"
)

// staticPage is a fixed site section included in every sitemap.
type staticPage struct {
	Path       string
	Changefreq string
	Priority   string
}

// The static section set mirrors the site's hand-authored pages.
var staticPages = []staticPage{
	{Path: "", Changefreq: "weekly", Priority: "1.0"},
	{Path: "/learn", Changefreq: "monthly", Priority: "0.8"},
	{Path: "/trade", Changefreq: "monthly", Priority: "0.8"},
	{Path: "/lending", Changefreq: "monthly", Priority: "0.8"},
	{Path: "/blog", Changefreq: "daily", Priority: "0.9"},
	{Path: "/trading-strategies", Changefreq: "weekly", Priority: "0.8"},
	{Path: "/capital-growth", Changefreq: "weekly", Priority: "0.8"},
	{Path: "/daily-updates", Changefreq: "daily", Priority: "0.9"},
}

// StaticPageCount is the number of fixed entries every sitemap carries
// in addition to one entry per post.
const StaticPageCount = 8

type sitemapURL struct {
	Loc        string `xml:"loc"`
	Lastmod    string `xml:"lastmod"`
	Changefreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SiteRenderer produces the derived site documents: per-post pages,
// the sitemap and robots.txt.
type SiteRenderer struct {
	baseURL  string
	siteName string
}

// NewSiteRenderer creates a renderer for the given canonical base URL
// (no trailing slash) and site name.
func NewSiteRenderer(baseURL, siteName string) *SiteRenderer {
	return &SiteRenderer{baseURL: baseURL, siteName: siteName}
}

// Sitemap recomputes the full sitemap: one entry per static section
// plus one per post. Static entries use the given time as lastmod;
// posts use their publish date.
func (r *SiteRenderer) Sitemap(posts []domain.BlogPost, now time.Time) ([]byte, error) {
	today := now.UTC().Format("2006-01-02")

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(staticPages)+len(posts)),
	}
	for _, page := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        r.baseURL + page.Path,
			Lastmod:    today,
			Changefreq: page.Changefreq,
			Priority:   page.Priority,
		})
	}
	for _, post := range posts {
		lastmod := post.PublishDate
		if lastmod == "" {
			lastmod = today
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/blog/%s", r.baseURL, post.Slug),
			Lastmod:    lastmod,
			Changefreq: "monthly",
			Priority:   "0.7",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Robots returns the robots.txt document pointing at the sitemap.
func (r *SiteRenderer) Robots() []byte {
	return []byte(fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", r.baseURL))
}
