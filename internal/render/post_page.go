package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"blog-publisher/internal/domain"
)

type pageSection struct {
	Heading    string
	Paragraphs []string
}

type postPage struct {
	SiteName     string
	BaseURL      string
	CanonicalURL string
	Title        string
	Description  string
	Category     string
	Color        string
	ImageURL     string
	PublishDate  string
	Year         int
	Sections     []pageSection
	Schema       template.JS
}

// articleSchema is the JSON-LD structured-data block embedded in every
// rendered post document.
type articleSchema struct {
	Context       string        `json:"@context"`
	Type          string        `json:"@type"`
	Headline      string        `json:"headline"`
	Description   string        `json:"description"`
	Image         string        `json:"image"`
	DatePublished string        `json:"datePublished"`
	DateModified  string        `json:"dateModified"`
	Author        schemaOrg     `json:"author"`
	Publisher     schemaOrg     `json:"publisher"`
	MainEntity    schemaWebPage `json:"mainEntityOfPage"`
}

type schemaOrg struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type schemaWebPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// RenderPost renders a post into the self-contained publish document.
// The output depends only on the post record and the given time (used
// for dateModified and the copyright year), so re-rendering with the
// same inputs is byte-identical.
func (r *SiteRenderer) RenderPost(post domain.BlogPost, now time.Time) ([]byte, error) {
	canonical := fmt.Sprintf("%s/blog/%s", r.baseURL, post.Slug)

	schema, err := json.MarshalIndent(articleSchema{
		Context:       "https://schema.org",
		Type:          "Article",
		Headline:      post.Title,
		Description:   post.Description,
		Image:         r.baseURL + post.ImagePath,
		DatePublished: post.PublishDate,
		DateModified:  now.UTC().Format("2006-01-02"),
		Author:        schemaOrg{Type: "Organization", Name: r.siteName, URL: r.baseURL},
		Publisher:     schemaOrg{Type: "Organization", Name: r.siteName, URL: r.baseURL},
		MainEntity:    schemaWebPage{Type: "WebPage", ID: canonical},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal article schema: %w", err)
	}

	sections := make([]pageSection, 0, len(post.Sections))
	for _, s := range post.Sections {
		sections = append(sections, pageSection{
			Heading:    s.Heading,
			Paragraphs: s.Paragraphs(),
		})
	}

	var buf bytes.Buffer
	err = postTemplate.Execute(&buf, postPage{
		SiteName:     r.siteName,
		BaseURL:      r.baseURL,
		CanonicalURL: canonical,
		Title:        post.Title,
		Description:  post.Description,
		Category:     post.Category,
		Color:        post.CategoryColor,
		ImageURL:     r.baseURL + post.ImagePath,
		PublishDate:  post.PublishDate,
		Year:         now.UTC().Year(),
		Sections:     sections,
		Schema:       template.JS(schema),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render post page: %w", err)
	}
	return buf.Bytes(), nil
}

var postTemplate = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} | {{.SiteName}}</title>
  <meta name="description" content="{{.Description}}">
  <link rel="canonical" href="{{.CanonicalURL}}">
  <meta property="og:type" content="article">
  <meta property="og:title" content="{{.Title}}">
  <meta property="og:description" content="{{.Description}}">
  <meta property="og:url" content="{{.CanonicalURL}}">
  <meta property="og:image" content="{{.ImageURL}}">
  <meta property="article:published_time" content="{{.PublishDate}}">
  <meta name="twitter:card" content="summary_large_image">
  <meta name="twitter:title" content="{{.Title}}">
  <meta name="twitter:description" content="{{.Description}}">
  <meta name="twitter:image" content="{{.ImageURL}}">
  <script type="application/ld+json">
{{.Schema}}
  </script>
</head>
<body>
  <nav class="site-nav">
    <a href="{{.BaseURL}}" class="brand">{{.SiteName}}</a>
    <a href="{{.BaseURL}}/learn">Learn</a>
    <a href="{{.BaseURL}}/trade">Trade</a>
    <a href="{{.BaseURL}}/lending">Lending</a>
    <a href="{{.BaseURL}}/blog">Blog</a>
  </nav>
  <article>
    <header>
      <span class="category category-{{.Color}}">{{.Category}}</span>
      <h1>{{.Title}}</h1>
      <time datetime="{{.PublishDate}}">{{.PublishDate}}</time>
      <p class="lead">{{.Description}}</p>
    </header>
{{- range .Sections}}
    <section>
      <h2>{{.Heading}}</h2>
{{- range .Paragraphs}}
      <p>{{.}}</p>
{{- end}}
    </section>
{{- end}}
    <aside class="cta">
      <h3>Practice Risk-Free</h3>
      <p>Master these concepts with paper trading before risking real capital.</p>
      <a href="{{.BaseURL}}/learn" class="cta-button">Start Paper Trading</a>
    </aside>
    <footer class="disclaimer">
      <p><strong>Disclaimer:</strong> This article is for educational purposes only and
      does not constitute financial advice. Trading involves significant risk of loss.
      Cryptocurrency investments are volatile and high-risk. Always do your own
      research before making any investment decisions.</p>
    </footer>
  </article>
  <footer class="site-footer">
    <p>&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
  </footer>
</body>
</html>
`))
