package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"blog-publisher/internal/domain"
)

// Target publishes the post index and site artifacts by committing
// files to a GitHub repository through the contents API. The site's
// hosting platform rebuilds pages from the committed index, so
// PublishPage and Invalidate are no-ops here.
type Target struct {
	apiBaseURL string
	repo       string
	branch     string
	indexPath  string
	tokenRef   string
	secrets    domain.SecretStore
	client     *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	token string
}

// NewTarget builds a GitHub publish target. repo is "owner/name" and
// indexPath is the repo-relative path of the post index JSON file.
func NewTarget(apiBaseURL, repo, branch, indexPath, tokenRef string, secrets domain.SecretStore, client *http.Client, logger *slog.Logger) *Target {
	return &Target{
		apiBaseURL: apiBaseURL,
		repo:       repo,
		branch:     branch,
		indexPath:  indexPath,
		tokenRef:   tokenRef,
		secrets:    secrets,
		client:     client,
		logger:     logger,
	}
}

func (t *Target) Name() string { return "github" }

type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

type commitRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type commitResponse struct {
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// ReadIndex fetches the index file from the branch. A 404 yields an
// empty index with an empty version token so a fresh repository's
// first run creates the file.
func (t *Target) ReadIndex(ctx context.Context) ([]domain.BlogPost, string, error) {
	body, sha, err := t.getFile(ctx, t.indexPath)
	if err != nil {
		return nil, "", err
	}
	if sha == "" {
		t.logger.Info("post index not found, starting empty", slog.String("path", t.indexPath))
		return nil, "", nil
	}

	var posts []domain.BlogPost
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, "", fmt.Errorf("failed to parse post index: %w", err)
	}
	return posts, sha, nil
}

// WriteIndex commits the updated index. The version token is the blob
// sha from ReadIndex; GitHub rejects the commit when the file changed
// underneath us, which surfaces as domain.ErrIndexConflict.
func (t *Target) WriteIndex(ctx context.Context, posts []domain.BlogPost, version string) (string, error) {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode post index: %w", err)
	}

	message := "Update blog post index"
	if len(posts) > 0 && posts[0].Title != "" {
		newest := posts[0]
		message = fmt.Sprintf("Add blog post: %s\n\nDate: %s\nCategory: %s",
			newest.Title, newest.PublishDate, newest.Category)
	}
	return t.putFile(ctx, t.indexPath, message, data, version)
}

// PublishPage is a no-op: the hosting platform renders pages from the
// committed index.
func (t *Target) PublishPage(_ context.Context, _ domain.BlogPost) error { return nil }

// PublishSitemap commits sitemap.xml and robots.txt under public/.
// Each file's current blob sha is looked up first so the commit
// updates rather than conflicts.
func (t *Target) PublishSitemap(ctx context.Context, sitemap, robots []byte) error {
	files := []struct {
		path string
		body []byte
	}{
		{"public/sitemap.xml", sitemap},
		{"public/robots.txt", robots},
	}
	for _, f := range files {
		_, sha, err := t.getFile(ctx, f.path)
		if err != nil {
			return err
		}
		if _, err := t.putFile(ctx, f.path, "Update "+f.path, f.body, sha); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate is a no-op: cache freshness is the hosting platform's
// concern after a commit lands.
func (t *Target) Invalidate(_ context.Context, _ []string) error { return nil }

func (t *Target) getFile(ctx context.Context, path string) ([]byte, string, error) {
	token, err := t.resolveToken(ctx)
	if err != nil {
		return nil, "", err
	}

	url := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", t.apiBaseURL, t.repo, path, t.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	t.setHeaders(req, token)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("failed to fetch %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	var contents contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
		return nil, "", fmt.Errorf("failed to decode contents of %s: %w", path, err)
	}
	decoded, err := base64.StdEncoding.DecodeString(contents.Content)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s content: %w", path, err)
	}
	return decoded, contents.SHA, nil
}

func (t *Target) putFile(ctx context.Context, path, message string, body []byte, sha string) (string, error) {
	token, err := t.resolveToken(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(commitRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(body),
		Branch:  t.branch,
		SHA:     sha,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode commit request: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/contents/%s", t.apiBaseURL, t.repo, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	t.setHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to commit %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		return "", fmt.Errorf("commit of %s rejected with status %d: %w", path, resp.StatusCode, domain.ErrIndexConflict)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to commit %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}

	var commit commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&commit); err != nil {
		return "", fmt.Errorf("failed to decode commit response: %w", err)
	}
	t.logger.Info("committed file", slog.String("path", path), slog.String("commit", commit.Commit.SHA))
	return commit.Commit.SHA, nil
}

func (t *Target) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

func (t *Target) resolveToken(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.token != "" {
		return t.token, nil
	}
	token, err := t.secrets.GetSecret(ctx, t.tokenRef)
	if err != nil {
		return "", fmt.Errorf("failed to resolve repository token: %w", err)
	}
	t.token = token
	return token, nil
}

var _ domain.PublishTarget = (*Target)(nil)
