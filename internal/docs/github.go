// ABOUTME: Fetches the document folder from the GitHub contents API
// ABOUTME: Lists the folder, downloads every .txt file, returns name-to-text

package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.github.com"

// GitHubFetcher loads .txt documents from a folder of a GitHub repository.
type GitHubFetcher struct {
	owner   string
	repo    string
	branch  string
	folder  string
	token   string
	apiBase string
	client  *http.Client
	logger  *slog.Logger
}

// GitHubConfig identifies the repository folder to fetch. Token is
// optional and only needed for private repositories or rate limits.
type GitHubConfig struct {
	Owner  string
	Repo   string
	Branch string
	Folder string
	Token  string

	// APIBase overrides the GitHub API endpoint, used in tests.
	APIBase string
}

// NewGitHubFetcher creates a fetcher for the given repository folder.
func NewGitHubFetcher(cfg GitHubConfig, logger *slog.Logger) *GitHubFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &GitHubFetcher{
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		branch:  cfg.Branch,
		folder:  cfg.Folder,
		token:   cfg.Token,
		apiBase: apiBase,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With("component", "docs"),
	}
}

// contentsEntry is the subset of the contents API response we read.
type contentsEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// Fetch lists the configured folder and downloads every .txt file.
func (f *GitHubFetcher) Fetch(ctx context.Context) (map[string]string, error) {
	listURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		f.apiBase, f.owner, f.repo, f.folder, f.branch)

	body, err := f.get(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("listing %s/%s/%s: %w", f.owner, f.repo, f.folder, err)
	}

	var entries []contentsEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parsing contents listing: %w", err)
	}

	fetched := make(map[string]string)
	for _, entry := range entries {
		if entry.Type != "file" || !strings.HasSuffix(entry.Name, ".txt") {
			continue
		}
		text, err := f.get(ctx, entry.DownloadURL)
		if err != nil {
			return nil, fmt.Errorf("downloading %s: %w", entry.Name, err)
		}
		fetched[entry.Name] = string(text)
	}

	f.logger.Info("documents fetched",
		"count", len(fetched),
		"repo", f.owner+"/"+f.repo,
		"folder", f.folder)
	return fetched, nil
}

func (f *GitHubFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
