// Package github refreshes repository stats for projects that link a GitHub
// repo. Runs nightly from the scheduler; failures on one repo never stop the
// pass.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sahan-dev/portfolio-backend/internal/projects"
)

type projectStore interface {
	ListWithGithubURL(ctx context.Context) ([]projects.Project, error)
	UpdateStars(ctx context.Context, id int64, stars int) error
}

type Syncer struct {
	store   projectStore
	client  *http.Client
	limiter *rate.Limiter
	token   string
	baseURL string
}

func NewSyncer(store projectStore, token string) *Syncer {
	return &Syncer{
		store:  store,
		client: &http.Client{Timeout: 10 * time.Second},
		// Unauthenticated GitHub API allows 60 req/h; stay well under it.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		token:   token,
		baseURL: "https://api.github.com",
	}
}

// SyncAll refreshes github_stars for every project with a GitHub URL.
func (s *Syncer) SyncAll(ctx context.Context) error {
	items, err := s.store.ListWithGithubURL(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	var failed int
	for _, p := range items {
		if p.GithubURL == nil {
			continue
		}

		repoPath, err := parseRepoPath(*p.GithubURL)
		if err != nil {
			log.Warn().Int64("project_id", p.ID).Str("url", *p.GithubURL).Msg("not a github repo URL, skipping")
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		stars, err := s.fetchStars(ctx, repoPath)
		if err != nil {
			log.Warn().Err(err).Str("repo", repoPath).Msg("fetch repo stats")
			failed++
			continue
		}

		if err := s.store.UpdateStars(ctx, p.ID, stars); err != nil {
			log.Warn().Err(err).Int64("project_id", p.ID).Msg("store repo stats")
			failed++
		}
	}

	log.Info().Int("projects", len(items)).Int("failed", failed).Msg("github stats sync finished")
	return nil
}

func (s *Syncer) fetchStars(ctx context.Context, repoPath string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/repos/"+repoPath, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("github API returned %d for %s", resp.StatusCode, repoPath)
	}

	var body struct {
		StargazersCount int `json:"stargazers_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode repo response: %w", err)
	}

	return body.StargazersCount, nil
}

// parseRepoPath extracts "owner/repo" from a GitHub repository URL.
func parseRepoPath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host != "github.com" && u.Host != "www.github.com" {
		return "", fmt.Errorf("not a github.com URL: %s", raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("URL has no owner/repo path: %s", raw)
	}

	return parts[0] + "/" + strings.TrimSuffix(parts[1], ".git"), nil
}
