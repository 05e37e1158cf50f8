package services

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/joshua-takyi/devnet/internal/config"
	"github.com/joshua-takyi/devnet/internal/models"
)

type Repository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	ForksCount      int       `json:"forks_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// RepositoryLookup lists a user's public repositories on a third-party host.
type RepositoryLookup interface {
	Repositories(ctx context.Context, username string) ([]Repository, error)
}

type GithubService struct {
	cfg    config.GithubConfig
	client *github.Client
	logger *slog.Logger
}

// NewGithubService authenticates every request with the OAuth app id and
// secret as basic auth and targets cfg.APIURL.
func NewGithubService(cfg config.GithubConfig, httpClient *http.Client, logger *slog.Logger) *GithubService {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	transport := &github.BasicAuthTransport{
		Username:  cfg.ClientID,
		Password:  cfg.Secret,
		Transport: httpClient.Transport,
	}
	client := github.NewClient(transport.Client())
	client.UserAgent = "devnet-api"

	if cfg.APIURL != "" {
		baseURL, err := url.Parse(strings.TrimRight(cfg.APIURL, "/") + "/")
		if err != nil {
			logger.Warn("invalid github api url, using default", "url", cfg.APIURL, "error", err)
		} else {
			client.BaseURL = baseURL
		}
	}

	return &GithubService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Repositories returns the five oldest repositories of username. Every
// failure, including the timeout, is reported as ErrGithubProfileNotFound.
func (gs *GithubService) Repositories(ctx context.Context, username string) ([]Repository, error) {
	if gs.cfg.ClientID == "" || gs.cfg.Secret == "" {
		gs.logger.Warn("github lookup skipped, credentials not configured")
		return nil, models.ErrGithubProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, gs.cfg.Timeout)
	defer cancel()

	found, resp, err := gs.client.Repositories.ListByUser(ctx, username, &github.RepositoryListByUserOptions{
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 5},
	})
	if err != nil {
		if resp != nil && resp.Response != nil {
			gs.logger.Info("github lookup returned non-success", "username", username, "status", resp.StatusCode)
		} else {
			gs.logger.Warn("github request failed", "username", username, "error", err)
		}
		return nil, models.ErrGithubProfileNotFound
	}

	repos := make([]Repository, 0, len(found))
	for _, r := range found {
		repos = append(repos, Repository{
			ID:              r.GetID(),
			Name:            r.GetName(),
			FullName:        r.GetFullName(),
			HTMLURL:         r.GetHTMLURL(),
			Description:     r.GetDescription(),
			Language:        r.GetLanguage(),
			StargazersCount: r.GetStargazersCount(),
			WatchersCount:   r.GetWatchersCount(),
			ForksCount:      r.GetForksCount(),
			CreatedAt:       r.GetCreatedAt().Time,
		})
	}
	return repos, nil
}
