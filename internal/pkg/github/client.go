package github

import (
	"context"
	"fmt"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"

	"github.com/google/go-github/github"
	"golang.org/x/oauth2"
)

// Uploader サイトが参照する画像の置き場所
type Uploader interface {
	UploadImage(ctx context.Context, path string, data []byte) (string, error)
}

// Client GitHub リポジトリをボイス画像の配信元として使うクライアント
type Client struct {
	gh     *github.Client
	owner  string
	repo   string
	branch string
}

func NewClient() *Client {
	cfg := config.Cfg.GitHub

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		gh:     github.NewClient(tc),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
	}
}

// UploadImage 画像をコミットして raw URL を返す
func (c *Client) UploadImage(ctx context.Context, path string, data []byte) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Add image " + path),
		Content: data,
		Branch:  github.String(c.branch),
	}

	resp, _, err := c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, path, opts)
	if err != nil {
		return "", fmt.Errorf("failed to upload image to github: %w", err)
	}

	if resp != nil && resp.Content != nil && resp.Content.DownloadURL != nil {
		return *resp.Content.DownloadURL, nil
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", c.owner, c.repo, c.branch, path), nil
}
