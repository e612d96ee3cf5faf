package extension

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/util"
)

// ErrUnexpectedResponse is returned for any release metadata not shaped like the GitHub API.
var ErrUnexpectedResponse = errors.New("unexpected GitHub API json response")

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string
	DownloadURL string
}

// Release is the latest published version of the extension.
type Release struct {
	Tag    string
	Assets []Asset
}

// Feed reports the latest release.
type Feed interface {
	Latest(ctx context.Context) (*Release, error)
}

// GitHubFeed queries a GitHub "releases/latest" endpoint.
type GitHubFeed struct {
	URL    string
	Client *http.Client
}

// NewGitHubFeed returns a feed for the uBlock Origin repository.
func NewGitHubFeed(client *http.Client) *GitHubFeed {
	return &GitHubFeed{URL: constant.UBlockReleaseURL, Client: client}
}

func (g *GitHubFeed) Latest(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", constant.Episodl+"/"+constant.Version)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query release feed: %w", err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query release feed: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read release feed: %w", err)
	}

	return ParseRelease(body)
}

// ParseRelease decodes GitHub release metadata. A missing or mistyped
// tag_name, assets, name or browser_download_url field is rejected.
func ParseRelease(data []byte) (*Release, error) {
	var raw struct {
		TagName *string `json:"tag_name"`
		Assets  *[]struct {
			Name        *string `json:"name"`
			DownloadURL *string `json:"browser_download_url"`
		} `json:"assets"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrUnexpectedResponse
	}

	if raw.TagName == nil || raw.Assets == nil {
		return nil, ErrUnexpectedResponse
	}

	release := &Release{Tag: *raw.TagName}
	for _, asset := range *raw.Assets {
		if asset.Name == nil || asset.DownloadURL == nil {
			return nil, ErrUnexpectedResponse
		}
		release.Assets = append(release.Assets, Asset{Name: *asset.Name, DownloadURL: *asset.DownloadURL})
	}

	return release, nil
}
