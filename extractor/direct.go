package extractor

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/episodl/episodl/util"
	"github.com/samber/lo"
)

var mediaExtensions = []string{".mp4", ".mkv", ".webm", ".m4v", ".mov", ".avi", ".ts", ".m3u8"}

// Direct accepts links that already point at a media file.
type Direct struct{}

func (Direct) Name() string { return "direct" }

func (Direct) Supports(link string) bool {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return lo.Contains(mediaExtensions, ext)
}

func (d Direct) Extract(_ context.Context, link string) (*Media, error) {
	if !d.Supports(link) {
		return nil, ErrNoMedia
	}

	u, _ := url.Parse(link)
	base := path.Base(u.Path)
	return &Media{
		URL:      link,
		Title:    util.FileStem(base),
		Filename: util.SanitizeFilename(util.FileStem(base)) + path.Ext(base),
	}, nil
}
