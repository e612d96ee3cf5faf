package extractor

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/episodl/episodl/browser"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/util"
)

// Launcher provides browser sessions on demand.
type Launcher interface {
	Provision(ctx context.Context) (*browser.Session, error)
}

// findMedia returns the first non-blob <video> source, falling back to
// media requests recorded by the resource timing buffer.
const findMedia = `
for (const video of document.querySelectorAll("video")) {
	const src = video.currentSrc || video.src;
	if (src && !src.startsWith("blob:")) return src;
	for (const source of video.querySelectorAll("source")) {
		if (source.src) return source.src;
	}
}
const entry = performance.getEntriesByType("resource")
	.map((e) => e.name)
	.find((name) => /\.(m3u8|mp4|webm|mkv)(\?|$)/i.test(name));
return entry || "";
`

// Page opens the URL in a provisioned browser and reads the media the page loads.
type Page struct {
	Browser  Launcher
	Attempts int
	Interval time.Duration
}

// NewPage returns a page extractor polling for up to ten seconds.
func NewPage(launcher Launcher) *Page {
	return &Page{Browser: launcher, Attempts: 20, Interval: 500 * time.Millisecond}
}

func (*Page) Name() string { return "page" }

func (*Page) Supports(link string) bool {
	u, err := url.Parse(link)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (p *Page) Extract(ctx context.Context, link string) (*Media, error) {
	session, err := p.Browser.Provision(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warnf("failed to close browser session: %s", err)
		}
	}()

	if err := session.WebDriver.Get(link); err != nil {
		return nil, fmt.Errorf("open %s: %w", link, err)
	}

	source, err := p.poll(ctx, session)
	if err != nil {
		return nil, err
	}

	title, err := session.WebDriver.Title()
	if err != nil || title == "" {
		title = path.Base(link)
	}

	ext := path.Ext(mediaPath(source))
	if ext == "" {
		ext = ".mp4"
	}

	return &Media{
		URL:   source,
		Title: title,
		Headers: map[string]string{
			"Referer":    link,
			"User-Agent": session.UserAgent().OrElse(constant.UserAgent),
		},
		Filename: util.SanitizeFilename(title) + ext,
	}, nil
}

func (p *Page) poll(ctx context.Context, session *browser.Session) (string, error) {
	for attempt := 1; attempt <= max(p.Attempts, 1); attempt++ {
		value, err := session.WebDriver.ExecuteScript(findMedia, nil)
		if err != nil {
			return "", fmt.Errorf("inspect page: %w", err)
		}

		if source, ok := value.(string); ok && source != "" {
			return source, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.Interval):
		}
	}

	return "", ErrNoMedia
}

func mediaPath(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	return u.Path
}
