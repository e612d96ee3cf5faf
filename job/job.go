// Package job runs a resolved download request: it picks an extractor, resolves
// the media and either saves it or hands it to the media player.
package job

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/episodl/episodl/download"
	"github.com/episodl/episodl/extractor"
	"github.com/episodl/episodl/limit"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/player"
	"github.com/episodl/episodl/request"
	"github.com/episodl/episodl/settings"
	"github.com/episodl/episodl/video"
)

// Job is everything resolved from the command line.
type Job struct {
	URL       string
	Target    video.Type
	Request   request.EpisodesRequest
	Extractor extractor.Selector
	Settings  settings.Download
	// Output is the directory downloads are written to.
	Output string
}

// Plan is the printable form of a job.
type Plan struct {
	URL       string                  `json:"url" jsonschema:"description=Page or media URL to fetch"`
	Target    string                  `json:"target" jsonschema:"description=Video type and language (raw / dub / sub / <lang>dub ...)"`
	Request   request.EpisodesRequest `json:"request" jsonschema:"description=Seasons and episodes to fetch"`
	Extractor string                  `json:"extractor" jsonschema:"description=Extractor name or auto"`
	Settings  PlanSettings            `json:"settings"`
}

// PlanSettings are the download settings with sentinels spelled out.
type PlanSettings struct {
	Concurrency      string `json:"concurrency" jsonschema:"description=INF or a positive number"`
	Retries          string `json:"retries" jsonschema:"description=INF or a positive number"`
	DDoSWaitEpisodes string `json:"ddos_wait_episodes" jsonschema:"description=NEVER or a positive number"`
	DDoSWaitMs       int64  `json:"ddos_wait_ms"`
	Player           bool   `json:"mpv"`
}

// Plan describes what Run would do.
func (j Job) Plan() Plan {
	return Plan{
		URL:       j.URL,
		Target:    j.Target.String(),
		Request:   j.Request,
		Extractor: j.Extractor.String(),
		Settings: PlanSettings{
			Concurrency:      j.Settings.Concurrency.String(),
			Retries:          j.Settings.Retries.String(),
			DDoSWaitEpisodes: j.Settings.DDoSWaitEpisodes.String(),
			DDoSWaitMs:       j.Settings.DDoSWait.Milliseconds(),
			Player:           j.Settings.Player,
		},
	}
}

// Runner executes jobs against its collaborators.
type Runner struct {
	Registry   *extractor.Registry
	Downloader download.Downloader
	Player     player.Player
	// Backoff is the pause between retries.
	Backoff time.Duration
}

// Run resolves job.URL through the selected extractor, then downloads or plays it.
func (r *Runner) Run(ctx context.Context, job Job) error {
	e, err := r.Registry.Pick(job.Extractor, job.URL)
	if err != nil {
		return err
	}
	log.Infof("using extractor %s for %s", e.Name(), job.URL)

	if job.Request.Shape != request.ShapeUnspecified {
		log.Warnf("%s resolves a single video, ignoring episode selection %s", e.Name(), job.Request)
	}

	throttle := job.Settings.Throttle()

	var media *extractor.Media
	err = r.retry(ctx, job.Settings.Retries, func() error {
		if err := throttle.Request(ctx); err != nil {
			return err
		}
		media, err = e.Extract(ctx, job.URL)
		return err
	})
	if err != nil {
		return fmt.Errorf("extract %s: %w", job.URL, err)
	}

	if job.Settings.Player {
		return r.Player.Play(ctx, media.URL, media.Title, media.Headers)
	}

	task := download.NewTask(filepath.Join(job.Output, media.Filename), media.URL).
		WithHeaders(media.Headers).
		WithMessage("Downloading " + media.Title)

	return r.retry(ctx, job.Settings.Retries, func() error {
		return r.Downloader.Download(ctx, task)
	})
}

// retry runs fn once plus up to retries more times. Unlimited retries stop
// only on success or cancellation. Existing destination files are never retried.
func (r *Runner) retry(ctx context.Context, retries limit.Limit, fn func() error) error {
	n, bounded := retries.Get().Get()

	for attempt := uint32(0); ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, download.ErrExists) || errors.Is(err, extractor.ErrUnsupported) || ctx.Err() != nil {
			return err
		}

		if bounded && attempt >= n {
			return err
		}

		log.Warnf("attempt %d failed: %s", attempt+1, err)
		if err := settings.Sleep(ctx, r.Backoff); err != nil {
			return err
		}
	}
}
