// Package download implements the file download capability used to fetch browser builds and extension assets.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/util"
	"github.com/samber/mo"
)

// ErrExists is returned when the destination exists and overwriting was not requested.
var ErrExists = errors.New("destination file already exists")

// Task describes a single file to fetch.
type Task struct {
	Path      string
	URL       string
	Overwrite bool
	// Headers are sent in addition to the default User-Agent, which they may override.
	Headers map[string]string
	// Message is shown while the transfer runs.
	Message mo.Option[string]
}

// NewTask returns a task that refuses to overwrite and shows no label.
func NewTask(path, url string) Task {
	return Task{Path: path, URL: url, Message: mo.None[string]()}
}

// WithOverwrite sets the overwrite flag.
func (t Task) WithOverwrite(overwrite bool) Task {
	t.Overwrite = overwrite
	return t
}

// WithHeaders sets extra request headers.
func (t Task) WithHeaders(headers map[string]string) Task {
	t.Headers = headers
	return t
}

// WithMessage sets the progress label.
func (t Task) WithMessage(msg string) Task {
	t.Message = mo.Some(msg)
	return t
}

// Downloader fetches a task's URL into its path.
type Downloader interface {
	Download(ctx context.Context, task Task) error
}

// HTTP downloads over plain HTTP(S) into the active filesystem backend.
type HTTP struct {
	Client *http.Client
}

// NewHTTP returns a downloader using client.
func NewHTTP(client *http.Client) *HTTP {
	return &HTTP{Client: client}
}

// Download streams the body to a sibling ".part" file and renames it into place.
func (h *HTTP) Download(ctx context.Context, task Task) (err error) {
	fs := filesystem.API()

	if !task.Overwrite {
		exists, err := fs.Exists(task.Path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", task.Path, err)
		}
		if exists {
			return fmt.Errorf("%s: %w", task.Path, ErrExists)
		}
	}

	log.Debugf("downloading %s to %s", task.URL, task.Path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	for name, value := range task.Headers {
		req.Header.Set(name, value)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", task.URL, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", task.URL, resp.Status)
	}

	if err := fs.MkdirAll(filepath.Dir(task.Path), os.ModePerm); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	partial := task.Path + ".part"
	file, err := fs.Create(partial)
	if err != nil {
		return fmt.Errorf("create %s: %w", partial, err)
	}
	defer func() {
		if err != nil {
			_ = fs.Remove(partial)
		}
	}()

	var sink io.Writer = file
	if msg, ok := task.Message.Get(); ok {
		if resp.ContentLength > 0 {
			m := newMeter(os.Stdout, msg, resp.ContentLength)
			defer m.erase()
			sink = io.MultiWriter(file, m)
		} else {
			erase := util.PrintErasable(msg + "...")
			defer erase()
		}
	}

	if _, err = io.Copy(sink, resp.Body); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", partial, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", partial, err)
	}

	if err = fs.Rename(partial, task.Path); err != nil {
		return fmt.Errorf("move %s into place: %w", task.Path, err)
	}

	return nil
}
