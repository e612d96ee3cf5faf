package player

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/episodl/episodl/log"
)

// MPV launches mpv for each target.
type MPV struct {
	Binary string

	run func(cmd *exec.Cmd) error
}

// NewMPV returns a player using the mpv found on PATH.
func NewMPV() *MPV {
	return &MPV{Binary: "mpv", run: (*exec.Cmd).Run}
}

func (m *MPV) Play(ctx context.Context, target, title string, headers map[string]string) error {
	args, err := Args(target, title, headers)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, m.Binary, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Cancel = func() error { return killProcess(cmd) }

	log.Debugf("starting %s %s", m.Binary, strings.Join(args, " "))
	if err := m.run(cmd); err != nil {
		return fmt.Errorf("run mpv: %w", err)
	}
	return nil
}

// Args builds the mpv command line for target. The target always comes last.
func Args(target, title string, headers map[string]string) ([]string, error) {
	safeTarget, err := sanitizeMediaTarget(target)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	args := []string{"--no-terminal", "--really-quiet"}

	if safeTitle := sanitizeTitle(title); safeTitle != "" {
		args = append(args,
			fmt.Sprintf("--force-media-title=%s", safeTitle),
			fmt.Sprintf("--title=%s", safeTitle),
		)
	}

	if fields := headerFields(headers); fields != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", fields))
	}

	return append(args, safeTarget), nil
}

// headerFields renders headers in mpv's comma separated form, sorted by name.
func headerFields(headers map[string]string) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		fields = append(fields, fmt.Sprintf("%s: %s", name, strings.ReplaceAll(headers[name], ",", "%2C")))
	}
	return strings.Join(fields, ",")
}

// sanitizeMediaTarget rejects targets mpv would read as flags or that use unsupported schemes.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
