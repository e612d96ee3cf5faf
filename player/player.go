// Package player hands finished downloads or direct streams to an external media player.
package player

import "context"

// Player plays a single target and returns once playback ends.
type Player interface {
	Play(ctx context.Context, target, title string, headers map[string]string) error
}
