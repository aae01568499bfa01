package ui

import (
	"net/url"
	"strings"

	"github.com/lepinkainen/fakecheck/session"
)

// CleanDroppedPath turns what a terminal pastes for a dropped file into a plain path.
// Terminals quote paths, escape spaces or paste a file:// URI depending on the platform.
func CleanDroppedPath(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 {
		if (p[0] == '\'' && p[len(p)-1] == '\'') || (p[0] == '"' && p[len(p)-1] == '"') {
			p = p[1 : len(p)-1]
		}
	}

	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil && u.Path != "" {
			return u.Path
		}
		return strings.TrimPrefix(p, "file://")
	}

	return strings.ReplaceAll(p, `\ `, " ")
}

// Listener adapts a channel to a controller listener.
// Sends never block: with a buffered channel of one, bursts collapse into a single wakeup.
func Listener(events chan<- struct{}) func(session.Snapshot) {
	return func(session.Snapshot) {
		select {
		case events <- struct{}{}:
		default:
		}
	}
}
