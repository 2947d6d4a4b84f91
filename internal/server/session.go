package server

import (
	"context"
	"time"

	"github.com/gincla/nightsky/pkg/viewer"
)

// session is one live viewer and its layout loop. Every request that
// resolves it pushes its expiry forward by the idle timeout.
type session struct {
	id      string
	viewer  *viewer.Viewer
	created time.Time
	ttl     time.Duration

	// expiresAt is guarded by Server.mu.
	expiresAt time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(id string, v *viewer.Viewer, now time.Time, ttl time.Duration) *session {
	return &session{
		id:        id,
		viewer:    v,
		created:   now,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
		done:      make(chan struct{}),
	}
}

func (s *session) expired(now time.Time) bool {
	return now.After(s.expiresAt)
}

func (s *session) touch(now time.Time) {
	s.expiresAt = now.Add(s.ttl)
}

// stop cancels the layout loop and waits for it to return.
func (s *session) stop() {
	s.cancel()
	<-s.done
}
