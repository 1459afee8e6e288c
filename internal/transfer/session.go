package transfer

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/studyshare/docview/internal/artifact"
)

// Session is the bounded lifetime of one in-flight download. A session runs
// at most once: duplicate Start calls are rejected without side effects, so
// the engine stays idempotent against re-entrant requests even when the
// caller's own guard slips.
type Session struct {
	ID uuid.UUID

	engine  *Engine
	started atomic.Bool
	latest  atomic.Value // Progress
}

// NewSession creates a session bound to the engine.
func (e *Engine) NewSession() *Session {
	return &Session{
		ID:     uuid.New(),
		engine: e,
	}
}

// Start runs the download. The second and later calls return
// ErrSessionActive immediately without issuing a fetch.
func (s *Session) Start(ctx context.Context, locator, desiredName string, onProgress ProgressFunc) (*artifact.Artifact, error) {
	if !s.started.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}

	wrapped := func(p Progress) {
		s.latest.Store(p)

		if onProgress != nil {
			onProgress(p)
		}
	}

	return s.engine.Download(ctx, locator, desiredName, wrapped)
}

// Progress returns the latest snapshot observed by this session.
func (s *Session) Progress() Progress {
	if p, ok := s.latest.Load().(Progress); ok {
		return p
	}

	return Progress{Percent: -1}
}

// Started reports whether the session has been consumed.
func (s *Session) Started() bool {
	return s.started.Load()
}
