package viewer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/studyshare/docview/internal/artifact"
	"github.com/studyshare/docview/internal/filekind"
	"github.com/studyshare/docview/internal/logger"
	"github.com/studyshare/docview/internal/notify"
	"github.com/studyshare/docview/internal/preview"
	"github.com/studyshare/docview/internal/transfer"
)

// CopiedResetWindow is how long the transient "copied" indicator stays up
// after a successful copy-link.
const CopiedResetWindow = 2 * time.Second

var ErrNoEngine = errors.New("viewer has no transfer engine")

// FileReference identifies one viewable document. Immutable; supplied by the
// caller for the duration of one viewing interaction.
type FileReference struct {
	Locator         string
	DisplayTitle    string
	LogicalFileName string
}

// Clipboard writes text to the platform clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// ShareData is the payload handed to the platform share facility.
type ShareData struct {
	Title string
	URL   string
}

// Sharer exposes the platform's native share facility.
type Sharer interface {
	CanShare(data ShareData) bool
	Share(ctx context.Context, data ShareData) error
}

// FullscreenSurface abstracts platform fullscreen control over the viewer's
// container. Changes delivers platform-level transitions (including exits
// the user triggered outside the shell, e.g. via escape key); it is the
// single source of truth for fullscreen state.
type FullscreenSurface interface {
	Enter(ctx context.Context) error
	Exit(ctx context.Context) error
	Active() bool
	Changes() <-chan bool
}

// Status is the download state of a shell.
type Status int32

const (
	Idle Status = iota
	Downloading
)

func (s Status) String() string {
	if s == Downloading {
		return "Downloading"
	}

	return "Idle"
}

// Deps are the shell's collaborators. Engine is required for downloads; the
// rest may be nil when the hosting surface lacks the capability.
type Deps struct {
	Engine    *transfer.Engine
	Notifier  notify.Notifier
	Clipboard Clipboard
	Sharer    Sharer
	Screen    FullscreenSurface
	Selector  *preview.Selector

	// PageURL is the current page's address used by share and copy-link.
	PageURL string

	// CopiedWindow overrides CopiedResetWindow, for tests.
	CopiedWindow time.Duration
}

// Shell orchestrates share, copy-link, download and fullscreen for a single
// document. Instances are independent; concurrent shells share no transfer
// state. A shell is reusable indefinitely until Dismiss.
type Shell struct {
	ref       FileReference
	kind      filekind.Kind
	directive preview.Directive

	engine       *transfer.Engine
	notifier     notify.Notifier
	clipboard    Clipboard
	sharer       Sharer
	screen       FullscreenSurface
	pageURL      string
	copiedWindow time.Duration

	downloading atomic.Bool

	mu          sync.Mutex
	session     *transfer.Session
	copied      bool
	copiedTimer *time.Timer
	fullscreen  bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewShell classifies the reference and derives its render directive.
func NewShell(ref FileReference, deps Deps) *Shell {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}

	selector := deps.Selector
	if selector == nil {
		selector = preview.NewSelector("")
	}

	window := deps.CopiedWindow
	if window <= 0 {
		window = CopiedResetWindow
	}

	kind := filekind.Classify(ref.Locator)

	s := &Shell{
		ref:          ref,
		kind:         kind,
		directive:    selector.Select(kind, ref.Locator),
		engine:       deps.Engine,
		notifier:     notifier,
		clipboard:    deps.Clipboard,
		sharer:       deps.Sharer,
		screen:       deps.Screen,
		pageURL:      deps.PageURL,
		copiedWindow: window,
		done:         make(chan struct{}),
	}

	if s.screen != nil {
		s.fullscreen = s.screen.Active()
		go s.watchFullscreen()
	}

	return s
}

// Kind returns the document's classified kind; the unsupported fallback card
// keys its iconography and label off this.
func (s *Shell) Kind() filekind.Kind {
	return s.kind
}

// Render returns the directive the hosting surface dispatches on.
func (s *Shell) Render() preview.Directive {
	return s.directive
}

// Title returns the caller-supplied display title.
func (s *Shell) Title() string {
	return s.ref.DisplayTitle
}

// Status reports Idle or Downloading.
func (s *Shell) Status() Status {
	if s.downloading.Load() {
		return Downloading
	}

	return Idle
}

// Progress returns the latest snapshot of the in-flight (or last) download.
func (s *Shell) Progress() transfer.Progress {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session == nil {
		return transfer.Progress{Percent: -1}
	}

	return session.Progress()
}

// Download runs one transfer for this shell. While a session is in flight,
// further calls are rejected with transfer.ErrSessionActive and do not start
// a second transfer. Success and failure both return the shell to Idle.
func (s *Shell) Download(ctx context.Context, onProgress transfer.ProgressFunc) (*artifact.Artifact, error) {
	if s.engine == nil {
		return nil, ErrNoEngine
	}

	if !s.downloading.CompareAndSwap(false, true) {
		logger.Debugf("Download already in flight for %q, ignoring request", s.ref.DisplayTitle)
		return nil, transfer.ErrSessionActive
	}
	defer s.downloading.Store(false)

	session := s.engine.NewSession()

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	return session.Start(ctx, s.ref.Locator, s.desiredName(), onProgress)
}

// desiredName prefers the caller's logical file name over the display title.
func (s *Shell) desiredName() string {
	if s.ref.LogicalFileName != "" {
		return s.ref.LogicalFileName
	}

	return s.ref.DisplayTitle
}

// Share invokes the platform's native share when it is available for the
// data. Share errors are swallowed: most causes are the user dismissing the
// share sheet, and there is no automatic fallback after a failed attempt.
// When native share is unsupported, the shell falls back to copy-link
// unconditionally.
func (s *Shell) Share(ctx context.Context) {
	data := ShareData{Title: s.ref.DisplayTitle, URL: s.pageURL}

	if s.sharer != nil && s.sharer.CanShare(data) {
		if err := s.sharer.Share(ctx, data); err != nil {
			logger.Debugf("Native share failed (ignored): %v", err)
		}

		return
	}

	s.CopyLink(ctx)
}

// CopyLink writes the page address to the clipboard. On success the
// transient Copied indicator flips on and auto-resets after the copied
// window; on failure the notifier receives one error message.
func (s *Shell) CopyLink(ctx context.Context) {
	if s.clipboard == nil {
		s.notifier.Notify(notify.Message{
			Level: notify.Error,
			Title: "Copy failed",
		})

		return
	}

	if err := s.clipboard.WriteText(ctx, s.pageURL); err != nil {
		logger.Warnf("Clipboard write failed: %v", err)
		s.notifier.Notify(notify.Message{
			Level: notify.Error,
			Title: "Copy failed",
		})

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.copied = true

	if s.copiedTimer != nil {
		s.copiedTimer.Stop()
	}

	s.copiedTimer = time.AfterFunc(s.copiedWindow, func() {
		s.mu.Lock()
		s.copied = false
		s.mu.Unlock()
	})
}

// Copied reports whether the transient copy indicator is up.
func (s *Shell) Copied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copied
}

// ToggleFullscreen flips platform fullscreen on the viewer's container. The
// platform remains the source of truth; the shell's view of the state is
// resynchronized by the surface's change stream.
func (s *Shell) ToggleFullscreen(ctx context.Context) error {
	if s.screen == nil {
		return nil
	}

	if s.screen.Active() {
		return s.screen.Exit(ctx)
	}

	return s.screen.Enter(ctx)
}

// Fullscreen reports the shell's view of the platform fullscreen state.
func (s *Shell) Fullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fullscreen
}

// watchFullscreen keeps the local flag in sync with platform transitions,
// including exits triggered outside the shell.
func (s *Shell) watchFullscreen() {
	ch := s.screen.Changes()
	if ch == nil {
		return
	}

	for {
		select {
		case active, ok := <-ch:
			if !ok {
				return
			}

			s.mu.Lock()
			s.fullscreen = active
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Dismiss releases the shell's background resources. The shell must not be
// used afterwards.
func (s *Shell) Dismiss() {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.copiedTimer != nil {
		s.copiedTimer.Stop()
		s.copiedTimer = nil
	}

	s.copied = false
}
