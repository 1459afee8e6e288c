package transfer

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/studyshare/docview/internal/artifact"
	"github.com/studyshare/docview/internal/logger"
	"github.com/studyshare/docview/internal/notify"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultIdleTimeout    = 90 * time.Second
	keepAlivePeriod       = 30 * time.Second
	maxIdleConns          = 100
	tlsHandshakeTimeout   = 10 * time.Second
	expectContinueTimeout = 1 * time.Second
	maxConnsPerHost       = 16

	// DefaultDownloadTimeout bounds one whole transfer. Engineered for large
	// files on slow connections, not the short timeout used for ordinary API
	// calls elsewhere in the application.
	DefaultDownloadTimeout = 5 * time.Minute

	DefaultUserAgent = "docview/1.0"

	progressBufferSize = 32 * 1024
	sniffSize          = 512
)

// Progress is a latest-wins snapshot of an in-flight transfer. Percent is
// floor(loaded/total*100) while the total is known and -1 otherwise, so the
// UI can show an indeterminate indicator instead of a stalled percentage.
type Progress struct {
	BytesLoaded int64
	TotalBytes  int64
	Percent     int
}

// ProgressFunc receives progress snapshots. Calls may arrive in rapid
// succession; consumers must treat them as latest-wins.
type ProgressFunc func(Progress)

// Config contains transfer engine configuration.
type Config struct {
	ArtifactDir string
	TempDir     string
	Timeout     time.Duration
	UserAgent   string
}

// Engine fetches raw bytes for a resource and materializes them as a named,
// correctly-typed local artifact without exposing the origin locator.
type Engine struct {
	client   *http.Client
	cfg      Config
	notifier notify.Notifier
}

// NewEngine creates a transfer engine. A nil notifier discards all
// notifications.
func NewEngine(cfg Config, notifier notify.Notifier) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultDownloadTimeout
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}

	if notifier == nil {
		notifier = notify.Discard{}
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultConnectTimeout,
			KeepAlive: keepAlivePeriod,
		}).DialContext,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       defaultIdleTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: expectContinueTimeout,
		DisableCompression:    true,
		MaxConnsPerHost:       maxConnsPerHost,
	}

	return &Engine{
		client:   &http.Client{Transport: transport},
		cfg:      cfg,
		notifier: notifier,
	}
}

// Download fetches the locator's bytes and materializes them under the
// reconciled file name, reporting progress along the way. On any failure the
// temp file is released and the notifier receives exactly one generic
// failure message that does not carry the locator.
func (e *Engine) Download(ctx context.Context, locator, desiredName string, onProgress ProgressFunc) (*artifact.Artifact, error) {
	name := artifact.ResolveName(desiredName, locator)

	art, err := e.fetch(ctx, locator, name, onProgress)
	if err != nil {
		logger.Errorf("Transfer failed for %s: %v", locator, err)
		e.notifier.Notify(notify.Message{
			Level:       notify.Error,
			Title:       "Download failed",
			Description: userMessage(err),
		})

		return nil, err
	}

	logger.Infof("Transfer complete: %s (%d bytes, %s)", art.Name, art.Size, art.ContentType)
	e.notifier.Notify(notify.Message{
		Level:       notify.Success,
		Title:       "Download complete",
		Description: art.Name,
	})

	return art, nil
}

func (e *Engine) fetch(ctx context.Context, locator, name string, onProgress ProgressFunc) (*artifact.Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, newNetworkError(err, locator, false)
	}

	req.Header.Set("User-Agent", e.cfg.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, classifyError(err, locator)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newHTTPError(locator, resp.StatusCode)
	}

	if err := os.MkdirAll(e.cfg.TempDir, 0o755); err != nil {
		return nil, newIOError(err, locator)
	}

	tmp, err := os.CreateTemp(e.cfg.TempDir, "docview-*")
	if err != nil {
		return nil, newIOError(err, locator)
	}

	// Release the transient file on every exit path. Only a successful
	// rename below escapes the removal.
	moved := false

	defer func() {
		tmp.Close()

		if !moved {
			if rmErr := os.Remove(tmp.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Warnf("Failed to remove temp file %s: %v", tmp.Name(), rmErr)
			}
		}
	}()

	written, head, err := copyWithProgress(ctx, tmp, resp.Body, resp.ContentLength, onProgress)
	if err != nil {
		return nil, classifyCopyError(err, locator)
	}

	if err := tmp.Close(); err != nil {
		return nil, newIOError(err, locator)
	}

	if err := os.MkdirAll(e.cfg.ArtifactDir, 0o755); err != nil {
		return nil, newIOError(err, locator)
	}

	target := filepath.Join(e.cfg.ArtifactDir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return nil, newIOError(err, locator)
	}

	moved = true

	return &artifact.Artifact{
		Name:        name,
		Path:        target,
		ContentType: artifact.ContentType(declaredContentType(resp), name, head),
		Size:        written,
	}, nil
}

// declaredContentType extracts the server-declared media type, dropping
// parameters like charset. Malformed headers resolve to "".
func declaredContentType(resp *http.Response) string {
	header := resp.Header.Get("Content-Type")
	if header == "" {
		return ""
	}

	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}

	return mt
}

// copyWithProgress streams src into dst, emitting a progress snapshot after
// every write. It retains the leading bytes for content sniffing.
func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total int64, onProgress ProgressFunc) (int64, []byte, error) {
	var written int64

	head := make([]byte, 0, sniffSize)
	buf := make([]byte, progressBufferSize)

	emit := func() {
		if onProgress == nil {
			return
		}

		p := Progress{BytesLoaded: written, TotalBytes: total, Percent: -1}
		if total > 0 {
			p.Percent = int(written * 100 / total)
		}

		onProgress(p)
	}

	emit()

	for {
		select {
		case <-ctx.Done():
			return written, head, ctx.Err()
		default:
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			if len(head) < sniffSize {
				head = append(head, buf[:min(n, sniffSize-len(head))]...)
			}

			wn, werr := dst.Write(buf[:n])
			written += int64(wn)

			if werr != nil {
				return written, head, werr
			}

			if wn != n {
				return written, head, io.ErrShortWrite
			}

			emit()
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, head, nil
			}

			return written, head, rerr
		}
	}
}

// classifyCopyError separates local write failures from network read
// failures mid-stream.
func classifyCopyError(err error, locator string) *TransferError {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, io.ErrShortWrite) {
		return newIOError(err, locator)
	}

	return classifyError(err, locator)
}

// userMessage returns the generic user-facing text for a transfer failure.
func userMessage(err error) string {
	var terr *TransferError
	if errors.As(err, &terr) {
		return terr.UserMessage()
	}

	return "The download could not be completed. Please try again."
}
