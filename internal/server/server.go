package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/studyshare/docview/internal/artifact"
	"github.com/studyshare/docview/internal/filekind"
	"github.com/studyshare/docview/internal/history"
	"github.com/studyshare/docview/internal/logger"
	"github.com/studyshare/docview/internal/preview"
	"github.com/studyshare/docview/internal/transfer"
)

const shutdownTimeout = 10 * time.Second

// DocumentRequest is the caller-supplied file reference.
type DocumentRequest struct {
	Locator         string `json:"locator"           validate:"required,url"`
	DisplayTitle    string `json:"display_title"     validate:"required,max=512"`
	LogicalFileName string `json:"logical_file_name" validate:"max=512"`
}

// PreviewResponse tells the caller how to render a document.
type PreviewResponse struct {
	Kind         string `json:"kind"`
	Mode         string `json:"mode"`
	EmbedURL     string `json:"embed_url,omitempty"`
	DownloadName string `json:"download_name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server is the web app's edge for the document delivery subsystem. The
// download path fetches from the origin server-side and streams the artifact
// back, so the origin locator never reaches the browser.
type Server struct {
	engine   *transfer.Engine
	store    *history.Store
	selector *preview.Selector
	validate *validator.Validate
	httpSrv  *http.Server
}

// New creates a Server. store may be nil to disable history.
func New(addr string, engine *transfer.Engine, store *history.Store, selector *preview.Selector) *Server {
	if selector == nil {
		selector = preview.NewSelector("")
	}

	s := &Server{
		engine:   engine,
		store:    store,
		selector: selector,
		validate: validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/preview", s.handlePreview)
	mux.HandleFunc("POST /api/v1/download", s.handleDownload)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the route table, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Infof("Listening on %s", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*DocumentRequest, bool) {
	var req DocumentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return nil, false
	}

	if err := s.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid document reference"})
		return nil, false
	}

	return &req, true
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	kind := filekind.Classify(req.Locator)
	directive := s.selector.Select(kind, req.Locator)

	name := req.LogicalFileName
	if name == "" {
		name = req.DisplayTitle
	}

	writeJSON(w, http.StatusOK, PreviewResponse{
		Kind:         kind.String(),
		Mode:         directive.Mode.String(),
		EmbedURL:     directive.EmbedURL,
		DownloadName: artifact.ResolveName(name, req.Locator),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	name := req.LogicalFileName
	if name == "" {
		name = req.DisplayTitle
	}

	art, err := s.engine.Download(r.Context(), req.Locator, name, nil)
	if err != nil {
		// generic failure only; the locator and error internals stay server-side
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "the download could not be completed"})
		return
	}

	if s.store != nil {
		if err := s.store.Save(history.NewRecord(art)); err != nil {
			logger.Warnf("Failed to record download history: %v", err)
		}
	}

	f, err := os.Open(art.Path)
	if err != nil {
		logger.Errorf("Failed to open artifact %s: %v", art.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "the download could not be completed"})

		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	http.ServeContent(w, r, art.Name, time.Now(), f)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}

	records, err := s.store.FindAll()
	if err != nil {
		logger.Errorf("Failed to load history: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "history unavailable"})

		return
	}

	if records == nil {
		records = []history.Record{}
	}

	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("Failed to encode response: %v", err)
	}
}
