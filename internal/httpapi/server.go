package httpapi

import (
    "encoding/json"
    "errors"
    "net/http"

    "github.com/rs/zerolog/log"

    "github.com/local/docsmith/internal/convert"
    "github.com/local/docsmith/internal/filetype"
    "github.com/local/docsmith/internal/overlay"
    "github.com/local/docsmith/internal/session"
    "github.com/local/docsmith/internal/statuscheck"
    "github.com/local/docsmith/internal/storage"
)

// Server carries the HTTP surface: one-shot conversions under /convert and
// the form-fill session endpoints under /formfill/.
type Server struct {
    disp      *convert.Dispatcher
    sessions  session.Store
    locks     *session.Locks
    overlay   *overlay.Engine
    detector  *filetype.Detector
    checker   *statuscheck.Checker
    archiver  *storage.Archiver
    maxUpload int64
}

// Options wires the Server's dependencies. Archiver may be nil to disable
// result archiving.
type Options struct {
    Dispatcher  *convert.Dispatcher
    Sessions    session.Store
    Checker     *statuscheck.Checker
    Archiver    *storage.Archiver
    MaxUploadMB int
}

func New(opts Options) *Server {
    maxMB := int64(opts.MaxUploadMB)
    if maxMB <= 0 {
        maxMB = 64
    }
    return &Server{
        disp:      opts.Dispatcher,
        sessions:  opts.Sessions,
        locks:     session.NewLocks(),
        overlay:   overlay.NewEngine(),
        detector:  filetype.New(),
        checker:   opts.Checker,
        archiver:  opts.Archiver,
        maxUpload: maxMB << 20,
    }
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("ok")) })
    mux.HandleFunc("/status", s.handleStatus)
    mux.HandleFunc("/convert", s.handleConvert)
    mux.HandleFunc("/formfill/upload", s.handleFormfillUpload)
    mux.HandleFunc("/formfill/editor/", s.handleFormfillEditor)
    mux.HandleFunc("/formfill/file/", s.handleFormfillFile)
    mux.HandleFunc("/formfill/apply/", s.handleFormfillApply)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    writeJSON(w, http.StatusOK, s.checker.Summary(r.Context()))
}

type errorResp struct {
    Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Anything that is not a
// recognizable client mistake is a 500 with a generic body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
    var invalidID *session.InvalidIDError
    var notFound *session.NotFoundError
    switch {
    case errors.As(err, &invalidID):
        writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
    case errors.As(err, &notFound):
        writeJSON(w, http.StatusNotFound, errorResp{Error: err.Error()})
    case convert.IsClientError(err):
        writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
    default:
        log.Error().Err(err).Msg("Request failed")
        writeJSON(w, http.StatusInternalServerError, errorResp{Error: "internal server error"})
    }
}
