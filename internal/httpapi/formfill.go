package httpapi

import (
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "os"
    "path/filepath"
    "strings"

    "github.com/rs/zerolog/log"

    "github.com/local/docsmith/internal/filetype"
    "github.com/local/docsmith/internal/metrics"
    "github.com/local/docsmith/internal/overlay"
    "github.com/local/docsmith/internal/pdfengine"
    "github.com/local/docsmith/internal/session"
)

type uploadResp struct {
    PDFID string `json:"pdf_id"`
}

type editorResp struct {
    PDFID string               `json:"pdf_id"`
    Pages []pdfengine.PageSize `json:"pages"`
}

type applyReq struct {
    Overlays []overlay.Instruction `json:"overlays"`
}

// handleFormfillUpload stores a PDF and opens an editing session for it.
// The response redirects to the editor and carries the session id as JSON
// for API clients.
func (s *Server) handleFormfillUpload(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
    if err := r.ParseMultipartForm(32 << 20); err != nil {
        writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid multipart form"})
        return
    }
    file, hdr, err := r.FormFile("file")
    if err != nil {
        writeJSON(w, http.StatusBadRequest, errorResp{Error: "missing file"})
        return
    }
    defer file.Close()
    data, err := io.ReadAll(file)
    if err != nil {
        writeJSON(w, http.StatusBadRequest, errorResp{Error: "unreadable file"})
        return
    }

    if strings.ToLower(filepath.Ext(hdr.Filename)) != ".pdf" ||
        s.detector.Detect(hdr.Filename, data).Kind != filetype.KindPDF {
        writeJSON(w, http.StatusBadRequest, errorResp{Error: "only PDF uploads are supported"})
        return
    }

    id, err := s.sessions.Create(r.Context(), data)
    if err != nil {
        s.writeError(w, err)
        return
    }
    metrics.IncSessionCreated()
    log.Info().Str("pdf_id", id).Int("size", len(data)).Msg("Form-fill session created")

    w.Header().Set("Location", "/formfill/editor/"+id)
    writeJSON(w, http.StatusSeeOther, uploadResp{PDFID: id})
}

// handleFormfillEditor returns per-page dimensions so the client can map
// normalized overlay coordinates onto real page geometry.
func (s *Server) handleFormfillEditor(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    id := strings.TrimPrefix(r.URL.Path, "/formfill/editor/")
    data, err := s.sessions.Get(r.Context(), id)
    if err != nil {
        s.writeError(w, err)
        return
    }
    pages, err := pdfengine.PageSizesFromBytes(data)
    if err != nil {
        s.writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, editorResp{PDFID: id, Pages: pages})
}

// handleFormfillFile serves the stored source document for inline preview.
func (s *Server) handleFormfillFile(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    id := strings.TrimPrefix(r.URL.Path, "/formfill/file/")
    data, err := s.sessions.Get(r.Context(), id)
    if err != nil {
        s.writeError(w, err)
        return
    }
    w.Header().Set("Content-Type", "application/pdf")
    w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+".pdf"))
    _, _ = w.Write(data)
}

// handleFormfillApply stamps the submitted overlays onto a copy of the
// stored document and returns the filled PDF. The stored source is left
// untouched so apply can be repeated with different overlays.
func (s *Server) handleFormfillApply(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    id := strings.TrimPrefix(r.URL.Path, "/formfill/apply/")
    if !session.ValidateID(id) {
        s.writeError(w, &session.InvalidIDError{ID: id})
        return
    }

    var req applyReq
    r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid json"})
        return
    }

    unlock := s.locks.Lock(id)
    defer unlock()

    data, err := s.sessions.Get(r.Context(), id)
    if err != nil {
        s.writeError(w, err)
        return
    }

    scratch, err := os.MkdirTemp("", "docsmith-fill-*")
    if err != nil {
        s.writeError(w, err)
        return
    }
    defer os.RemoveAll(scratch)

    path := filepath.Join(scratch, "source.pdf")
    if err := os.WriteFile(path, data, 0o644); err != nil {
        s.writeError(w, err)
        return
    }
    pages, err := pdfengine.PageSizes(path)
    if err != nil {
        s.writeError(w, err)
        return
    }

    applied := s.overlay.Apply(path, pages, req.Overlays)
    out, err := os.ReadFile(path)
    if err != nil {
        s.writeError(w, err)
        return
    }
    log.Info().Str("pdf_id", id).Int("submitted", len(req.Overlays)).Int("applied", applied).
        Msg("Overlays applied")

    w.Header().Set("Content-Type", "application/pdf")
    w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "filled_"+id+".pdf"))
    _, _ = w.Write(out)
}
