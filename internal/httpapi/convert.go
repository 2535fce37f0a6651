package httpapi

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/local/docsmith/internal/convert"
    "github.com/local/docsmith/internal/metrics"
)

// handleConvert accepts multipart/form-data with one or more "file" parts,
// a "conversion_type" field and operation-specific parameters, and responds
// with the converted result as a download.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
    if err := r.ParseMultipartForm(32 << 20); err != nil {
        writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid multipart form"})
        return
    }

    operation := r.FormValue("conversion_type")
    if operation == "" {
        writeJSON(w, http.StatusBadRequest, errorResp{Error: "missing conversion_type"})
        return
    }

    var files []convert.File
    for _, hdr := range r.MultipartForm.File["file"] {
        part, err := hdr.Open()
        if err != nil {
            writeJSON(w, http.StatusBadRequest, errorResp{Error: "unreadable file part"})
            return
        }
        data, err := io.ReadAll(part)
        part.Close()
        if err != nil {
            writeJSON(w, http.StatusBadRequest, errorResp{Error: "unreadable file part"})
            return
        }
        // Content has to match what the filename claims to be.
        if len(data) > 0 && !s.detector.Matches(hdr.Filename, data) {
            writeJSON(w, http.StatusBadRequest, errorResp{
                Error: fmt.Sprintf("file %s: content does not match its extension", hdr.Filename),
            })
            return
        }
        files = append(files, convert.File{Name: hdr.Filename, Data: data})
    }

    params := make(map[string]string, len(r.MultipartForm.Value))
    for k, vs := range r.MultipartForm.Value {
        if len(vs) > 0 {
            params[k] = vs[0]
        }
    }

    res, err := s.disp.Dispatch(r.Context(), convert.Request{
        Operation: operation,
        Files:     files,
        Params:    params,
    })
    if err != nil {
        s.writeError(w, err)
        return
    }

    name, data, contentType, err := res.Collapse()
    if err != nil {
        s.writeError(w, err)
        return
    }

    if contentType == "application/zip" {
        metrics.IncArtifact("archive")
    } else {
        metrics.IncArtifact("single")
    }
    if s.archiver != nil {
        go s.archiveResult(name, data, contentType)
    }

    w.Header().Set("Content-Type", contentType)
    w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(data)
}

// archiveResult runs detached from the request so a slow or broken S3 never
// delays the download.
func (s *Server) archiveResult(name string, data []byte, contentType string) {
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()
    if _, err := s.archiver.Archive(ctx, name, data, contentType); err != nil {
        log.Warn().Err(err).Str("name", name).Msg("Result archiving failed")
    }
}
