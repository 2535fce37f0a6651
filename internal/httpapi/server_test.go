package httpapi

import (
    "bytes"
    "encoding/json"
    "image"
    "image/color"
    "image/jpeg"
    "mime/multipart"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/docsmith/internal/convert"
    "github.com/local/docsmith/internal/session"
    "github.com/local/docsmith/internal/statuscheck"
)

func newTestServer(t *testing.T) http.Handler {
    t.Helper()
    sessions, err := session.NewLocalStore(t.TempDir(), time.Hour, 0, nil)
    require.NoError(t, err)
    t.Cleanup(func() { _ = sessions.Close() })

    srv := New(Options{
        Dispatcher: convert.New(convert.Options{}),
        Sessions:   sessions,
        Checker:    statuscheck.New(statuscheck.Options{SessionBackend: "local"}),
    })
    mux := http.NewServeMux()
    srv.RegisterRoutes(mux)
    return mux
}

type filePart struct {
    field string
    name  string
    data  []byte
}

func multipartRequest(t *testing.T, url string, fields map[string]string, files ...filePart) *http.Request {
    t.Helper()
    var body bytes.Buffer
    mw := multipart.NewWriter(&body)
    for _, f := range files {
        fw, err := mw.CreateFormFile(f.field, f.name)
        require.NoError(t, err)
        _, err = fw.Write(f.data)
        require.NoError(t, err)
    }
    for k, v := range fields {
        require.NoError(t, mw.WriteField(k, v))
    }
    require.NoError(t, mw.Close())

    req := httptest.NewRequest(http.MethodPost, url, &body)
    req.Header.Set("Content-Type", mw.FormDataContentType())
    return req
}

func jpegBytes(t *testing.T) []byte {
    t.Helper()
    img := image.NewRGBA(image.Rect(0, 0, 4, 4))
    img.Set(1, 1, color.RGBA{R: 200, A: 255})
    var buf bytes.Buffer
    require.NoError(t, jpeg.Encode(&buf, img, nil))
    return buf.Bytes()
}

const minimalPDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
    t.Helper()
    var resp struct {
        Error string `json:"error"`
    }
    require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
    return resp.Error
}

func TestHealth(t *testing.T) {
    h := newTestServer(t)
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ok", rec.Body.String())
}

func TestConvertRequiresPost(t *testing.T) {
    h := newTestServer(t)
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/convert", nil))

    assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestConvertMissingConversionType(t *testing.T) {
    h := newTestServer(t)
    req := multipartRequest(t, "/convert", nil, filePart{"file", "a.jpg", jpegBytes(t)})
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decodeError(t, rec), "conversion_type")
}

func TestConvertUnknownOperation(t *testing.T) {
    h := newTestServer(t)
    req := multipartRequest(t, "/convert",
        map[string]string{"conversion_type": "rotate"},
        filePart{"file", "a.jpg", jpegBytes(t)})
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decodeError(t, rec), "rotate")
}

func TestConvertNoFiles(t *testing.T) {
    h := newTestServer(t)
    req := multipartRequest(t, "/convert", map[string]string{"conversion_type": "merge"})
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertRejectsMismatchedContent(t *testing.T) {
    h := newTestServer(t)
    // JPEG bytes uploaded under a .pdf name.
    req := multipartRequest(t, "/convert",
        map[string]string{"conversion_type": "merge"},
        filePart{"file", "fake.pdf", jpegBytes(t)})
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decodeError(t, rec), "does not match")
}

func TestConvertJPGToPNG(t *testing.T) {
    h := newTestServer(t)
    req := multipartRequest(t, "/convert",
        map[string]string{"conversion_type": "jpg_to_png"},
        filePart{"file", "photo.jpg", jpegBytes(t)})
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
    assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="photo.png"`)
}

func TestFormfillUploadRejectsNonPDF(t *testing.T) {
    h := newTestServer(t)
    req := multipartRequest(t, "/formfill/upload", nil, filePart{"file", "pic.jpg", jpegBytes(t)})
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decodeError(t, rec), "PDF")
}

func TestFormfillUploadRejectsRenamedImage(t *testing.T) {
    h := newTestServer(t)
    req := multipartRequest(t, "/formfill/upload", nil, filePart{"file", "form.pdf", jpegBytes(t)})
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormfillUploadCreatesSession(t *testing.T) {
    h := newTestServer(t)
    req := multipartRequest(t, "/formfill/upload", nil, filePart{"file", "form.pdf", []byte(minimalPDF)})
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    require.Equal(t, http.StatusSeeOther, rec.Code)

    var resp struct {
        PDFID string `json:"pdf_id"`
    }
    require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
    require.True(t, session.ValidateID(resp.PDFID))
    assert.Equal(t, "/formfill/editor/"+resp.PDFID, rec.Header().Get("Location"))

    // The stored source is served back unchanged.
    fileRec := httptest.NewRecorder()
    h.ServeHTTP(fileRec, httptest.NewRequest(http.MethodGet, "/formfill/file/"+resp.PDFID, nil))
    require.Equal(t, http.StatusOK, fileRec.Code)
    assert.Equal(t, "application/pdf", fileRec.Header().Get("Content-Type"))
    assert.Equal(t, minimalPDF, fileRec.Body.String())
}

func TestFormfillInvalidSessionID(t *testing.T) {
    h := newTestServer(t)
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/formfill/file/NOT-HEX", nil))

    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormfillUnknownSessionID(t *testing.T) {
    h := newTestServer(t)
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/formfill/file/deadbeef", nil))

    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormfillApplyInvalidJSON(t *testing.T) {
    h := newTestServer(t)
    req := httptest.NewRequest(http.MethodPost, "/formfill/apply/deadbeef", strings.NewReader("{broken"))
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decodeError(t, rec), "invalid json")
}

func TestFormfillApplyMalformedID(t *testing.T) {
    h := newTestServer(t)
    // Rejected on id shape alone, before the body is even read.
    req := httptest.NewRequest(http.MethodPost, "/formfill/apply/NOT-HEX", strings.NewReader(`{"overlays":[]}`))
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decodeError(t, rec), "invalid session id")
}

func TestFormfillApplyUnknownSession(t *testing.T) {
    h := newTestServer(t)
    req := httptest.NewRequest(http.MethodPost, "/formfill/apply/deadbeef", strings.NewReader(`{"overlays":[]}`))
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
    h := newTestServer(t)
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

    require.Equal(t, http.StatusOK, rec.Code)
    var summary statuscheck.Summary
    require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
    assert.True(t, summary.Sessions.OK)
}
