package web

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/catalog-import/internal/artifact"
	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/JonMunkholm/catalog-import/internal/logging"
	"github.com/JonMunkholm/catalog-import/internal/sheet"
)

var (
	errFileTooLarge     = errors.New("file too large")
	errNoFile           = errors.New("no file provided")
	errInvalidChunkSize = errors.New("invalid chunk size")
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportResponse is the body of a completed import.
type ImportResponse struct {
	core.ImportResult
	DownloadURL string         `json:"downloadUrl,omitempty"`
	Warning     *ErrorResponse `json:"warning,omitempty"`
}

// upload is a parsed import request.
type upload struct {
	fileName  string
	data      []byte
	chunkSize int
}

// readUpload reads the multipart "file" field and the optional chunk_size.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	maxSize := s.cfg.Import.MaxFileSize
	if r.ContentLength > maxSize {
		return upload{}, errFileTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return upload{}, errFileTooLarge
		}
		return upload{}, errNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return upload{}, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload{}, err
	}

	chunkSize := 0
	if v := strings.TrimSpace(r.FormValue("chunk_size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return upload{}, errInvalidChunkSize
		}
		chunkSize = n
	}

	return upload{fileName: header.Filename, data: data, chunkSize: chunkSize}, nil
}

// runImport executes the uploaded file. A run whose error log could not be
// stored still answers with its result and a warning.
func (s *Server) runImport(w http.ResponseWriter, r *http.Request) (ImportResponse, error) {
	up, err := s.readUpload(w, r)
	if err != nil {
		return ImportResponse{}, err
	}

	logger := logging.ForImport(r.Context(), "http", up.fileName)
	logger.Info("import accepted", "bytes", len(up.data), "chunk_size", up.chunkSize)

	result, err := s.service.Import(r.Context(), up.fileName, up.data, up.chunkSize)
	if err != nil && !(errors.Is(err, core.ErrArtifactUnavailable) && result.RunID != "") {
		return ImportResponse{}, err
	}

	resp := ImportResponse{ImportResult: result}
	if err != nil {
		warning := newErrorResponse(core.MapError(err))
		resp.Warning = &warning
		logger.Warn("import finished without error log", "run_id", result.RunID, "error", err)
	}
	if result.ErrorArtifact != nil {
		resp.DownloadURL = "/api/artifacts/" + url.PathEscape(result.ErrorArtifact.Key)
	}
	return resp, nil
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	resp, err := s.runImport(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleImportPage serves the upload form's submission.
func (s *Server) handleImportPage(w http.ResponseWriter, r *http.Request) {
	resp, err := s.runImport(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	render(w, r, http.StatusOK, resultPage(resp))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, indexPage(s.cfg.Import.MaxFileSize, s.cfg.Import.ChunkSize))
}

// handleArtifact downloads a stored error log.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	data, err := s.service.Artifact(r.Context(), key)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(artifact.NameFromKey(key)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// handleTemplate downloads an empty import workbook.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	buf, err := sheet.Template()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment(sheet.TemplateFileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string                   `json:"status"`
	Imports core.ImportLimiterStatus `json:"imports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Imports: s.service.LimiterStatus()})
}

func attachment(name string) string {
	if name == "" {
		name = core.ErrorLogFileName
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
