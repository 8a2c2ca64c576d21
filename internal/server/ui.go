package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ecommerce-keyword-report/internal/analyzer"
	"ecommerce-keyword-report/internal/models"
	"ecommerce-keyword-report/internal/report"
	"ecommerce-keyword-report/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTmpl = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/index.html"))

type page struct {
	Path   string
	Sheet  string
	Column string
	Error  string

	Presets []Preset

	Preview      *models.Preview
	PreviewTable template.HTML

	Analysis *models.Analysis
	Summary  template.HTML
	Detail   template.HTML

	CSS template.CSS
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, code int, p page) {
	p.CSS = template.CSS(report.Stylesheet)
	p.Presets = s.opts.Presets
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := indexTmpl.Execute(w, p); err != nil {
		logger.FromContext(r.Context()).Errorf("render page: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, page{})
}

func (s *Server) handlePreviewForm(w http.ResponseWriter, r *http.Request) {
	req, p, cleanup, err := s.readForm(w, r)
	defer cleanup()
	if err != nil {
		s.metrics.RecordPreview(err)
		p.Error = userMessage(err)
		s.render(w, r, fail(r, "preview", err), p)
		return
	}

	req.RawCSV = true
	pv, err := s.an.Preview(r.Context(), req, s.opts.PreviewRows)
	s.metrics.RecordPreview(err)
	if err != nil {
		p.Error = userMessage(err)
		s.render(w, r, fail(r, "preview", err), p)
		return
	}
	p.Preview = pv
	p.PreviewTable = report.HTMLPreview(pv)
	s.render(w, r, http.StatusOK, p)
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	req, p, cleanup, err := s.readForm(w, r)
	defer cleanup()
	if err != nil {
		s.metrics.RecordAnalysis(nil, err)
		p.Error = userMessage(err)
		s.render(w, r, fail(r, "analyze", err), p)
		return
	}

	a, err := s.an.Analyze(r.Context(), req)
	if err != nil {
		s.metrics.RecordAnalysis(nil, err)
		p.Error = userMessage(err)
		s.render(w, r, fail(r, "analyze", err), p)
		return
	}
	s.metrics.RecordAnalysis(&a.Result, nil)
	p.Analysis = a
	p.Summary = report.HTMLSummary(a.Result)
	p.Detail = report.HTMLDetail(a.Result)
	s.render(w, r, http.StatusOK, p)
}

// readForm accepts urlencoded or multipart forms. A "preset" button fills the
// source and column from Options.Presets. Otherwise an uploaded "file" part wins
// over the "path" field; it is spooled to a temp file that cleanup removes.
func (s *Server) readForm(w http.ResponseWriter, r *http.Request) (analyzer.Request, page, func(), error) {
	cleanup := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.UploadLimit)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(s.opts.UploadLimit)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return analyzer.Request{}, page{}, cleanup, err
	}

	if name := strings.TrimSpace(r.FormValue("preset")); name != "" {
		pr, err := s.preset(name)
		if err != nil {
			return analyzer.Request{}, page{}, cleanup, err
		}
		p := page{Path: pr.Source, Sheet: pr.Sheet, Column: pr.Column}
		return analyzer.Request{Source: pr.Source, Sheet: pr.Sheet, Column: pr.Column}, p, cleanup, nil
	}

	p := page{
		Path:   strings.TrimSpace(r.FormValue("path")),
		Sheet:  strings.TrimSpace(r.FormValue("sheet")),
		Column: strings.TrimSpace(r.FormValue("column")),
	}
	req := analyzer.Request{Sheet: p.Sheet, Column: p.Column}

	if r.MultipartForm != nil {
		cleanup = func() { _ = r.MultipartForm.RemoveAll() }
		if files := r.MultipartForm.File["file"]; len(files) > 0 && files[0].Size > 0 {
			tmp, err := spool(files[0])
			if err != nil {
				return req, p, cleanup, err
			}
			removeForm := cleanup
			cleanup = func() {
				_ = os.Remove(tmp)
				removeForm()
			}
			req.Source = tmp
			req.Name = filepath.Base(files[0].Filename)
			p.Path = ""
			return req, p, cleanup, nil
		}
	}

	req.Source, err = s.checkSource(p.Path)
	return req, p, cleanup, err
}

// spool copies an upload to a uniquely named temp file keeping its extension.
func spool(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := filepath.Join(os.TempDir(), "kwreport-"+uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	dst, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(name)
		return "", fmt.Errorf("copy upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
