package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"ecommerce-keyword-report/internal/analyzer"
	"ecommerce-keyword-report/internal/categorizer"
	"ecommerce-keyword-report/internal/models"
)

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid payload"})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		resp := models.ErrorResponse{Error: "validation failed"}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				resp.Fields = append(resp.Fields, fe.Translate(s.trans))
			}
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}
	return true
}

// POST /api/v1/preview  { "source": "...", "sheet": "", "rows": 10, "csv": false }
func (s *Server) handlePreviewAPI(w http.ResponseWriter, r *http.Request) {
	var req models.PreviewRequest
	if !s.decode(w, r, &req) {
		return
	}
	n := req.Rows
	if n == 0 {
		n = s.opts.PreviewRows
	}
	src, err := s.checkSource(req.Source)
	if err != nil {
		s.metrics.RecordPreview(err)
		writeJSON(w, fail(r, "preview", err), errorResponse(err))
		return
	}
	pv, err := s.an.Preview(r.Context(), analyzer.Request{Source: src, Sheet: req.Sheet, RawCSV: req.CSV}, n)
	s.metrics.RecordPreview(err)
	if err != nil {
		writeJSON(w, fail(r, "preview", err), errorResponse(err))
		return
	}
	writeJSON(w, http.StatusOK, pv)
}

// POST /api/v1/analyze  { "source": "...", "column": "...", "sheet": "" }
func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, err := s.checkSource(req.Source)
	if err != nil {
		s.metrics.RecordAnalysis(nil, err)
		writeJSON(w, fail(r, "analyze", err), errorResponse(err))
		return
	}
	a, err := s.an.Analyze(r.Context(), analyzer.Request{Source: src, Sheet: req.Sheet, Column: req.Column})
	if err != nil {
		s.metrics.RecordAnalysis(nil, err)
		writeJSON(w, fail(r, "analyze", err), errorResponse(err))
		return
	}
	s.metrics.RecordAnalysis(&a.Result, nil)
	writeJSON(w, http.StatusOK, a)
}

// GET /api/v1/rules
func (s *Server) handleRulesAPI(w http.ResponseWriter, r *http.Request) {
	cat := s.an.Categorizer()
	writeJSON(w, http.StatusOK, struct {
		Stopwords []string           `json:"stopwords"`
		Rules     []categorizer.Rule `json:"rules"`
	}{cat.Stopwords(), cat.Rules()})
}
