package analyzer

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"linksafety/export"
	"linksafety/history"
	"linksafety/registration"
	"linksafety/verdict"
)

// Handlers exposes the analyzer over HTTP. History and WHOIS enrichment are
// optional collaborators; the verdict path works without them.
type Handlers struct {
	Analyzer           *Analyzer
	History            *history.Store
	EnrichRegistration bool
}

type AnalyzeRequest struct {
	URL string `json:"url"`
}

type AnalyzeResponse struct {
	Verdict      verdict.FinalVerdict `json:"verdict"`
	Validation   ValidationResult     `json:"validation"`
	Registration *registration.Info   `json:"registration,omitempty"`
}

type BatchRequest struct {
	URLs    []string `json:"urls"`
	Workers int      `json:"workers,omitempty"`
}

type batchItem struct {
	URL     string                `json:"url"`
	Verdict *verdict.FinalVerdict `json:"verdict,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func (h *Handlers) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	v, err := h.Analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		var invalid *InvalidInputError
		if errors.As(err, &invalid) {
			http.Error(w, invalid.Reason, http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := AnalyzeResponse{Verdict: v, Validation: ValidateURL(req.URL)}
	if h.EnrichRegistration {
		if host := hostFor(v.URL); host != "" {
			if info, err := registration.Lookup(host); err == nil {
				resp.Registration = &info
			} else {
				log.Printf("[registration] lookup failed for %s: %v", host, err)
			}
		}
	}

	h.persist(r, v)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	log.Printf("[analyze] %s -> %s (score %d)", v.URL, v.Classification, v.RiskBreakdown.TotalScore)
}

func (h *Handlers) BatchHandler(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if len(req.URLs) == 0 {
		http.Error(w, "urls required", http.StatusBadRequest)
		return
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}

	results := h.Analyzer.AnalyzeBatch(r.Context(), req.URLs, req.Workers)

	items := make([]batchItem, len(results))
	for i, res := range results {
		items[i].URL = res.URL
		if res.Err != nil {
			items[i].Error = res.Err.Error()
			continue
		}
		v := res.Verdict
		items[i].Verdict = &v
		h.persist(r, v)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
	log.Printf("[batch] analyzed %d URLs", len(req.URLs))
}

func (h *Handlers) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		http.Error(w, "history store not configured", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.History.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

func (h *Handlers) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		http.Error(w, "history store not configured", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.History.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	verdicts := make([]verdict.FinalVerdict, len(records))
	for i, rec := range records {
		verdicts[i] = rec.Verdict
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		err = export.WriteCSV(w, verdicts)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = export.WriteText(w, verdicts)
	default:
		w.Header().Set("Content-Type", "application/json")
		err = export.WriteJSON(w, verdicts)
	}
	if err != nil {
		log.Printf("[export] write failed: %v", err)
	}
}

func (h *Handlers) persist(r *http.Request, v verdict.FinalVerdict) {
	if h.History == nil {
		return
	}
	if _, err := h.History.Save(r.Context(), v); err != nil {
		log.Printf("[history] save failed for %s: %v", v.URL, err)
	}
}

func hostFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
