// Package report exposes the analysis results over HTTP/JSON: the ranked
// defect list, the per-defect weekly drill-down, and missing-period
// reports.
package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rpattn/defectwatch/internal/analysis"
	"github.com/rpattn/defectwatch/internal/domain"
)

const dateLayout = "2006-01-02"

// Handler routes the defect report endpoints.
type Handler struct {
	service *analysis.Service
}

// NewHTTPHandler wraps the analysis service with the report endpoints.
func NewHTTPHandler(service *analysis.Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/defects"), "/")
	switch {
	case path == "":
		h.handleList(w, r)
	case strings.HasSuffix(path, "/missing-periods"):
		code := strings.TrimSuffix(path, "/missing-periods")
		h.handleMissingPeriods(w, r, strings.Trim(code, "/"))
	default:
		h.handleDetail(w, r, path)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	dateRange, err := ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.service.DefectList(r.Context(), dateRange)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request, code string) {
	code, err := url.PathUnescape(code)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid defect code: %v", err), http.StatusBadRequest)
		return
	}

	dateRange, err := ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	detail, err := h.service.DefectDetail(r.Context(), code, dateRange)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleMissingPeriods(w http.ResponseWriter, r *http.Request, code string) {
	code, err := url.PathUnescape(code)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid defect code: %v", err), http.StatusBadRequest)
		return
	}

	dateRange, err := ParseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dateRange == nil {
		http.Error(w, "from and to are required", http.StatusBadRequest)
		return
	}

	periods, err := h.service.MissingPeriodsFor(r.Context(), code, *dateRange)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"defect_code":     code,
		"missing_periods": periods,
	})
}

// ParseDateRange reads the optional from/to query parameters. Both must be
// present (YYYY-MM-DD) or both absent.
func ParseDateRange(query url.Values) (*domain.DateRange, error) {
	fromRaw := strings.TrimSpace(query.Get("from"))
	toRaw := strings.TrimSpace(query.Get("to"))

	if fromRaw == "" && toRaw == "" {
		return nil, nil
	}
	if fromRaw == "" || toRaw == "" {
		return nil, fmt.Errorf("from and to must be provided together")
	}

	from, err := time.Parse(dateLayout, fromRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: expected %s", fromRaw, dateLayout)
	}
	to, err := time.Parse(dateLayout, toRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: expected %s", toRaw, dateLayout)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("to date %s precedes from date %s", toRaw, fromRaw)
	}

	return &domain.DateRange{From: from.UTC(), To: to.UTC()}, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
