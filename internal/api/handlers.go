package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/catalog"
	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
)

// Handler serves the HTTP API.
type Handler struct {
	catalog  *catalog.Service
	sessions *budget.Sessions
}

// NewHandler creates a handler over the catalog service and budget sessions.
func NewHandler(svc *catalog.Service, sessions *budget.Sessions) *Handler {
	return &Handler{catalog: svc, sessions: sessions}
}

// Health reports whether the catalog store answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats(r.Context())
	if err != nil {
		zap.L().Warn("health: store unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Catalog: stats})
}

// Search runs ?contains=&excludes=&sort=&limit= against the catalog.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := search.Query{
		Contains: q.Get("contains"),
		Excludes: q.Get("excludes"),
	}
	if mode, ok := model.ParseSortMode(q.Get("sort")); ok {
		query.Sort = mode
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit", err)
			return
		}
		query.Limit = n
	}

	items, err := h.catalog.Search(r.Context(), query)
	if catalog.IsEmptyQuery(err) {
		writeJSON(w, http.StatusOK, SearchResponse{EmptyQuery: true, Items: []model.Item{}})
		return
	}
	if err != nil {
		writeDomainError(w, "search failed", err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	sort := query.Sort
	if !sort.Valid() {
		sort = model.DefaultSortMode
	}
	writeJSON(w, http.StatusOK, SearchResponse{Sort: string(sort), Items: items})
}

// GetItem returns a code's catalog row and resolved cost.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	e, err := h.catalog.Describe(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, "cannot resolve item", err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse{Item: e.Item, Resolution: e.Resolution})
}

// GetChildren returns the direct composition lines of a code.
func (h *Handler) GetChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.catalog.Children(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, "cannot list children", err)
		return
	}
	if children == nil {
		children = []model.ChildLine{}
	}
	writeJSON(w, http.StatusOK, children)
}

// CreateBudget starts a new session budget.
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req CreateBudgetRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}
	if req.BDI != nil && req.BDI.IsNegative() {
		writeError(w, http.StatusBadRequest, "bdi must be >= 0", nil)
		return
	}

	id := h.sessions.Create(req.BDI)
	h.withBudget(w, r, id, http.StatusCreated, func(*budget.Budget) error { return nil })
}

// GetBudget returns the lines and total of a session budget.
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	h.withBudget(w, r, chi.URLParam(r, "id"), http.StatusOK, func(*budget.Budget) error { return nil })
}

// DeleteBudget ends a session.
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "cannot delete budget", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddLine appends a catalog code or a manual line to a session budget.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Code == "" && req.Manual == nil {
		writeError(w, http.StatusBadRequest, "code or manual line is required", nil)
		return
	}

	// Resolve outside the budget lock; the catalog may be slow.
	var entry *catalog.Entry
	if req.Manual == nil {
		e, err := h.catalog.Describe(r.Context(), req.Code)
		if err != nil {
			writeDomainError(w, "cannot add", err)
			return
		}
		entry = e
	}

	h.withBudget(w, r, chi.URLParam(r, "id"), http.StatusCreated, func(b *budget.Budget) error {
		if req.Manual != nil {
			_, err := b.AddManual(*req.Manual)
			return err
		}
		_, err := b.AddResolved(entry.Item, entry.Resolution, req.Quantity)
		return err
	})
}

// UpdateLine edits one line of a session budget.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	seq, ok := seqParam(w, r)
	if !ok {
		return
	}
	var patch budget.LinePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	h.withBudget(w, r, chi.URLParam(r, "id"), http.StatusOK, func(b *budget.Budget) error {
		_, err := b.Update(seq, patch)
		return err
	})
}

// RemoveLine deletes one line and renumbers the rest.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	seq, ok := seqParam(w, r)
	if !ok {
		return
	}
	h.withBudget(w, r, chi.URLParam(r, "id"), http.StatusOK, func(b *budget.Budget) error {
		return b.Remove(seq)
	})
}

// ClearLines empties a session budget.
func (h *Handler) ClearLines(w http.ResponseWriter, r *http.Request) {
	h.withBudget(w, r, chi.URLParam(r, "id"), http.StatusOK, func(b *budget.Budget) error {
		b.Clear()
		return nil
	})
}

// ExportXLSX downloads a session budget as a workbook.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := h.sessions.With(chi.URLParam(r, "id"), func(b *budget.Budget) error {
		return budget.WriteXLSX(b, exportInfo(r), &buf)
	})
	if err != nil {
		writeDomainError(w, "export failed", err)
		return
	}
	writeFile(w, buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "orcamento.xlsx")
}

// ExportPDF downloads a session budget as a PDF document.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	var doc []byte
	err := h.sessions.With(chi.URLParam(r, "id"), func(b *budget.Budget) error {
		var err error
		doc, err = budget.RenderPDF(b, exportInfo(r))
		return err
	})
	if err != nil {
		writeDomainError(w, "export failed", err)
		return
	}
	writeFile(w, doc, "application/pdf", "orcamento.pdf")
}

// withBudget runs fn on the session budget and replies with its snapshot.
func (h *Handler) withBudget(w http.ResponseWriter, _ *http.Request, id string, status int, fn func(*budget.Budget) error) {
	var resp BudgetResponse
	err := h.sessions.With(id, func(b *budget.Budget) error {
		if err := fn(b); err != nil {
			return err
		}
		resp = toBudgetResponse(id, b)
		return nil
	})
	if err != nil {
		writeDomainError(w, "budget update failed", err)
		return
	}
	writeJSON(w, status, resp)
}

func seqParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line number", err)
		return 0, false
	}
	return seq, true
}

func exportInfo(r *http.Request) budget.ExportInfo {
	return budget.ExportInfo{Title: r.URL.Query().Get("title"), CreatedAt: time.Now()}
}

// statusFor maps domain sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case catalog.IsNotFound(err),
		errors.Is(err, budget.ErrSessionNotFound),
		errors.Is(err, budget.ErrLineNotFound):
		return http.StatusNotFound
	case catalog.IsEmptyQuery(err), errors.Is(err, budget.ErrInvalidLine):
		return http.StatusBadRequest
	case catalog.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error(message, zap.Error(err))
		// Driver details stay in the log.
		writeError(w, status, message, eris.New(http.StatusText(status)))
		return
	}
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeFile(w http.ResponseWriter, data []byte, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}
