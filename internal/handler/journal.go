package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/harman-04/My-Mind-Mirror/internal/auth"
	"github.com/harman-04/My-Mind-Mirror/internal/service"
)

// JournalHandler exposes the journal API. Every route runs behind
// auth.RequireAuth, so the owner identity always comes from the request
// context — never from the request body or URL.
type JournalHandler struct {
	journals *service.JournalService
	logger   *slog.Logger
}

// NewJournalHandler creates a JournalHandler.
func NewJournalHandler(journals *service.JournalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{journals: journals, logger: logger}
}

// entryRequest is the body for submit and update: {"text": "..."}.
type entryRequest struct {
	Text string `json:"text"`
}

// HandleSubmit creates or updates today's entry for the caller.
//
// HTTP: POST /api/journal
func (h *JournalHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid journal JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid_json", Message: "request body must be valid JSON",
		})
		return
	}

	entry, err := h.journals.SubmitToday(r.Context(), ownerID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newEntryView(entry))
}

// HandleUpdate rewrites an existing entry's text and re-runs analysis.
//
// HTTP: PUT /api/journal/{id}
func (h *JournalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid journal JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid_json", Message: "request body must be valid JSON",
		})
		return
	}

	entry, err := h.journals.Update(r.Context(), id, ownerID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newEntryView(entry))
}

// HandleDelete permanently removes an entry.
//
// HTTP: DELETE /api/journal/{id}
func (h *JournalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	if err := h.journals.Delete(r.Context(), id, ownerID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGet returns a single entry, 404 when it doesn't exist or belongs to
// someone else.
//
// HTTP: GET /api/journal/{id}
func (h *JournalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	entry, err := h.journals.Get(r.Context(), id, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newEntryView(entry))
}

// HandleHistory lists the caller's entries in a date range.
//
// HTTP: GET /api/journal/history?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
// Both parameters are optional; the default window is the last 30 days.
func (h *JournalHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())

	entries, err := h.journals.History(r.Context(),
		ownerID,
		r.URL.Query().Get("startDate"),
		r.URL.Query().Get("endDate"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newEntryViews(entries))
}

// HandleMoodData returns the mood-chart series for a date range.
//
// HTTP: GET /api/journal/mood-data?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *JournalHandler) HandleMoodData(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())

	points, err := h.journals.MoodSeries(r.Context(),
		ownerID,
		r.URL.Query().Get("startDate"),
		r.URL.Query().Get("endDate"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newMoodPointViews(points))
}
