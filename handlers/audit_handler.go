package handlers

import (
	"net/http"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
	"github.com/funsideofwine/guardian-grc/store"
	"github.com/funsideofwine/guardian-grc/utils"
)

type AuditHandler struct {
	logs    store.AuditStore
	emitter *audit.Emitter
}

func NewAuditHandler(logs store.AuditStore, emitter *audit.Emitter) *AuditHandler {
	return &AuditHandler{logs: logs, emitter: emitter}
}

// List returns audit entries newest-first. Reading the log is deliberately not
// itself audited.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFromRequest(w, r); !ok {
		return
	}

	params := query.Parse(r.URL.Query())
	entries, total, err := h.logs.List(r.Context(), params)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.AuditLogEntry{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"logs":       entries,
		"pagination": query.NewPagination(params, total),
	})
}

// Record lets clients log UI-side events (page views, exports) into the same
// trail as server-side mutations.
func (h *AuditHandler) Record(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Action  string `json:"action"`
		Details string `json:"details"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.Action == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "action is required")
		return
	}

	h.emitter.Record(r.Context(), actor, req.Action, req.Details)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Audit event recorded"})
}
