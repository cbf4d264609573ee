package handlers

import (
	"net/http"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/utils"
)

type ComplianceHandler struct {
	repo *repository.ComplianceRepository
}

func NewComplianceHandler(repo *repository.ComplianceRepository) *ComplianceHandler {
	return &ComplianceHandler{repo: repo}
}

func (h *ComplianceHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	params := query.Parse(r.URL.Query())
	frameworks, pagination, err := h.repo.List(r.Context(), actor, params)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	if frameworks == nil {
		frameworks = []models.Compliance{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"compliance": frameworks,
		"pagination": pagination,
	})
}

func (h *ComplianceHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	framework, err := h.repo.Get(r.Context(), actor, id)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, framework)
}

func (h *ComplianceHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var framework models.Compliance
	if err := utils.ParseJSON(r, &framework); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	created, err := h.repo.Create(r.Context(), actor, &framework)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *ComplianceHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if err := utils.ParseJSON(r, &patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	updated, err := h.repo.Update(r.Context(), actor, id, patch)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *ComplianceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	if !requireAdmin(w, r) {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), actor, id); err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Compliance framework deleted"})
}
