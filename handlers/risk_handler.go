package handlers

import (
	"net/http"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/utils"
)

type RiskHandler struct {
	repo *repository.RiskRepository
}

func NewRiskHandler(repo *repository.RiskRepository) *RiskHandler {
	return &RiskHandler{repo: repo}
}

func (h *RiskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	params := query.Parse(r.URL.Query())
	risks, pagination, err := h.repo.List(r.Context(), actor, params)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	if risks == nil {
		risks = []models.Risk{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"risks":      risks,
		"pagination": pagination,
	})
}

func (h *RiskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	risk, err := h.repo.Get(r.Context(), actor, id)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, risk)
}

func (h *RiskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var risk models.Risk
	if err := utils.ParseJSON(r, &risk); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	created, err := h.repo.Create(r.Context(), actor, &risk)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *RiskHandler) Update(w http.ResponseWriter, r *http.Request) {
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

func (h *RiskHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Risk deleted"})
}
