package handlers

import (
	"net/http"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/utils"
)

type IncidentHandler struct {
	repo *repository.IncidentRepository
}

func NewIncidentHandler(repo *repository.IncidentRepository) *IncidentHandler {
	return &IncidentHandler{repo: repo}
}

func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	params := query.Parse(r.URL.Query())
	incidents, pagination, err := h.repo.List(r.Context(), actor, params)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	if incidents == nil {
		incidents = []models.Incident{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"incidents":  incidents,
		"pagination": pagination,
	})
}

func (h *IncidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	incident, err := h.repo.Get(r.Context(), actor, id)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, incident)
}

func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var incident models.Incident
	if err := utils.ParseJSON(r, &incident); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	created, err := h.repo.Create(r.Context(), actor, &incident)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *IncidentHandler) Update(w http.ResponseWriter, r *http.Request) {
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

func (h *IncidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Incident deleted"})
}
