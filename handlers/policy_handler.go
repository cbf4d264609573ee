package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/utils"
)

type PolicyHandler struct {
	repo *repository.PolicyRepository
}

func NewPolicyHandler(repo *repository.PolicyRepository) *PolicyHandler {
	return &PolicyHandler{repo: repo}
}

func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	params := query.Parse(r.URL.Query())
	policies, pagination, err := h.repo.List(r.Context(), actor, params)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	if policies == nil {
		policies = []models.Policy{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"policies":   policies,
		"pagination": pagination,
	})
}

func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	policy, err := h.repo.Get(r.Context(), actor, id)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, policy)
}

func (h *PolicyHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var policy models.Policy
	if err := utils.ParseJSON(r, &policy); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	created, err := h.repo.Create(r.Context(), actor, &policy)
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *PolicyHandler) Update(w http.ResponseWriter, r *http.Request) {
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

// commentRequest drives the PATCH comment sub-operations: a bare comment adds,
// commentId+comment edits, commentId+deleteComment removes.
type commentRequest struct {
	Comment       string `json:"comment"`
	CommentID     string `json:"commentId"`
	DeleteComment bool   `json:"deleteComment"`
}

func (h *PolicyHandler) PatchComments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	var policy *models.Policy
	var err error
	switch {
	case req.CommentID == "":
		policy, err = h.repo.AddComment(r.Context(), actor, id, req.Comment)
	default:
		commentID, parseErr := primitive.ObjectIDFromHex(req.CommentID)
		if parseErr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid commentId format")
			return
		}
		if req.DeleteComment {
			policy, err = h.repo.DeleteComment(r.Context(), actor, id, commentID)
		} else {
			policy, err = h.repo.EditComment(r.Context(), actor, id, commentID, req.Comment)
		}
	}
	if err != nil {
		respondWithRepoError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, policy)
}

func (h *PolicyHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Policy deleted"})
}
