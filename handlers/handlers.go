// Package handlers is the HTTP boundary: it decodes requests, resolves the
// acting user, delegates to the repositories, and maps errors to status codes.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/middleware"
	"github.com/funsideofwine/guardian-grc/store"
	"github.com/funsideofwine/guardian-grc/utils"
	"github.com/funsideofwine/guardian-grc/validation"
)

// actorFromRequest resolves the authenticated actor; writes 401 and returns
// false when the request carries no identity.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (audit.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return audit.Actor{}, false
	}
	return actor, true
}

// requireAdmin gates destructive operations on the admin role.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if middleware.RoleFromContext(r.Context()) != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "Admin role required")
		return false
	}
	return true
}

// idParam parses the {id} path variable; writes 400 on a malformed id.
func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid id format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondWithRepoError maps repository errors onto the HTTP error taxonomy:
// missing document 404, rejected input 400 with the full violation list,
// anything else 500 without leaking internals.
func respondWithRepoError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Resource not found")
	case errors.As(err, &verr):
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	default:
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
