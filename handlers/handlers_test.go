package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/config"
	"github.com/funsideofwine/guardian-grc/handlers"
	"github.com/funsideofwine/guardian-grc/middleware"
	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/routes"
	"github.com/funsideofwine/guardian-grc/store"
	"github.com/funsideofwine/guardian-grc/utils"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	os.Exit(m.Run())
}

type testEnv struct {
	router     *mux.Router
	users      *store.MemoryUserStore
	auditStore *store.MemoryAuditStore
}

func newTestEnv() *testEnv {
	auditStore := store.NewMemoryAuditStore()
	emitter := audit.NewEmitter(auditStore)
	users := store.NewMemoryUserStore()

	h := &routes.Handlers{
		Auth:       handlers.NewAuthHandler(users),
		Risks:      handlers.NewRiskHandler(repository.NewRiskRepository(store.NewMemoryRiskStore(), emitter)),
		Compliance: handlers.NewComplianceHandler(repository.NewComplianceRepository(store.NewMemoryComplianceStore(), emitter)),
		Incidents:  handlers.NewIncidentHandler(repository.NewIncidentRepository(store.NewMemoryIncidentStore(), store.NewMemoryIncidentCounter(), emitter)),
		Policies:   handlers.NewPolicyHandler(repository.NewPolicyRepository(store.NewMemoryPolicyStore(), emitter)),
		Audit:      handlers.NewAuditHandler(auditStore, emitter),
		Activity:   func(w http.ResponseWriter, r *http.Request) {},
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CorsMiddleware)

	return &testEnv{router: router, users: users, auditStore: auditStore}
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(primitive.NewObjectID().Hex(), "Ana Lyst", "ana@example.com", role)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, "GET", "/api/risks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, "GET", "/api/risks", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndGetRiskOverHTTP(t *testing.T) {
	env := newTestEnv()
	bearer := token(t, "member")

	rec := env.do(t, "POST", "/api/risks", bearer, map[string]interface{}{
		"title":       "Expired TLS certs",
		"description": "No renewal automation on edge hosts",
		"category":    "Technology",
		"currentAssessment": map[string]interface{}{
			"likelihood": "High",
			"impact":     "Medium",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Risk
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 12, created.RiskScore)
	assert.Equal(t, "High", created.RiskLevel)

	rec = env.do(t, "GET", "/api/risks/"+created.ID.Hex(), bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Risk
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Expired TLS certs", got.Title)
}

func TestValidationErrorsListAllFields(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, "POST", "/api/risks", token(t, "member"), map[string]interface{}{
		"category": "Not A Category",
		"status":   "Bogus",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.GreaterOrEqual(t, len(resp.Fields), 3)
}

func TestUnknownIDMapsToNotFound(t *testing.T) {
	env := newTestEnv()
	bearer := token(t, "member")

	rec := env.do(t, "GET", "/api/risks/"+primitive.NewObjectID().Hex(), bearer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, "GET", "/api/risks/not-an-object-id", bearer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRequiresAdminRole(t *testing.T) {
	env := newTestEnv()
	member := token(t, "member")
	admin := token(t, "admin")

	rec := env.do(t, "POST", "/api/policies", member, map[string]interface{}{"name": "Remote Work Policy"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var policy models.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policy))

	rec = env.do(t, "DELETE", "/api/policies/"+policy.ID.Hex(), member, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, "DELETE", "/api/policies/"+policy.ID.Hex(), admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"name":     "Ana Lyst",
		"email":    "ana@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate registration is rejected.
	rec = env.do(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"name":     "Ana Again",
		"email":    "ana@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "ana@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "member", login.User.Role)

	// The issued token works against protected routes.
	rec = env.do(t, "GET", "/api/risks", login.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPolicyCommentPatch(t *testing.T) {
	env := newTestEnv()
	bearer := token(t, "member")

	rec := env.do(t, "POST", "/api/policies", bearer, map[string]interface{}{"name": "BYOD Policy"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var policy models.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policy))

	rec = env.do(t, "PATCH", "/api/policies/"+policy.ID.Hex(), bearer, map[string]interface{}{
		"comment": "Needs legal review",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "Needs legal review", updated.Comments[0].Text)

	rec = env.do(t, "PATCH", "/api/policies/"+policy.ID.Hex(), bearer, map[string]interface{}{
		"commentId":     updated.Comments[0].ID.Hex(),
		"deleteComment": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared models.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleared))
	assert.Empty(t, cleared.Comments)

	// A fresh fetch agrees: the comment is gone from the stored document too.
	rec = env.do(t, "GET", "/api/policies/"+policy.ID.Hex(), bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Empty(t, fetched.Comments)
}

func TestListResponseShape(t *testing.T) {
	env := newTestEnv()
	bearer := token(t, "member")

	for i := 0; i < 3; i++ {
		rec := env.do(t, "POST", "/api/incidents", bearer, map[string]interface{}{
			"title":       "Incident",
			"description": "filler",
			"category":    "System Outage",
			"severity":    "Low",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, "GET", "/api/incidents?page=1&limit=2", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Incidents  []models.Incident `json:"incidents"`
		Pagination struct {
			Total       int64 `json:"total"`
			TotalPages  int   `json:"totalPages"`
			HasNextPage bool  `json:"hasNextPage"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Incidents, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNextPage)
}
