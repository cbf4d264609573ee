package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
)

// In-memory store implementations with the same observable semantics as the
// Mongo ones. Used by repository and handler tests; never wired in production.

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func searchHit(search string, fields []string, tags []string) bool {
	for _, f := range fields {
		if containsFold(f, search) {
			return true
		}
	}
	for _, t := range tags {
		if containsFold(t, search) {
			return true
		}
	}
	return false
}

func window(p query.Params, n int) (int, int) {
	skip, limit := p.Window()
	lo := int(skip)
	if lo > n {
		lo = n
	}
	hi := lo + int(limit)
	if hi > n {
		hi = n
	}
	return lo, hi
}

// ==================== RISKS ====================

type MemoryRiskStore struct {
	mu    sync.Mutex
	risks map[primitive.ObjectID]models.Risk
}

func NewMemoryRiskStore() *MemoryRiskStore {
	return &MemoryRiskStore{risks: map[primitive.ObjectID]models.Risk{}}
}

func (s *MemoryRiskStore) List(ctx context.Context, p query.Params) ([]models.Risk, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.Risk{}
	for _, r := range s.risks {
		if p.Status != "" && r.Status != p.Status {
			continue
		}
		if p.Category != "" && r.Category != p.Category {
			continue
		}
		if p.Priority != "" && r.Priority != p.Priority {
			continue
		}
		if p.Owner != "" && r.Owner.UserID != p.Owner {
			continue
		}
		if p.Search != "" && !searchHit(p.Search, []string{r.Title, r.Description}, r.Tags) {
			continue
		}
		matched = append(matched, r)
	}

	field, order := p.Sort("createdAt")
	sort.SliceStable(matched, func(i, j int) bool {
		var cmp int
		switch field {
		case "title":
			cmp = strings.Compare(matched[i].Title, matched[j].Title)
		case "riskScore":
			cmp = matched[i].RiskScore - matched[j].RiskScore
		default:
			cmp = matched[i].CreatedAt.Compare(matched[j].CreatedAt)
		}
		if order < 0 {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matched))
	lo, hi := window(p, len(matched))
	return matched[lo:hi], total, nil
}

func (s *MemoryRiskStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Risk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.risks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryRiskStore) Insert(ctx context.Context, r *models.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.risks[r.ID] = *r
	return nil
}

func (s *MemoryRiskStore) Replace(ctx context.Context, r *models.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.risks[r.ID]; !ok {
		return ErrNotFound
	}
	s.risks[r.ID] = *r
	return nil
}

func (s *MemoryRiskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.risks[id]; !ok {
		return ErrNotFound
	}
	delete(s.risks, id)
	return nil
}

// ==================== COMPLIANCE ====================

type MemoryComplianceStore struct {
	mu         sync.Mutex
	frameworks map[primitive.ObjectID]models.Compliance
}

func NewMemoryComplianceStore() *MemoryComplianceStore {
	return &MemoryComplianceStore{frameworks: map[primitive.ObjectID]models.Compliance{}}
}

func (s *MemoryComplianceStore) List(ctx context.Context, p query.Params) ([]models.Compliance, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.Compliance{}
	for _, c := range s.frameworks {
		if p.Status != "" && c.Status != p.Status {
			continue
		}
		if p.Category != "" && c.Category != p.Category {
			continue
		}
		if p.Type != "" && c.Type != p.Type {
			continue
		}
		if p.Owner != "" && c.Owner.UserID != p.Owner {
			continue
		}
		if p.Search != "" && !searchHit(p.Search, []string{c.Name, c.Description, c.Authority}, c.Tags) {
			continue
		}
		matched = append(matched, c)
	}

	field, order := p.Sort("createdAt")
	sort.SliceStable(matched, func(i, j int) bool {
		var cmp int
		switch field {
		case "name":
			cmp = strings.Compare(matched[i].Name, matched[j].Name)
		case "complianceScore":
			cmp = matched[i].ComplianceScore - matched[j].ComplianceScore
		default:
			cmp = matched[i].CreatedAt.Compare(matched[j].CreatedAt)
		}
		if order < 0 {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matched))
	lo, hi := window(p, len(matched))
	return matched[lo:hi], total, nil
}

func (s *MemoryComplianceStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Compliance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.frameworks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryComplianceStore) Insert(ctx context.Context, c *models.Compliance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.frameworks[c.ID] = *c
	return nil
}

func (s *MemoryComplianceStore) Replace(ctx context.Context, c *models.Compliance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.frameworks[c.ID]; !ok {
		return ErrNotFound
	}
	s.frameworks[c.ID] = *c
	return nil
}

func (s *MemoryComplianceStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.frameworks[id]; !ok {
		return ErrNotFound
	}
	delete(s.frameworks, id)
	return nil
}

// ==================== INCIDENTS ====================

type MemoryIncidentStore struct {
	mu        sync.Mutex
	incidents map[primitive.ObjectID]models.Incident
}

func NewMemoryIncidentStore() *MemoryIncidentStore {
	return &MemoryIncidentStore{incidents: map[primitive.ObjectID]models.Incident{}}
}

func (s *MemoryIncidentStore) List(ctx context.Context, p query.Params) ([]models.Incident, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.Incident{}
	for _, i := range s.incidents {
		if p.Status != "" && i.Status != p.Status {
			continue
		}
		if p.Category != "" && i.Category != p.Category {
			continue
		}
		if p.Severity != "" && i.Severity != p.Severity {
			continue
		}
		if p.Priority != "" && i.Priority != p.Priority {
			continue
		}
		if p.Owner != "" && i.Owner.UserID != p.Owner {
			continue
		}
		if p.Search != "" && !searchHit(p.Search, []string{i.IncidentNumber, i.Title, i.Description}, i.Tags) {
			continue
		}
		matched = append(matched, i)
	}

	field, order := p.Sort("detectedAt")
	sort.SliceStable(matched, func(i, j int) bool {
		var cmp int
		switch field {
		case "title":
			cmp = strings.Compare(matched[i].Title, matched[j].Title)
		case "incidentNumber":
			cmp = strings.Compare(matched[i].IncidentNumber, matched[j].IncidentNumber)
		case "createdAt":
			cmp = matched[i].CreatedAt.Compare(matched[j].CreatedAt)
		default:
			cmp = matched[i].DetectedAt.Compare(matched[j].DetectedAt)
		}
		if order < 0 {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matched))
	lo, hi := window(p, len(matched))
	return matched[lo:hi], total, nil
}

func (s *MemoryIncidentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &i, nil
}

func (s *MemoryIncidentStore) Insert(ctx context.Context, i *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID.IsZero() {
		i.ID = primitive.NewObjectID()
	}
	s.incidents[i.ID] = *i
	return nil
}

func (s *MemoryIncidentStore) Replace(ctx context.Context, i *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incidents[i.ID]; !ok {
		return ErrNotFound
	}
	s.incidents[i.ID] = *i
	return nil
}

func (s *MemoryIncidentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incidents[id]; !ok {
		return ErrNotFound
	}
	delete(s.incidents, id)
	return nil
}

// ==================== POLICIES ====================

type MemoryPolicyStore struct {
	mu       sync.Mutex
	policies map[primitive.ObjectID]models.Policy
}

func NewMemoryPolicyStore() *MemoryPolicyStore {
	return &MemoryPolicyStore{policies: map[primitive.ObjectID]models.Policy{}}
}

func (s *MemoryPolicyStore) List(ctx context.Context, p query.Params) ([]models.Policy, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.Policy{}
	for _, pol := range s.policies {
		if p.State != "" && pol.State != p.State {
			continue
		}
		if p.Category != "" && pol.Category != p.Category {
			continue
		}
		if p.Owner != "" && pol.Owner.UserID != p.Owner {
			continue
		}
		if p.Search != "" && !searchHit(p.Search, []string{pol.Name, pol.Description}, nil) {
			continue
		}
		matched = append(matched, pol)
	}

	field, order := p.Sort("createdAt")
	sort.SliceStable(matched, func(i, j int) bool {
		var cmp int
		switch field {
		case "name":
			cmp = strings.Compare(matched[i].Name, matched[j].Name)
		default:
			cmp = matched[i].CreatedAt.Compare(matched[j].CreatedAt)
		}
		if order < 0 {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matched))
	lo, hi := window(p, len(matched))
	return matched[lo:hi], total, nil
}

func (s *MemoryPolicyStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.policies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryPolicyStore) Insert(ctx context.Context, pol *models.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pol.ID.IsZero() {
		pol.ID = primitive.NewObjectID()
	}
	s.policies[pol.ID] = *pol
	return nil
}

func (s *MemoryPolicyStore) Replace(ctx context.Context, pol *models.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[pol.ID]; !ok {
		return ErrNotFound
	}
	s.policies[pol.ID] = *pol
	return nil
}

func (s *MemoryPolicyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[id]; !ok {
		return ErrNotFound
	}
	delete(s.policies, id)
	return nil
}

// ==================== AUDIT LOGS ====================

type MemoryAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditLogEntry

	// FailInserts makes every Insert fail, for audit-failure path tests.
	FailInserts bool
}

func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{}
}

func (s *MemoryAuditStore) Insert(ctx context.Context, entry *models.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts {
		return context.DeadlineExceeded
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *MemoryAuditStore) List(ctx context.Context, p query.Params) ([]models.AuditLogEntry, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.AuditLogEntry{}
	for _, e := range s.entries {
		if p.Owner != "" && e.UserID != p.Owner {
			continue
		}
		if p.Search != "" && !searchHit(p.Search, []string{e.Action, e.Details, e.UserEmail}, nil) {
			continue
		}
		matched = append(matched, e)
	}

	_, order := p.Sort("timestamp")
	sort.SliceStable(matched, func(i, j int) bool {
		cmp := matched[i].Timestamp.Compare(matched[j].Timestamp)
		if order < 0 {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matched))
	lo, hi := window(p, len(matched))
	return matched[lo:hi], total, nil
}

// Entries returns a copy of everything recorded, newest last.
func (s *MemoryAuditStore) Entries() []models.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ==================== USERS ====================

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) Insert(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = *u
	return nil
}

// ==================== INCIDENT COUNTER ====================

type MemoryIncidentCounter struct {
	mu   sync.Mutex
	seqs map[int]int
}

func NewMemoryIncidentCounter() *MemoryIncidentCounter {
	return &MemoryIncidentCounter{seqs: map[int]int{}}
}

func (c *MemoryIncidentCounter) Next(ctx context.Context, year int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[year]++
	return c.seqs[year], nil
}
