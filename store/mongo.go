package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
)

// Stores bundles the Mongo-backed implementations over one database handle.
type Stores struct {
	Risks           *MongoRiskStore
	Compliance      *MongoComplianceStore
	Incidents       *MongoIncidentStore
	Policies        *MongoPolicyStore
	Audit           *MongoAuditStore
	Users           *MongoUserStore
	IncidentCounter *MongoIncidentCounter
}

func NewStores(db *mongo.Database) *Stores {
	return &Stores{
		Risks:           &MongoRiskStore{coll: db.Collection("risks")},
		Compliance:      &MongoComplianceStore{coll: db.Collection("compliance")},
		Incidents:       &MongoIncidentStore{coll: db.Collection("incidents")},
		Policies:        &MongoPolicyStore{coll: db.Collection("policies")},
		Audit:           &MongoAuditStore{coll: db.Collection("audit_logs")},
		Users:           &MongoUserStore{coll: db.Collection("users")},
		IncidentCounter: &MongoIncidentCounter{coll: db.Collection("counters")},
	}
}

func mapFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// ==================== RISKS ====================

type MongoRiskStore struct {
	coll *mongo.Collection
}

func (s *MongoRiskStore) List(ctx context.Context, p query.Params) ([]models.Risk, int64, error) {
	filter := p.Filter(RiskSearchFields...)
	cursor, err := s.coll.Find(ctx, filter, p.FindOptions("createdAt"))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	risks := []models.Risk{}
	if err := cursor.All(ctx, &risks); err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return risks, total, nil
}

func (s *MongoRiskStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Risk, error) {
	var risk models.Risk
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&risk); err != nil {
		return nil, mapFindErr(err)
	}
	return &risk, nil
}

func (s *MongoRiskStore) Insert(ctx context.Context, r *models.Risk) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, r)
	return err
}

func (s *MongoRiskStore) Replace(ctx context.Context, r *models.Risk) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoRiskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== COMPLIANCE ====================

type MongoComplianceStore struct {
	coll *mongo.Collection
}

func (s *MongoComplianceStore) List(ctx context.Context, p query.Params) ([]models.Compliance, int64, error) {
	filter := p.Filter(ComplianceSearchFields...)
	cursor, err := s.coll.Find(ctx, filter, p.FindOptions("createdAt"))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	frameworks := []models.Compliance{}
	if err := cursor.All(ctx, &frameworks); err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return frameworks, total, nil
}

func (s *MongoComplianceStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Compliance, error) {
	var c models.Compliance
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapFindErr(err)
	}
	return &c, nil
}

func (s *MongoComplianceStore) Insert(ctx context.Context, c *models.Compliance) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, c)
	return err
}

func (s *MongoComplianceStore) Replace(ctx context.Context, c *models.Compliance) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoComplianceStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== INCIDENTS ====================

type MongoIncidentStore struct {
	coll *mongo.Collection
}

func (s *MongoIncidentStore) List(ctx context.Context, p query.Params) ([]models.Incident, int64, error) {
	filter := p.Filter(IncidentSearchFields...)
	cursor, err := s.coll.Find(ctx, filter, p.FindOptions("detectedAt"))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	incidents := []models.Incident{}
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return incidents, total, nil
}

func (s *MongoIncidentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Incident, error) {
	var i models.Incident
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&i); err != nil {
		return nil, mapFindErr(err)
	}
	return &i, nil
}

func (s *MongoIncidentStore) Insert(ctx context.Context, i *models.Incident) error {
	if i.ID.IsZero() {
		i.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, i)
	return err
}

func (s *MongoIncidentStore) Replace(ctx context.Context, i *models.Incident) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": i.ID}, i)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoIncidentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== POLICIES ====================

type MongoPolicyStore struct {
	coll *mongo.Collection
}

func (s *MongoPolicyStore) List(ctx context.Context, p query.Params) ([]models.Policy, int64, error) {
	filter := p.Filter(PolicySearchFields...)
	cursor, err := s.coll.Find(ctx, filter, p.FindOptions("createdAt"))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	policies := []models.Policy{}
	if err := cursor.All(ctx, &policies); err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}

func (s *MongoPolicyStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Policy, error) {
	var p models.Policy
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapFindErr(err)
	}
	return &p, nil
}

func (s *MongoPolicyStore) Insert(ctx context.Context, pol *models.Policy) error {
	if pol.ID.IsZero() {
		pol.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, pol)
	return err
}

func (s *MongoPolicyStore) Replace(ctx context.Context, pol *models.Policy) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": pol.ID}, pol)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPolicyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== AUDIT LOGS ====================

type MongoAuditStore struct {
	coll *mongo.Collection
}

func (s *MongoAuditStore) Insert(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, entry)
	return err
}

func (s *MongoAuditStore) List(ctx context.Context, p query.Params) ([]models.AuditLogEntry, int64, error) {
	filter := bson.M{}
	if p.Owner != "" {
		filter["userId"] = p.Owner
	}
	if p.Search != "" {
		re := primitive.Regex{Pattern: query.RegexEscape(p.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"action": re},
			bson.M{"details": re},
			bson.M{"userEmail": re},
		}
	}
	cursor, err := s.coll.Find(ctx, filter, p.FindOptions("timestamp"))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	entries := []models.AuditLogEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ==================== USERS ====================

type MongoUserStore struct {
	coll *mongo.Collection
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, mapFindErr(err)
	}
	return &u, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapFindErr(err)
	}
	return &u, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, u)
	return err
}

// ==================== INCIDENT COUNTER ====================

// MongoIncidentCounter allocates incident sequence numbers with an atomic
// $inc upsert on a per-year counter document, so concurrent creates in the
// same year can never be handed the same number.
type MongoIncidentCounter struct {
	coll *mongo.Collection
}

func (c *MongoIncidentCounter) Next(ctx context.Context, year int) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int `bson:"seq"`
	}
	err := c.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": fmt.Sprintf("incidents-%d", year)},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}
