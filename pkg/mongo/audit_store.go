package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/orggate/pkg/audit"
)

// AuditCollection is the collection audit events are stored in.
const AuditCollection = "audit_events"

var _ audit.BatchWriter = (*AuditStore)(nil)

// AuditStore appends audit events with InsertMany.
type AuditStore struct {
	coll *mongo.Collection
}

func NewAuditStore(db *mongo.Database) *AuditStore {
	return &AuditStore{coll: db.Collection(AuditCollection)}
}

// EnsureIndexes creates the time and account indexes. ttl > 0 also expires
// events after that age.
func (s *AuditStore) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	created := options.Index().SetName("created_at")
	if ttl > 0 {
		created.SetExpireAfterSeconds(int32(ttl.Seconds()))
	}
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}, Options: created},
		{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("account_history")},
	})
	if err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}
	return nil
}

// StoreBatch implements audit.BatchWriter.
func (s *AuditStore) StoreBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]any, 0, len(events))
	for _, e := range events {
		docs = append(docs, newAuditDocument(e))
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert audit events: %w", err)
	}
	return nil
}

type auditDocument struct {
	ID         string         `bson:"_id"`
	Action     string         `bson:"action"`
	Result     string         `bson:"result"`
	AccountID  string         `bson:"account_id,omitempty"`
	Provider   string         `bson:"provider,omitempty"`
	ExternalID string         `bson:"external_id,omitempty"`
	Reason     string         `bson:"reason,omitempty"`
	RequestID  string         `bson:"request_id,omitempty"`
	IP         string         `bson:"ip,omitempty"`
	UserAgent  string         `bson:"user_agent,omitempty"`
	Metadata   map[string]any `bson:"metadata,omitempty"`
	CreatedAt  time.Time      `bson:"created_at"`
}

func newAuditDocument(e audit.Event) auditDocument {
	return auditDocument{
		ID:         e.ID.String(),
		Action:     e.Action,
		Result:     string(e.Result),
		AccountID:  e.AccountID,
		Provider:   e.Provider,
		ExternalID: e.ExternalID,
		Reason:     e.Reason,
		RequestID:  e.RequestID,
		IP:         e.IP,
		UserAgent:  e.UserAgent,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}
