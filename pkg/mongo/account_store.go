package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// AccountsCollection is the collection accounts are stored in.
const AccountsCollection = "accounts"

// Ensure AccountStore implements orgauth.AccountStore.
var _ orgauth.AccountStore = (*AccountStore)(nil)

// AccountStore keeps accounts as single documents with identities embedded.
type AccountStore struct {
	coll *mongo.Collection
}

func NewAccountStore(db *mongo.Database) *AccountStore {
	return &AccountStore{coll: db.Collection(AccountsCollection)}
}

// EnsureIndexes creates the unique email index and the identity lookup index.
// The identity index is not unique; an identity is unique within its account only.
func (s *AccountStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "identities.provider", Value: 1}, {Key: "identities.external_id", Value: 1}},
			Options: options.Index().SetName("identity_lookup"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create account indexes: %w", err)
	}
	return nil
}

func (s *AccountStore) FindAccountsByEmails(ctx context.Context, emails []string) ([]*orgauth.Account, error) {
	if len(emails) == 0 {
		return []*orgauth.Account{}, nil
	}

	cur, err := s.coll.Find(ctx, bson.M{"email": bson.M{"$in": emails}})
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}

	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}

	accounts := make([]*orgauth.Account, 0, len(docs))
	for _, d := range docs {
		a, err := d.toAccount()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (s *AccountStore) SaveAccount(ctx context.Context, account *orgauth.Account) error {
	doc, err := newAccountDocument(account)
	if err != nil {
		return err
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return orgauth.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

type accountDocument struct {
	ID           string             `bson:"_id"`
	Email        string             `bson:"email"`
	PasswordHash []byte             `bson:"password_hash"`
	Level        string             `bson:"level"`
	Identities   []identityDocument `bson:"identities"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type identityDocument struct {
	Provider    string         `bson:"provider"`
	ExternalID  string         `bson:"external_id"`
	DisplayName string         `bson:"display_name,omitempty"`
	Username    string         `bson:"username,omitempty"`
	ProfileURL  string         `bson:"profile_url,omitempty"`
	AvatarURL   string         `bson:"avatar_url,omitempty"`
	AccessToken string         `bson:"access_token,omitempty"`
	Cache       map[string]any `bson:"cache,omitempty"`
	LinkedAt    time.Time      `bson:"linked_at"`
}

func newAccountDocument(a *orgauth.Account) (accountDocument, error) {
	level, err := a.Level.MarshalText()
	if err != nil {
		return accountDocument{}, err
	}

	doc := accountDocument{
		ID:           a.ID.String(),
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Level:        string(level),
		Identities:   make([]identityDocument, 0, len(a.Identities)),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	for _, i := range a.Identities {
		doc.Identities = append(doc.Identities, identityDocument(i))
	}
	return doc, nil
}

func (d accountDocument) toAccount() (*orgauth.Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("account %q has invalid id: %w", d.ID, err)
	}
	level, err := orgauth.ParseLevel(d.Level)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", d.ID, err)
	}

	a := &orgauth.Account{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Level:        level,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, i := range d.Identities {
		a.Identities = append(a.Identities, orgauth.LinkedIdentity(i))
	}
	return a, nil
}
