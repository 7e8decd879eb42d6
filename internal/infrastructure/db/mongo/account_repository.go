package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// AccountRepository implements ports.CredentialStore. Email uniqueness is
// enforced by the unique index on accounts.email.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(colAccounts)}
}

type accountDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name,omitempty"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	Provider     string             `bson:"provider"`
	Role         string             `bson:"role"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Provider:     d.Provider,
		Role:         domain.Role(d.Role),
		Status:       domain.AccountStatus(d.Status),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := accountDocument{
		ID:           primitive.NewObjectID(),
		Email:        account.Email,
		Name:         account.Name,
		PasswordHash: account.PasswordHash,
		Provider:     account.Provider,
		Role:         string(account.Role),
		Status:       string(account.Status),
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if err := insertOne(ctx, r.coll, doc, "insert account", domain.ErrEmailTaken); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindByNormalizedEmail expects an already normalized email.
func (r *AccountRepository) FindByNormalizedEmail(ctx context.Context, email string) (*domain.Account, error) {
	doc, err := findOne[accountDocument](ctx, r.coll, bson.D{{Key: "email", Value: email}}, "find account by email")
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[accountDocument](ctx, r.coll, bson.D{{Key: "_id", Value: oid}}, "find account")
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) Update(ctx context.Context, id string, fields domain.AccountUpdate) (*domain.Account, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if fields.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *fields.Name})
	}
	if fields.Role != nil {
		set = append(set, bson.E{Key: "role", Value: string(*fields.Role)})
	}
	if fields.Status != nil {
		set = append(set, bson.E{Key: "status", Value: string(*fields.Status)})
	}
	if fields.PasswordHash != nil {
		set = append(set, bson.E{Key: "password_hash", Value: *fields.PasswordHash})
	}

	doc, err := updateOne[accountDocument](ctx, r.coll, oid, bson.D{{Key: "$set", Value: set}}, "update account")
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return deleteByID(ctx, r.coll, oid, "delete account")
}

// objectID parses a hex id. An unparsable id cannot match any document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("account %q: %w", id, domain.ErrNotFound)
	}
	return oid, nil
}
