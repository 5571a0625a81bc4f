package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contactform/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContactsCollection is the collection holding contact documents.
const ContactsCollection = "contacts"

// contactDocument is the stored shape of a contact. Field names follow the
// camelCase keys the collection has always used.
type contactDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"createdAt"`
	IsRead    bool               `bson:"isRead"`
	IPAddress string             `bson:"ipAddress,omitempty"`
	UserAgent string             `bson:"userAgent,omitempty"`
}

func (d *contactDocument) toModel() *model.Contact {
	return &model.Contact{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Subject:   d.Subject,
		Message:   d.Message,
		CreatedAt: d.CreatedAt.UTC(),
		IsRead:    d.IsRead,
		IPAddress: d.IPAddress,
		UserAgent: d.UserAgent,
	}
}

// MongoContactRepository is the MongoDB implementation of ContactRepository.
type MongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository creates a MongoContactRepository on db's contacts collection.
func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{coll: db.Collection(ContactsCollection)}
}

var _ ContactRepository = (*MongoContactRepository)(nil)

// EnsureIndexes creates the index backing the newest-first listing.
func (r *MongoContactRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return fmt.Errorf("create contacts index: %w", err)
	}
	return nil
}

// Create inserts one document and populates c.ID with its ObjectID.
func (r *MongoContactRepository) Create(ctx context.Context, c *model.Contact) error {
	doc := contactDocument{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Subject:   c.Subject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		IsRead:    c.IsRead,
		IPAddress: c.IPAddress,
		UserAgent: c.UserAgent,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.ID = doc.ID.Hex()
	return nil
}

// List returns contacts sorted by createdAt descending.
func (r *MongoContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))

	cur, err := r.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	var docs []contactDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	contacts := make([]*model.Contact, 0, len(docs))
	for i := range docs {
		contacts = append(contacts, docs[i].toModel())
	}
	return contacts, nil
}

// Count returns the number of documents in the collection.
func (r *MongoContactRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

// MarkRead sets isRead and returns the document as it is after the update.
func (r *MongoContactRepository) MarkRead(ctx context.Context, id string) (*model.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc contactDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isRead": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark contact read: %w", err)
	}
	return doc.toModel(), nil
}
