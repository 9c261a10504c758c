package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/library-system/internal/core/domain"
)

const collectionBooks = "books"

// BookRepository persists the catalog in MongoDB. Field names match the
// documents written by the legacy hosted store.
type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

type bookDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Author          string             `bson:"author"`
	ISBN            string             `bson:"isbn"`
	Category        string             `bson:"category"`
	Description     string             `bson:"description,omitempty"`
	Quantity        int                `bson:"quantity"`
	AvailableCopies int                `bson:"availableCopies"`
}

func toDoc(b *domain.Book) bookDoc {
	return bookDoc{
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Category:        b.Category,
		Description:     b.Description,
		Quantity:        b.Quantity,
		AvailableCopies: b.AvailableCopies,
	}
}

func (d bookDoc) toDomain() *domain.Book {
	return &domain.Book{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Author:          d.Author,
		ISBN:            d.ISBN,
		Category:        d.Category,
		Description:     d.Description,
		Quantity:        d.Quantity,
		AvailableCopies: d.AvailableCopies,
	}
}

func bookID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrBookNotFound
	}
	return oid, nil
}

// Create inserts a new book document and returns the store-assigned id.
func (r *BookRepository) Create(ctx context.Context, b *domain.Book) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toDoc(b))
	if err != nil {
		return "", fmt.Errorf("insert book: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := bookID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByTitle retrieves a book by exact title. Kept for borrowing records
// that predate the catalog foreign key.
func (r *BookRepository) FindByTitle(ctx context.Context, title string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookDoc
	if err := r.col.FindOne(ctx, bson.M{"title": title}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book by title: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)

	var books []*domain.Book
	for cur.Next(ctx) {
		var doc bookDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, doc.toDomain())
	}
	return books, cur.Err()
}

// Update replaces every catalog field of the book, availability included.
func (r *BookRepository) Update(ctx context.Context, id string, b *domain.Book) error {
	oid, err := bookID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": toDoc(b)})
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := bookID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// DecrementAvailable reserves one copy. The availability check and the
// decrement are a single conditional update, so concurrent borrows of the
// last copy cannot drive the count negative.
func (r *BookRepository) DecrementAvailable(ctx context.Context, id string) error {
	oid, err := bookID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "availableCopies": bson.M{"$gt": 0}}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"availableCopies": -1}})
	if err != nil {
		return fmt.Errorf("reserve copy: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the book is gone or no copies are left.
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return domain.ErrBookUnavailable
	}
	return nil
}

// IncrementAvailable releases one copy back to the catalog, clamped at the
// book's total quantity. Releasing an already-full book is a no-op.
func (r *BookRepository) IncrementAvailable(ctx context.Context, id string) error {
	oid, err := bookID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":   oid,
		"$expr": bson.M{"$lt": bson.A{"$availableCopies", "$quantity"}},
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"availableCopies": 1}})
	if err != nil {
		return fmt.Errorf("release copy: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		// Already at full quantity.
		return nil
	}
	return nil
}

// EnsureIndexes creates the indexes the catalog queries rely on.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "isbn", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
