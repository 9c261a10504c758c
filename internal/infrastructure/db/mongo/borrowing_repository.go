package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/library-system/internal/core/domain"
)

const collectionBorrowings = "borrowings"

// BorrowingRepository persists borrowings in MongoDB. Borrowing ids are
// service-generated UUID strings, so the domain struct maps straight onto
// the document.
type BorrowingRepository struct {
	col *mongo.Collection
}

func NewBorrowingRepository(db *mongo.Database) *BorrowingRepository {
	return &BorrowingRepository{col: db.Collection(collectionBorrowings)}
}

// Create inserts a new borrowing document.
func (r *BorrowingRepository) Create(ctx context.Context, b *domain.Borrowing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert borrowing: %w", err)
	}
	return nil
}

// FindByID retrieves one borrowing, scoped to its owner so principals can
// never address each other's records.
func (r *BorrowingRepository) FindByID(ctx context.Context, id, user string) (*domain.Borrowing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Borrowing
	err := r.col.FindOne(ctx, bson.M{"_id": id, "user": user}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBorrowingNotFound
		}
		return nil, fmt.Errorf("find borrowing: %w", err)
	}
	return &b, nil
}

func (r *BorrowingRepository) FindByUser(ctx context.Context, user string) ([]*domain.Borrowing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user": user})
	if err != nil {
		return nil, fmt.Errorf("list borrowings: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Borrowing
	for cur.Next(ctx) {
		var b domain.Borrowing
		if err := cur.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode borrowing: %w", err)
		}
		out = append(out, &b)
	}
	return out, cur.Err()
}

func (r *BorrowingRepository) UpdateFine(ctx context.Context, id string, fine int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"fineAmount": fine}})
	if err != nil {
		return fmt.Errorf("update fine: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBorrowingNotFound
	}
	return nil
}

// MarkReturned flips an active borrowing to returned. The status guard makes
// the flip happen at most once: a repeat call reports ErrAlreadyReturned.
func (r *BorrowingRepository) MarkReturned(ctx context.Context, id, user, returnDate string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "user": user, "status": domain.StatusActive}
	update := bson.M{"$set": bson.M{
		"status":     domain.StatusReturned,
		"returnDate": returnDate,
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mark returned: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, findErr := r.FindByID(ctx, id, user); findErr != nil {
			return findErr
		}
		return domain.ErrAlreadyReturned
	}
	return nil
}

// ActiveUsers returns the distinct principals holding at least one active
// borrowing. The accrual runner iterates this set.
func (r *BorrowingRepository) ActiveUsers(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "user", bson.M{"status": domain.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("distinct active users: %w", err)
	}

	users := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			users = append(users, s)
		}
	}
	return users, nil
}

// EnsureIndexes creates the indexes the borrowing queries rely on.
func (r *BorrowingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
