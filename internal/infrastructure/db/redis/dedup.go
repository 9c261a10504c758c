package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const borrowDedupTTL = 24 * time.Hour

// BorrowDedup provides idempotency checks for borrow submissions backed by
// Redis. Key format: borrow:<user>:<idempotency_key>
type BorrowDedup struct {
	client *redis.Client
}

// NewBorrowDedup creates a BorrowDedup wrapping the given Redis client.
func NewBorrowDedup(client *redis.Client) *BorrowDedup {
	return &BorrowDedup{client: client}
}

// IsDuplicate reports whether this borrow submission has already been
// processed.
func (d *BorrowDedup) IsDuplicate(ctx context.Context, user, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(user, key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this borrow submission has been processed. The key
// expires after borrowDedupTTL.
func (d *BorrowDedup) Mark(ctx context.Context, user, key string) error {
	return d.client.Set(ctx, d.key(user, key), "1", borrowDedupTTL).Err()
}

func (d *BorrowDedup) key(user, key string) string {
	return fmt.Sprintf("borrow:%s:%s", user, key)
}
