package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clubhub/clubhub/internal/domain"
	"github.com/google/uuid"
)

const (
	clubCachePrefix = "club:"
	clubCacheTTL    = 5 * time.Minute
)

// ClubCache is a read-through cache for club documents. The membership
// service invalidates an entry after every successful mutation, so a cached
// club is at most TTL-stale for readers and never used for writes.
type ClubCache struct {
	client *Client
}

// NewClubCache creates a new club cache
func NewClubCache(client *Client) *ClubCache {
	return &ClubCache{client: client}
}

// Get retrieves a cached club. A miss returns (nil, nil).
func (c *ClubCache) Get(ctx context.Context, clubID uuid.UUID) (*domain.Club, error) {
	key := fmt.Sprintf("%s%s", clubCachePrefix, clubID.String())

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var club domain.Club
	if err := json.Unmarshal(data, &club); err != nil {
		return nil, fmt.Errorf("failed to unmarshal club: %w", err)
	}

	return &club, nil
}

// Set caches a club document.
func (c *ClubCache) Set(ctx context.Context, club *domain.Club) error {
	key := fmt.Sprintf("%s%s", clubCachePrefix, club.ID.String())

	data, err := json.Marshal(club)
	if err != nil {
		return fmt.Errorf("failed to marshal club: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, clubCacheTTL).Err()
}

// Invalidate removes a cached club.
func (c *ClubCache) Invalidate(ctx context.Context, clubID uuid.UUID) error {
	key := fmt.Sprintf("%s%s", clubCachePrefix, clubID.String())
	return c.client.rdb.Del(ctx, key).Err()
}
