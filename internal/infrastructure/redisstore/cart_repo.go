package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// CartRepository keeps session carts in redis so they survive service
// restarts. Carts expire after TTL of inactivity; an expired cart is
// indistinguishable from an empty one.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(addr, password string, db int, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (r *CartRepository) GetCart(sessionID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	raw, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) SaveCart(cart *domain.Cart) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cart.UpdatedAt = time.Now()
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKeyPrefix+cart.SessionID, raw, r.ttl).Err()
}

func (r *CartRepository) DeleteCart(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return r.client.Del(ctx, cartKeyPrefix+sessionID).Err()
}
