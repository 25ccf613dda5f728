package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain/model"
)

// セッションTTL＝カートの寿命。アクセスごとに延長する。
const cartTTL = 30 * 24 * time.Hour

const cartKeyPrefix = "cart:"

// Connect はREDIS_URLからクライアントを作り、Pingで疎通確認する。
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// セッション単位のカートをRedisにJSONで保存するCartStore実装。
type RedisCartStore struct {
	client *redis.Client
}

// DI
func NewRedisCartStore(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{client: client}
}

// Get はキーが無ければ空のカートを返す（初回アクセスで作られる扱い）。
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (model.Cart, error) {
	raw, err := s.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.NewCart(), nil
	}
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		// 壊れた値は空カート扱いで作り直す
		return model.NewCart(), nil
	}
	if cart == nil {
		cart = model.NewCart()
	}
	return cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, sessionID string, cart model.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKeyPrefix+sessionID, raw, cartTTL).Err()
}
