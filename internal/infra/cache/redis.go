package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	listKeySet = "products:list:keys"
	listTTL    = 5 * time.Minute
)

// 商品一覧レスポンスのキャッシュ。
// キャッシュ不調はエラーで返し、呼び出し側がDBへフォールバックする。
type ProductListCache struct {
	client *redis.Client
}

func NewProductListCache(addr string) (*ProductListCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &ProductListCache{client: client}, nil
}

func (c *ProductListCache) Close() error {
	return c.client.Close()
}

// ヒットしなければ (nil, nil)
func (c *ProductListCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// 書いたキーはセットにも積んでおき、無効化時にまとめて消す
func (c *ProductListCache) Set(ctx context.Context, key string, val []byte) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, val, listTTL)
	pipe.SAdd(ctx, listKeySet, key)
	_, err := pipe.Exec(ctx)
	return err
}

// 商品の作成・更新・削除時に呼ぶ
func (c *ProductListCache) InvalidateAll(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, listKeySet).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}

	return c.client.Del(ctx, listKeySet).Err()
}
