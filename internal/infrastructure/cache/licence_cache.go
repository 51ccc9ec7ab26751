package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Licencia-api/internal/application/ports"
)

const (
	keyPrefix    = "licence:"
	genKeyPrefix = "licence:gen:"
)

var _ ports.LicenceCache = (*LicenceCache)(nil)

// LicenceCache guarda en Redis el vencimiento por public_id para el endpoint público.
type LicenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLicenceCache construye la caché. ttl <= 0 usa 60 segundos.
func NewLicenceCache(client *redis.Client, ttl time.Duration) *LicenceCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LicenceCache{client: client, ttl: ttl}
}

// NewClient abre el cliente a partir de REDIS_URL y verifica la conexión.
func NewClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Get devuelve el snapshot (nil si la clave no está) y la generación vigente.
// Ambas se leen en un solo MGET.
func (c *LicenceCache) Get(ctx context.Context, publicID int) (*ports.LicenceSnapshot, int64, error) {
	vals, err := c.client.MGet(ctx, key(publicID), genKey(publicID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("cache get %s: %w", key(publicID), err)
	}
	gen, err := parseGen(vals[1])
	if err != nil {
		return nil, 0, fmt.Errorf("cache gen %s: %w", genKey(publicID), err)
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var snap ports.LicenceSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, 0, fmt.Errorf("cache decode %s: %w", key(publicID), err)
	}
	return &snap, gen, nil
}

// Set guarda el snapshot con el TTL configurado, solo si la generación sigue siendo gen.
// WATCH sobre la clave de generación aborta el MULTI si Invalidate corre en el medio.
func (c *LicenceCache) Set(ctx context.Context, publicID int, gen int64, snap ports.LicenceSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	gk := genKey(publicID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		curGen, err := parseGen(nilIfEmpty(cur))
		if err != nil {
			return err
		}
		if curGen != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(publicID), data, c.ttl)
			return nil
		})
		return err
	}, gk)
	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key(publicID), err)
	}
	return nil
}

// Invalidate borra la entrada y avanza la generación; la próxima verificación va a la DB.
func (c *LicenceCache) Invalidate(ctx context.Context, publicID int) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(publicID))
		pipe.Del(ctx, key(publicID))
		return nil
	})
	return err
}

var errStaleGeneration = errors.New("generación de caché desactualizada")

func key(publicID int) string {
	return fmt.Sprintf("%s%d", keyPrefix, publicID)
}

func genKey(publicID int) string {
	return fmt.Sprintf("%s%d", genKeyPrefix, publicID)
}

func parseGen(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("tipo inesperado %T", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
