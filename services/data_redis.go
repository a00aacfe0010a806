package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix  = "casualty:data:"
	DefaultCacheTTL = 60 * time.Second
	redisOpTimeout  = 5 * time.Second
)

type CasualtyService interface {
	GetRaw(ctx context.Context, resource Resource) ([]byte, error)
}

type redisCasualtyService struct {
	redis    *redis.Client
	fetcher  APIFetcher
	ttl      time.Duration
	refreshM map[Resource]*sync.Mutex
}

type cachedPayload struct {
	ETag string          `json:"etag"`
	JSON json.RawMessage `json:"json"`
}

func NewRedisCasualtyService(redis *redis.Client, fetcher APIFetcher, ttl time.Duration) CasualtyService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	locks := make(map[Resource]*sync.Mutex, len(endpoints))
	for r := range endpoints {
		locks[r] = &sync.Mutex{}
	}

	return &redisCasualtyService{
		redis:    redis,
		fetcher:  fetcher,
		ttl:      ttl,
		refreshM: locks,
	}
}

func redisKey(resource Resource) string {
	return redisKeyPrefix + string(resource)
}

func (s *redisCasualtyService) GetRaw(ctx context.Context, resource Resource) ([]byte, error) {
	if !resource.Valid() {
		return nil, &Error{Op: "cache.get", Kind: KindInvalidResource, Resource: resource, Err: ErrUnknownResource}
	}

	rctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	val, err := s.redis.Get(rctx, redisKey(resource)).Bytes()
	cancel()
	if err == nil {
		var cached cachedPayload
		if json.Unmarshal(val, &cached) == nil {
			s.tryRefresh(resource, cached.ETag)
			return cached.JSON, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("redis get failed (key=%s): %v", redisKey(resource), err)
	}

	payload, err := s.fetcher.Fetch(ctx, resource)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("no data returned from fetcher")
	}

	s.saveRawCache(resource, payload.ETag, payload.Body)
	return payload.Body, nil
}

func (s *redisCasualtyService) tryRefresh(resource Resource, etag string) {
	m := s.refreshM[resource]
	if !m.TryLock() {
		return
	}

	go func() {
		defer m.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		payload, notModified, err := s.fetcher.FetchIfChanged(ctx, resource, etag)
		if err != nil {
			log.Printf("cache refresh failed (resource=%s): %v", resource, err)
			return
		}
		if notModified || payload == nil {
			return
		}
		s.saveRawCache(resource, payload.ETag, payload.Body)
	}()
}

func (s *redisCasualtyService) saveRawCache(resource Resource, etag string, raw []byte) {
	payload := cachedPayload{
		ETag: etag,
		JSON: raw,
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal cache failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	key := redisKey(resource)
	if err := s.redis.Set(ctx, key, bytes, s.ttl).Err(); err != nil {
		log.Printf("failed to save redis key=%s: %v", key, err)
	} else {
		log.Printf("redis cache updated (key=%s, etag=%s, ttl=%s)", key, etag, s.ttl)
	}
}
