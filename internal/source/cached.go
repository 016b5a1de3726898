package source

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/etrheim/energy-load-dashboard/internal/forecast"
)

// CachedSource memoises another source per time bucket. The bucket
// timestamp is part of the cache key, so a new bucket simply misses and
// stale entries age out of the LRU.
type CachedSource struct {
	next   SampleSource
	cache  *lru.Cache
	bucket time.Duration
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewCachedSource(next SampleSource, size int, bucket time.Duration, log logrus.FieldLogger) (*CachedSource, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	if bucket <= 0 {
		bucket = 5 * time.Minute
	}
	return &CachedSource{
		next:   next,
		cache:  cache,
		bucket: bucket,
		log:    log,
		now:    time.Now,
	}, nil
}

// Latest returns the cached sample for the current bucket, falling
// through to the wrapped source on a miss. Errors are never cached.
func (s *CachedSource) Latest(ctx context.Context, hours int) (forecast.Sample, error) {
	key := s.cacheKey(hours)

	if cached, ok := s.cache.Get(key); ok {
		if sample, ok := cached.(forecast.Sample); ok {
			return sample, nil
		}
	}

	sample, err := s.next.Latest(ctx, hours)
	if err != nil {
		return forecast.Sample{}, err
	}

	s.cache.Add(key, sample)
	s.log.WithField("key", key).Debug("forecast cached")
	return sample, nil
}

func (s *CachedSource) cacheKey(hours int) string {
	bucket := s.now().UTC().Truncate(s.bucket)
	return fmt.Sprintf("%s:%d", bucket.Format("200601021504"), hours)
}
