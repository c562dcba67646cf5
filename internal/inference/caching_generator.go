package inference

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

const (
	cacheHitLogMessageConstant = "generation served from cache"
	inputLengthFieldConstant   = "input_length"
)

// CachingGenerator memoizes successful generations by input text for a fixed TTL.
type CachingGenerator struct {
	delegate Generator
	cache    *ttlcache.Cache[string, string]
	logger   *zap.Logger
}

// NewCachingGenerator wraps delegate. A non-positive ttl disables caching; a
// non-positive capacity leaves the cache unbounded.
func NewCachingGenerator(delegate Generator, ttl time.Duration, capacity uint64, logger *zap.Logger) *CachingGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	cachingGenerator := &CachingGenerator{delegate: delegate, logger: logger}
	if ttl <= 0 {
		return cachingGenerator
	}

	cacheOptions := []ttlcache.Option[string, string]{
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithDisableTouchOnHit[string, string](),
	}
	if capacity > 0 {
		cacheOptions = append(cacheOptions, ttlcache.WithCapacity[string, string](capacity))
	}
	cachingGenerator.cache = ttlcache.New[string, string](cacheOptions...)
	go cachingGenerator.cache.Start()
	return cachingGenerator
}

// Generate returns a cached output when present and otherwise asks the delegate. Failures are not cached.
func (generator *CachingGenerator) Generate(executionContext context.Context, text string) (string, error) {
	if generator.cache == nil {
		return generator.delegate.Generate(executionContext, text)
	}
	if cachedItem := generator.cache.Get(text); cachedItem != nil {
		generator.logger.Debug(cacheHitLogMessageConstant, zap.Int(inputLengthFieldConstant, len(text)))
		return cachedItem.Value(), nil
	}

	generatedText, generationError := generator.delegate.Generate(executionContext, text)
	if generationError != nil {
		return "", generationError
	}
	generator.cache.Set(text, generatedText, ttlcache.DefaultTTL)
	return generatedText, nil
}

// Close stops the cache expiration loop.
func (generator *CachingGenerator) Close() {
	if generator.cache != nil {
		generator.cache.Stop()
	}
}
