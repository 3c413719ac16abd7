package config

import (
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/AltairaLabs/chatgpt/client"
	"github.com/AltairaLabs/chatgpt/httputil"
	"github.com/AltairaLabs/chatgpt/tokencache"
)

// ClientOptions assembles the client option list described by the
// configuration. The returned options can be extended by the caller
// before constructing the client.
func (c *Config) ClientOptions() ([]client.Option, error) {
	var opts []client.Option

	if c.APIBaseURL != "" {
		opts = append(opts, client.WithAPIBaseURL(c.APIBaseURL))
	}
	if c.BackendBaseURL != "" {
		opts = append(opts, client.WithBackendBaseURL(c.BackendBaseURL))
	}
	if c.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(c.UserAgent))
	}
	if c.Markdown {
		opts = append(opts, client.WithMarkdown())
	}

	if c.Cache.Backend == CacheBackendRedis {
		store, err := c.redisStore()
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithTokenStore(store))
	}

	if c.RequestsPerMinute > 0 {
		limit := rate.Every(time.Minute / time.Duration(c.RequestsPerMinute))
		opts = append(opts, client.WithRateLimiter(rate.NewLimiter(limit, 1)))
	}

	if c.StreamTimeout > 0 {
		opts = append(opts, client.WithHTTPClients(
			httputil.NewHTTPClient(httputil.DefaultAuthTimeout),
			httputil.NewHTTPClient(time.Duration(c.StreamTimeout)),
		))
	}

	return opts, nil
}

func (c *Config) redisStore() (tokencache.Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.Cache.RedisAddr,
		Password: c.Cache.RedisPassword,
		DB:       c.Cache.RedisDB,
	})

	var storeOpts []tokencache.RedisOption
	if c.Cache.RedisPrefix != "" {
		storeOpts = append(storeOpts, tokencache.WithPrefix(c.Cache.RedisPrefix))
	}
	return tokencache.NewRedisStore(rdb, storeOpts...), nil
}
