package config

import "time"

// RateLimitConfig drives the Redis token bucket on the write routes (likes,
// posts, activity logs, profile updates).
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_*.  Capacity and refill are at least
// one token, and a bucket outlives five refill intervals so an idle client
// does not come back to a full bucket early.
func LoadRateLimitConfig() RateLimitConfig {
	rl := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       max(envInt("RATE_LIMIT_CAPACITY", 30), 1),
		RefillTokens:   max(envInt("RATE_LIMIT_REFILL_TOKENS", 1), 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 2*time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "eco:rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	rl.TTL = max(rl.TTL, 5*rl.RefillInterval)
	return rl
}
