package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Nearby-station result cache
	ResultTTLSeconds int
	ResultLRUSize    int
}

const (
	defaultResultTTLSeconds = 300
	defaultResultLRUSize    = 1000
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		ResultTTLSeconds: getEnvInt("CACHE_RESULT_TTL_SECONDS", defaultResultTTLSeconds),
		ResultLRUSize:    getEnvInt("CACHE_RESULT_LRU_SIZE", defaultResultLRUSize),
	}

	log.Debug().
		Int("ResultTTLSeconds", config.ResultTTLSeconds).
		Int("ResultLRUSize", config.ResultLRUSize).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetResultTTL() time.Duration {
	return time.Duration(c.ResultTTLSeconds) * time.Second
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}
