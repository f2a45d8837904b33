package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort       = "7000"
	defaultAppEnv        = "local"
	defaultDBHost        = "cluster0.z1t2q.mongodb.net"
	defaultDBName        = "Resell-Bd"
	defaultStoreDriver   = "mongo"
	defaultRedisAddr     = "localhost:6379"
	defaultCurrency      = "bdt"
	defaultCacheTTL      = "60"
	defaultConnectTries  = "3"
	defaultMaxBodyBytes  = "4194304"
	defaultCORSOrigins   = "*"
	defaultShutdownGrace = "10"
)

// Keys read from the process environment when set; they override files.
var envKeys = []string{
	"APP_ENV", "APP_PORT",
	"MONGO_URI", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_NAME", "DB_CONNECT_RETRIES",
	"STORE_DRIVER",
	"STRIPE_SECRET_KEY", "PAYMENT_CURRENCY",
	"REDIS_ADDR", "REDIS_PASSWORD", "CACHE_TTL_SECONDS",
	"LOG_TO_MONGO", "MAX_BODY_BYTES", "CORS_ORIGINS", "SHUTDOWN_GRACE_SECONDS",
}

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json, .env and the process environment over the
// defaults. It runs once per process; later calls return the first result.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":                defaultAppEnv,
		"APP_PORT":               defaultAppPort,
		"DB_HOST":                defaultDBHost,
		"DB_NAME":                defaultDBName,
		"DB_CONNECT_RETRIES":     defaultConnectTries,
		"STORE_DRIVER":           defaultStoreDriver,
		"PAYMENT_CURRENCY":       defaultCurrency,
		"REDIS_ADDR":             defaultRedisAddr,
		"CACHE_TTL_SECONDS":      defaultCacheTTL,
		"LOG_TO_MONGO":           "false",
		"MAX_BODY_BYTES":         defaultMaxBodyBytes,
		"CORS_ORIGINS":           defaultCORSOrigins,
		"SHUTDOWN_GRACE_SECONDS": defaultShutdownGrace,
	}
}

func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }
func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

// ── Store ────────────────────────────────────────────────────────────────────

// StoreDriver returns "mongo" or "memory". Unknown values fall back to mongo.
func StoreDriver() string {
	_ = Load()
	switch d := strings.ToLower(get("STORE_DRIVER", defaultStoreDriver)); d {
	case "mongo", "memory":
		return d
	default:
		return defaultStoreDriver
	}
}

// MongoURI returns MONGO_URI when set, otherwise an Atlas SRV URI assembled
// from DB_USER, DB_PASSWORD and DB_HOST.
func MongoURI() string {
	_ = Load()
	if uri := get("MONGO_URI", ""); uri != "" {
		return uri
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(get("DB_USER", "")),
		url.QueryEscape(get("DB_PASSWORD", "")),
		get("DB_HOST", defaultDBHost),
	)
}

func DatabaseName() string { _ = Load(); return get("DB_NAME", defaultDBName) }

func ConnectRetries() int {
	_ = Load()
	return positiveInt("DB_CONNECT_RETRIES", defaultConnectTries)
}

// ── Payment ──────────────────────────────────────────────────────────────────

func StripeSecretKey() string { _ = Load(); return get("STRIPE_SECRET_KEY", "") }

func PaymentCurrency() string {
	_ = Load()
	return strings.ToLower(get("PAYMENT_CURRENCY", defaultCurrency))
}

// ── Cache ────────────────────────────────────────────────────────────────────

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

func CacheTTL() time.Duration {
	_ = Load()
	return time.Duration(positiveInt("CACHE_TTL_SECONDS", defaultCacheTTL)) * time.Second
}

// ── HTTP ─────────────────────────────────────────────────────────────────────

func LogToMongo() bool {
	_ = Load()
	on, _ := strconv.ParseBool(get("LOG_TO_MONGO", "false"))
	return on
}

func MaxBodyBytes() int64 {
	_ = Load()
	return int64(positiveInt("MAX_BODY_BYTES", defaultMaxBodyBytes))
}

func CORSOrigins() []string {
	_ = Load()
	var out []string
	for _, o := range strings.Split(get("CORS_ORIGINS", defaultCORSOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func ShutdownGrace() time.Duration {
	_ = Load()
	return time.Duration(positiveInt("SHUTDOWN_GRACE_SECONDS", defaultShutdownGrace)) * time.Second
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

func positiveInt(key, fallback string) int {
	n, err := strconv.Atoi(get(key, fallback))
	if err != nil || n <= 0 {
		n, _ = strconv.Atoi(fallback)
	}
	return n
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a key for the rest of the process. Intended for tests and
// CLI flags.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}
