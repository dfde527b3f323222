package config

import (
	"strings"
	"time"
)

func DatabaseDriver() string {
	_ = Load()

	driver := strings.ToLower(get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "sqlite", "postgres", "mysql", "sqlserver":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

func DatabaseDSN() string {
	_ = Load()

	if override := get("DATABASE_DSN", ""); override != "" {
		return override
	}

	switch DatabaseDriver() {
	case "postgres":
		return defaultPostgresDSN
	case "mysql":
		return defaultMySQLDSN
	case "sqlserver":
		return defaultSQLServerDSN
	default:
		return defaultSQLiteDSN
	}
}

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }
func JWTSecret() string     { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }
func AppPort() string       { _ = Load(); return get("APP_PORT", defaultAppPort) }
func AppEnv() string        { _ = Load(); return get("APP_ENV", defaultAppEnv) }

// GRPCPort is empty unless the health server should be started.
func GRPCPort() string { _ = Load(); return get("GRPC_PORT", "") }

// AppKey seeds the cookie sealing key; falls back to the JWT secret.
func AppKey() string {
	_ = Load()
	return get("APP_KEY", JWTSecret())
}

func IsProduction() bool { return AppEnv() == "production" }

// ── Sessions ─────────────────────────────────────────────────────────────────

func SessionTTL() time.Duration { return Duration("SESSION_TTL", 24*time.Hour) }
func SessionSecure() bool       { return Bool("SESSION_SECURE", IsProduction()) }

// ── Storage ──────────────────────────────────────────────────────────────────

// StorageDisk is "local" or "s3". Chosen once per deployment.
func StorageDisk() string {
	_ = Load()
	switch d := strings.ToLower(get("STORAGE_DISK", "local")); d {
	case "s3":
		return d
	default:
		return "local"
	}
}

func StorageLocalRoot() string { _ = Load(); return get("STORAGE_LOCAL_ROOT", "public/uploads") }
func StorageURL() string       { _ = Load(); return get("STORAGE_URL", "/uploads") }

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "ap-southeast-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

func UploadMaxBytes() int64 {
	n := Int("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes)
	if n <= 0 {
		return DefaultUploadMaxBytes
	}
	return int64(n)
}

// ── Contact defaults ─────────────────────────────────────────────────────────

func ContactPhone() string    { _ = Load(); return get("CONTACT_PHONE", "0901234567") }
func ContactZalo() string     { _ = Load(); return get("CONTACT_ZALO", "0901234567") }
func ContactFacebook() string { _ = Load(); return get("CONTACT_FACEBOOK", "https://facebook.com") }

// ── HTTP ─────────────────────────────────────────────────────────────────────

// CORSOrigins returns the allowed origins; "*" when unset.
func CORSOrigins() []string {
	raw := Get("CORS_ORIGINS", "*")
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func RateLimitPerMinute() int { return Int("RATE_LIMIT", 200) }
func BatchWorkers() int       { return Int("BATCH_WORKERS", 8) }

// ── Logging ──────────────────────────────────────────────────────────────────

func LogMongoURI() string { _ = Load(); return get("LOG_MONGO_URI", "") }
func LogMongoDB() string  { _ = Load(); return get("LOG_MONGO_DB", "storefront") }

// ── Seed ─────────────────────────────────────────────────────────────────────

func AdminEmail() string    { _ = Load(); return get("ADMIN_EMAIL", "admin@example.com") }
func AdminPassword() string { _ = Load(); return get("ADMIN_PASSWORD", "admin123") }
