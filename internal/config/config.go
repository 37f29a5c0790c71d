package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	YouTubeAPIKey  string
	YouTubeBaseURL string // empty uses the public Data API endpoint

	WebSubHubURL      string
	WebSubCallbackURL string
	WebSubSecret      string // optional; enables X-Hub-Signature checks
	WebSubRetryDelay  time.Duration
	WebSubRequestGap  time.Duration

	LiveCacheTTL           time.Duration
	LiveCacheRetentionDays int // ended entries older than this are dropped during reconciliation
	BucketRetentionDays    int // day-bucket documents older than this are purged by maintenance

	S3ArchiveBucket string // optional; archive purged buckets before deletion
	SNSRegion       string
	SNSTopicARN     string // optional; maintenance and subscription reports

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	AdminAPIKeyHash   string // bcrypt hash of the static admin key

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each collection.
type DynamoTables struct {
	NotifyQueue  string
	LiveCache    string
	ChannelIndex string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			NotifyQueue:  getEnv("DYNAMO_TABLE_NOTIFY_QUEUE", "live_redirect_notify_queue"),
			LiveCache:    getEnv("DYNAMO_TABLE_LIVE_CACHE", "live_redirect_cache"),
			ChannelIndex: getEnv("DYNAMO_TABLE_CHANNEL_INDEX", "channel_index"),
		},
		YouTubeAPIKey:          getEnv("YOUTUBE_API_KEY", ""),
		YouTubeBaseURL:         getEnv("YOUTUBE_BASE_URL", ""),
		WebSubHubURL:           getEnv("WEBSUB_HUB_URL", "https://pubsubhubbub.appspot.com/subscribe"),
		WebSubCallbackURL:      getEnv("WEBSUB_CALLBACK_URL", ""),
		WebSubSecret:           getEnv("WEBSUB_SECRET", ""),
		WebSubRetryDelay:       getEnvDuration("WEBSUB_RETRY_DELAY", 60*time.Second),
		WebSubRequestGap:       getEnvDuration("WEBSUB_REQUEST_GAP", 500*time.Millisecond),
		LiveCacheTTL:           getEnvDuration("LIVE_CACHE_TTL", 5*time.Minute),
		LiveCacheRetentionDays: getEnvInt("LIVE_CACHE_RETENTION_DAYS", 3),
		BucketRetentionDays:    getEnvInt("BUCKET_RETENTION_DAYS", 7),
		S3ArchiveBucket:        getEnv("S3_ARCHIVE_BUCKET", ""),
		SNSRegion:              getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN:            getEnv("SNS_TOPIC_ARN", ""),
		JWTPrivateKeyPath:      getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:       getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:              getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		AdminAPIKeyHash:        getEnv("ADMIN_API_KEY_HASH", ""),
		AllowedOrigins:         strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "5m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
