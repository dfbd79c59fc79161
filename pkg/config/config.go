package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	LLM          LLMConfig
	Recommend    RecommendConfig
	Import       ImportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BUILDFORGE_APP_ENV" required:"true"`
	Port         string `envconfig:"BUILDFORGE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BUILDFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUILDFORGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BUILDFORGE_DB_DSN"`
	Driver string `envconfig:"BUILDFORGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BUILDFORGE_DB_HOST"`
	LegacyPort     int    `envconfig:"BUILDFORGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BUILDFORGE_DB_USER"`
	LegacyPassword string `envconfig:"BUILDFORGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BUILDFORGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BUILDFORGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUILDFORGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUILDFORGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUILDFORGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUILDFORGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BUILDFORGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BUILDFORGE_REDIS_ADDR"`
	Password     string        `envconfig:"BUILDFORGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUILDFORGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUILDFORGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUILDFORGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUILDFORGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUILDFORGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUILDFORGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BUILDFORGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BUILDFORGE_JWT_ISSUER" default:"buildforge"`
	ExpirationMinutes int    `envconfig:"BUILDFORGE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BUILDFORGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BUILDFORGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BUILDFORGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BUILDFORGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BUILDFORGE_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	AuthWindow      time.Duration `envconfig:"BUILDFORGE_RATE_LIMIT_AUTH_WINDOW" default:"1m"`
	AuthIPLimit     int           `envconfig:"BUILDFORGE_RATE_LIMIT_AUTH_IP_LIMIT" default:"20"`
	RecommendWindow time.Duration `envconfig:"BUILDFORGE_RATE_LIMIT_RECOMMEND_WINDOW" default:"1m"`
	RecommendLimit  int           `envconfig:"BUILDFORGE_RATE_LIMIT_RECOMMEND_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BUILDFORGE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BUILDFORGE_AUTO_MIGRATE" default:"false"`
}

type LLMConfig struct {
	BaseURL     string        `envconfig:"BUILDFORGE_LLM_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey      string        `envconfig:"BUILDFORGE_LLM_API_KEY"`
	Model       string        `envconfig:"BUILDFORGE_LLM_MODEL" default:"gpt-4o-mini"`
	Temperature float64       `envconfig:"BUILDFORGE_LLM_TEMPERATURE" default:"0.3"`
	MaxTokens   int           `envconfig:"BUILDFORGE_LLM_MAX_TOKENS" default:"1200"`
	Timeout     time.Duration `envconfig:"BUILDFORGE_LLM_TIMEOUT" default:"45s"`
}

type RecommendConfig struct {
	AllocatorAttempts int           `envconfig:"BUILDFORGE_RECOMMEND_ALLOCATOR_ATTEMPTS" default:"6"`
	ComposerAttempts  int           `envconfig:"BUILDFORGE_RECOMMEND_COMPOSER_ATTEMPTS" default:"3"`
	MinCandidates     int           `envconfig:"BUILDFORGE_RECOMMEND_MIN_CANDIDATES" default:"8"`
	BackoffBase       time.Duration `envconfig:"BUILDFORGE_RECOMMEND_BACKOFF_BASE" default:"500ms"`
	ConversationTTL   time.Duration `envconfig:"BUILDFORGE_RECOMMEND_CONVERSATION_TTL" default:"30m"`
	HistoryLimit      int           `envconfig:"BUILDFORGE_RECOMMEND_HISTORY_LIMIT" default:"10"`
}

type ImportConfig struct {
	DataDir   string `envconfig:"BUILDFORGE_IMPORT_DATA_DIR" default:"data/pc_data"`
	INRToEUR  string `envconfig:"BUILDFORGE_IMPORT_INR_TO_EUR" default:"0.011"`
	BatchSize int    `envconfig:"BUILDFORGE_IMPORT_BATCH_SIZE" default:"200"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
