package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageDriver     string        `env:"STORAGE_DRIVER" envDefault:"redis"`
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION" envDefault:"24h"`
	Postgres          Postgres
	Telegram          Telegram
	Redis             Redis
	API               API
	Cache             Cache
	Jobs              Jobs
	GoogleDrive       GoogleDrive
	Game              Game
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"ginvest"`
	Password        string `env:"PG_PASSWORD" envDefault:""`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"migrations"`
}

type Telegram struct {
	Token      string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
}

type Redis struct {
	Host          string `env:"REDIS_HOST" envDefault:"localhost"`
	Port          int    `env:"REDIS_PORT" envDefault:"6379"`
	Password      string `env:"REDIS_PASSWORD" envDefault:""`
	DB            int    `env:"REDIS_DB" envDefault:"0"`
	ChangeChannel string `env:"REDIS_CHANGE_CHANNEL" envDefault:"g-invest:changes"`
}

type API struct {
	Debug     bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout   time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	Gemini    Gemini
	QuotesApi QuotesApi
}

type Gemini struct {
	ApiKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
}

// QuotesApi is optional. With an empty Url the quote job falls back to catalog prices.
type QuotesApi struct {
	Url string `env:"QUOTES_API_URL" envDefault:""`
}

type Cache struct {
	QuotesExpiration time.Duration `env:"CACHE_QUOTES_EXPIRATION" envDefault:"15m"`
}

type Jobs struct {
	RefreshQuotesInterval time.Duration `env:"REFRESH_QUOTES_JOB_INTERVAL" envDefault:"5m"`
	CleanupDriveCrontab   string        `env:"CLEANUP_DRIVE_JOB_CRONTAB" envDefault:"0 0 3 * * *"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

type Game struct {
	StartingCash     float64 `env:"GAME_STARTING_CASH" envDefault:"100000"`
	StartingPoints   int     `env:"GAME_STARTING_POINTS" envDefault:"200"`
	CorrectReasonXP  int     `env:"GAME_CORRECT_REASON_POINTS" envDefault:"50"`
	RiskMin          int     `env:"GAME_RISK_MIN" envDefault:"5"`
	RiskMax          int     `env:"GAME_RISK_MAX" envDefault:"70"`
	MaxShares        int     `env:"GAME_MAX_SHARES" envDefault:"100"`
	DefaultShares    int     `env:"GAME_DEFAULT_SHARES" envDefault:"50"`
	ReadinessScore   int     `env:"GAME_READINESS_SCORE" envDefault:"75"`
	QuizPassPercent  int     `env:"GAME_QUIZ_PASS_PERCENT" envDefault:"60"`
	QuizAnswerPoints int     `env:"GAME_QUIZ_ANSWER_POINTS" envDefault:"10"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
