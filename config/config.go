package config

import (
	"log"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// broker API credentials, ranking collection defaults, HTTP server settings and the
// Postgres connection used to store ranking snapshots.
//
// Example ENV equivalent:
//
//	KIWOOM_APPKEY=xxxxxxxx
//	KIWOOM_SECRETKEY=yyyyyyyy
//	KIWOOM_HOST=https://api.kiwoom.com
//	RANKING_MARKETS=000,001,101
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=kiwoompulse
type Config struct {
	Kiwoom   KiwoomConfig   // Broker REST API settings
	Ranking  RankingConfig  // Defaults for ranking requests and collection
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
}

// KiwoomConfig holds the credentials and endpoint of the broker REST API.
//
// AppKey and SecretKey are issued by the brokerage for application-level
// authentication and are exchanged for a bearer token on every call.
type KiwoomConfig struct {
	AppKey    string
	SecretKey string
	Host      string
	Timeout   time.Duration
}

// RankingConfig holds the request filters used when the caller does not supply them.
type RankingConfig struct {
	Markets        []string // mrkt_tp codes collected by the collect mode
	Exchange       string   // stex_tp
	IncludeManaged string   // mang_stk_incls
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string
}

// PostgresConfig defines connection details for PostgreSQL.
//
// URL, when set (POSTGRES_URL), is used verbatim and the individual parts are ignored.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// DSN returns the connection string handed to lib/pq.
//
// Behavior:
//   - An explicit URL wins.
//   - Otherwise the URL is assembled with net/url so credentials containing
//     reserved characters (@ : / ? #) are percent-encoded.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:   "/" + p.DBName,
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	if p.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {p.SSLMode}}.Encode()
	}
	return u.String()
}

// AppConfig is the globally accessible configuration instance, populated once via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Missing credentials terminate the process through validateConfig().
func LoadConfig() {
	viper.SetDefault("KIWOOM_HOST", "https://api.kiwoom.com")
	viper.SetDefault("KIWOOM_TIMEOUT", "30s")

	viper.SetDefault("RANKING_MARKETS", "000,001,101")
	viper.SetDefault("RANKING_EXCHANGE", "3")
	viper.SetDefault("RANKING_INCLUDE_MANAGED", "1")

	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "kiwoompulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	AppConfig = Config{
		Kiwoom: KiwoomConfig{
			AppKey:    viper.GetString("KIWOOM_APPKEY"),
			SecretKey: viper.GetString("KIWOOM_SECRETKEY"),
			Host:      strings.TrimRight(viper.GetString("KIWOOM_HOST"), "/"),
			Timeout:   viper.GetDuration("KIWOOM_TIMEOUT"),
		},
		Ranking: RankingConfig{
			Markets:        SplitList(viper.GetString("RANKING_MARKETS")),
			Exchange:       viper.GetString("RANKING_EXCHANGE"),
			IncludeManaged: viper.GetString("RANKING_INCLUDE_MANAGED"),
		},
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			URL:      viper.GetString("POSTGRES_URL"),
		},
	}

	validateConfig()
}

// SplitList turns "000, 001,,101" into ["000" "001" "101"].
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	var missing []string

	if AppConfig.Kiwoom.AppKey == "" {
		missing = append(missing, "KIWOOM_APPKEY")
	}
	if AppConfig.Kiwoom.SecretKey == "" {
		missing = append(missing, "KIWOOM_SECRETKEY")
	}
	if AppConfig.Kiwoom.Host == "" {
		missing = append(missing, "KIWOOM_HOST")
	}
	if len(AppConfig.Ranking.Markets) == 0 {
		missing = append(missing, "RANKING_MARKETS")
	}
	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.URL == "" {
		if AppConfig.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if AppConfig.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if AppConfig.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
