package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Load reads the .env file specified by KEML_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("KEML_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the environment may already be populated.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL is optional. Without it runs are analysed but not persisted.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey guards the /v1 routes when set.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// TrustWeightMin and TrustWeightMax bound the argumentation weight sweep.
func TrustWeightMin() int {
	return intOr("TRUST_WEIGHT_MIN", 2)
}

func TrustWeightMax() int {
	return intOr("TRUST_WEIGHT_MAX", 10)
}

// AuthorTrust is the initial trust of the author's prior knowledge.
// Defaults to 1.0 if not set or not a number.
func AuthorTrust() float64 {
	v, err := strconv.ParseFloat(os.Getenv("AUTHOR_TRUST"), 64)
	if err != nil || math.IsNaN(v) {
		return 1.0
	}
	return v
}

// DistinguishedPartner names the partner singled out by the preset
// trust configurations.
func DistinguishedPartner() string {
	p := os.Getenv("DISTINGUISHED_PARTNER")
	if p == "" {
		return "LLM"
	}
	return p
}

// AnalysisOutputDir is where the CLI writes analyses when no folder is given.
func AnalysisOutputDir() string {
	d := os.Getenv("ANALYSIS_OUTPUT_DIR")
	if d == "" {
		return "analysis"
	}
	return d
}

// MaxUploadBytes caps request bodies on the analysis endpoints.
// Defaults to 10 MiB.
func MaxUploadBytes() int64 {
	n, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_BYTES"), 10, 64)
	if err != nil || n <= 0 {
		return 10 << 20
	}
	return n
}

// PostprocessCommand is run over each finished analysis folder. Empty disables it.
func PostprocessCommand() string {
	return os.Getenv("POSTPROCESS_COMMAND")
}

func intOr(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// NewLogger builds a production zap logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, eris.Wrapf(err, "config: parse log level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}
