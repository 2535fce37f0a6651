package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
    Level      string
    Pretty     bool
    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
    Send          bool
    APIKey        string
    OrgID         string
    Dataset       string
    FlushInterval time.Duration
}

// ServerConfig defines the HTTP listener behavior.
type ServerConfig struct {
    Port        string
    MaxUploadMB int
}

// SessionConfig defines the form-fill session store.
type SessionConfig struct {
    Backend       string // "local" | "redis"
    Dir           string
    RedisURL      string
    TTL           time.Duration
    SweepInterval time.Duration
    EncKey        string // optional at-rest encryption passphrase
}

// StorageConfig defines optional S3 archiving of produced artifacts.
type StorageConfig struct {
    ArchiveResults bool
    S3Bucket       string
}

// OCRConfig defines Tesseract behavior.
type OCRConfig struct {
    Languages []string
    RasterDPI int
}

// ConverterConfig defines the LibreOffice document converter.
type ConverterConfig struct {
    Timeout time.Duration
}

// Config is the top-level configuration.
type Config struct {
    Server    ServerConfig
    Logging   LoggingConfig
    Axiom     AxiomConfig
    Session   SessionConfig
    Storage   StorageConfig
    OCR       OCRConfig
    Converter ConverterConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
    cfg := Config{}

    cfg.Server = ServerConfig{
        Port:        getEnv("PORT", "8080"),
        MaxUploadMB: parseInt(getEnv("MAX_UPLOAD_MB", "64"), 64),
    }

    cfg.Logging = LoggingConfig{
        Level:      getEnv("LOG_LEVEL", "info"),
        Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
        File:       getEnv("LOG_FILE", "logs/docsmith.log"),
        MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
        MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
        MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
        Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
    }

    baseDataset := getEnv("AXIOM_DATASET", "dev")
    cfg.Axiom = AxiomConfig{
        Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
        APIKey:        getEnv("AXIOM_API_KEY", ""),
        OrgID:         getEnv("AXIOM_ORG_ID", ""),
        Dataset:       baseDataset + "_docsmith",
        FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
    }

    cfg.Session = SessionConfig{
        Backend:       strings.ToLower(getEnv("SESSION_BACKEND", "local")),
        Dir:           getEnv("SESSION_DIR", "instance/formfill"),
        RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
        TTL:           parseDuration(getEnv("SESSION_TTL", "24h"), 24*time.Hour),
        SweepInterval: parseDuration(getEnv("SESSION_SWEEP_INTERVAL", "15m"), 15*time.Minute),
        EncKey:        getEnv("SESSION_ENC_KEY", ""),
    }

    cfg.Storage = StorageConfig{
        ArchiveResults: parseBool(getEnv("ARCHIVE_RESULTS", "0")),
        S3Bucket:       getEnv("AWS_S3_BUCKET", ""),
    }

    cfg.OCR = OCRConfig{
        Languages: splitList(getEnv("OCR_LANGUAGES", "eng")),
        RasterDPI: parseInt(getEnv("OCR_DPI", "300"), 300),
    }

    cfg.Converter = ConverterConfig{
        Timeout: parseDuration(getEnv("CONVERT_TIMEOUT", "3m"), 3*time.Minute),
    }

    return cfg
}

// Helpers
func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseInt(s string, def int) int {
    if s == "" { return def }
    if n, err := strconv.Atoi(s); err == nil { return n }
    return def
}

func parseBool(s string) bool {
    v := strings.ToLower(strings.TrimSpace(s))
    return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
    if s == "" { return def }
    if d, err := time.ParseDuration(s); err == nil { return d }
    return def
}

func splitList(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        if t := strings.TrimSpace(p); t != "" {
            out = append(out, t)
        }
    }
    return out
}

func devDefaultPretty() string {
    env := strings.ToLower(os.Getenv("ENVIRONMENT"))
    if env == "dev" || env == "development" || env == "local" { return "true" }
    return "false"
}
