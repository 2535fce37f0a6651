package main

import (
    "context"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "runtime"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"

    cfgpkg "github.com/local/docsmith/internal/config"
    "github.com/local/docsmith/internal/convert"
    "github.com/local/docsmith/internal/converter"
    "github.com/local/docsmith/internal/httpapi"
    logpkg "github.com/local/docsmith/internal/logger"
    "github.com/local/docsmith/internal/metrics"
    "github.com/local/docsmith/internal/ocr"
    "github.com/local/docsmith/internal/session"
    "github.com/local/docsmith/internal/statuscheck"
    "github.com/local/docsmith/internal/storage"
)

func main() {
    _ = godotenv.Load()
    cfg := cfgpkg.FromEnv()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Level: cfg.Logging.Level,
        Pretty: cfg.Logging.Pretty,
        File: cfg.Logging.File,
        MaxSizeMB: cfg.Logging.MaxSizeMB,
        MaxBackups: cfg.Logging.MaxBackups,
        MaxAgeDays: cfg.Logging.MaxAgeDays,
        Compress: cfg.Logging.Compress,
        SendToAxiom: cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey: cfg.Axiom.APIKey,
        AxiomOrgID: cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush: cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()

    metrics.Init()

    // Session store
    var cipher *session.BlobCipher
    if cfg.Session.EncKey != "" {
        cipher = session.NewBlobCipher(cfg.Session.EncKey)
    }
    var sessions session.Store
    var redisPinger statuscheck.RedisPinger
    switch cfg.Session.Backend {
    case "redis":
        rs, err := session.NewRedisStore(cfg.Session.RedisURL, cfg.Session.TTL, cipher)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to init redis session store")
        }
        sessions = rs
        redisPinger = rs
    default:
        ls, err := session.NewLocalStore(cfg.Session.Dir, cfg.Session.TTL, cfg.Session.SweepInterval, cipher)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to init local session store")
        }
        sessions = ls
    }
    defer sessions.Close()

    // Document converter
    docs := converter.NewLibreOffice(cfg.Converter.Timeout, runtime.NumCPU())
    if err := docs.CheckInstallation(); err != nil {
        log.Warn().Err(err).Msg("LibreOffice unavailable, document_to_pdf will fail")
    }

    disp := convert.New(convert.Options{
        Docs:   docs,
        OCR:    ocr.NewTesseract(cfg.OCR.Languages),
        OCRDPI: cfg.OCR.RasterDPI,
    })

    // Result archiving (optional)
    var archiver *storage.Archiver
    if cfg.Storage.ArchiveResults {
        a, err := storage.NewArchiver(context.Background(), cfg.Storage.S3Bucket)
        if err != nil {
            log.Warn().Err(err).Msg("archiver disabled")
        } else {
            archiver = a
        }
    }

    checker := statuscheck.New(statuscheck.Options{
        Redis:          redisPinger,
        S3Bucket:       cfg.Storage.S3Bucket,
        SessionBackend: cfg.Session.Backend,
    })

    api := httpapi.New(httpapi.Options{
        Dispatcher:  disp,
        Sessions:    sessions,
        Checker:     checker,
        Archiver:    archiver,
        MaxUploadMB: cfg.Server.MaxUploadMB,
    })
    mux := http.NewServeMux()
    api.RegisterRoutes(mux)
    mux.Handle("/metrics", metrics.Handler())

    srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: mux}

    go func(){
        log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = srv.Shutdown(ctx)
    fmt.Println("shutdown complete")
}
