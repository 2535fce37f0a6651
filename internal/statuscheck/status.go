package statuscheck

import (
    "context"
    "errors"
    "os/exec"
    "time"

    awscfg "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/service/s3"
    "github.com/otiai10/gosseract/v2"
)

// RedisPinger models the minimal Redis capability we need for status checks.
type RedisPinger interface {
    Ping(ctx context.Context) error
}

// Checker aggregates readiness checks for the service's external dependencies.
type Checker struct {
    redis          RedisPinger
    s3Bucket       string
    sessionBackend string
}

// Options configures the Checker. Redis may be nil when sessions run on the
// local filesystem backend.
type Options struct {
    Redis          RedisPinger
    S3Bucket       string
    SessionBackend string
}

// Status represents the readiness of a subsystem.
type Status struct {
    OK      bool   `json:"ok"`
    Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
    Sessions    Status `json:"sessions"`
    S3          Status `json:"s3"`
    LibreOffice Status `json:"libreoffice"`
    Tesseract   Status `json:"tesseract"`
    MuPDF       Status `json:"mupdf"`
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
    return &Checker{
        redis:          opts.Redis,
        s3Bucket:       opts.S3Bucket,
        sessionBackend: opts.SessionBackend,
    }
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
    return Summary{
        Sessions:    c.checkSessions(ctx),
        S3:          c.checkS3(ctx),
        LibreOffice: c.checkLibreOffice(),
        Tesseract:   c.checkTesseract(),
        MuPDF:       c.checkMuPDF(),
    }
}

func (c *Checker) checkSessions(ctx context.Context) Status {
    if c.redis == nil {
        return Status{OK: true, Message: "Local backend"}
    }
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := c.redis.Ping(ctx); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Redis connected"}
}

func (c *Checker) checkS3(ctx context.Context) Status {
    if c.s3Bucket == "" {
        return Status{OK: false, Message: "Bucket not configured"}
    }
    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    cfg, err := awscfg.LoadDefaultConfig(ctx)
    if err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    cli := s3.NewFromConfig(cfg)
    _, err = cli.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &c.s3Bucket})
    if err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkLibreOffice() Status {
    if _, err := exec.LookPath("soffice"); err != nil {
        return Status{OK: false, Message: "Binary not found"}
    }
    return Status{OK: true, Message: "Available"}
}

func (c *Checker) checkTesseract() Status {
    if v := gosseract.Version(); v != "" {
        return Status{OK: true, Message: "v" + v}
    }
    return Status{OK: false, Message: "Library not available"}
}

func (c *Checker) checkMuPDF() Status {
    // MuPDF is linked in, there is nothing external to probe.
    return Status{OK: true, Message: "Embedded"}
}

func trimError(err error) string {
    if err == nil {
        return ""
    }
    var netErr interface{ Timeout() bool }
    if errors.As(err, &netErr) && netErr.Timeout() {
        return "timeout"
    }
    msg := err.Error()
    if len(msg) > 120 {
        return msg[:120]
    }
    return msg
}
