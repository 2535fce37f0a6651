package converter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LibreOffice converts office documents to PDF by spawning a one-shot
// headless soffice process per request. Each run gets its own user profile
// directory so concurrent conversions do not fight over the profile lock.
type LibreOffice struct {
	timeout    time.Duration
	maxWorkers int
	semaphore  chan struct{}
}

func NewLibreOffice(timeout time.Duration, maxWorkers int) *LibreOffice {
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	if maxWorkers <= 0 {
		maxWorkers = 2
	}
	return &LibreOffice{
		timeout:    timeout,
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
	}
}

// CheckInstallation verifies soffice is reachable on PATH.
func (l *LibreOffice) CheckInstallation() error {
	out, err := exec.Command("soffice", "--version").Output()
	if err != nil {
		return fmt.Errorf("LibreOffice not found in PATH: %w", err)
	}
	log.Info().Str("version", strings.TrimSpace(string(out))).Msg("LibreOffice found")
	return nil
}

// ConvertToPDF converts the document at inputPath and returns the path of
// the produced PDF inside outDir.
func (l *LibreOffice) ConvertToPDF(ctx context.Context, inputPath, outDir string) (string, error) {
	select {
	case l.semaphore <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.semaphore }()

	if err := validateInput(inputPath); err != nil {
		return "", fmt.Errorf("input validation failed: %w", err)
	}

	profileDir := filepath.Join(os.TempDir(), fmt.Sprintf("libreoffice_profile_%s", uuid.New().String()))
	if err := os.MkdirAll(profileDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create profile directory: %w", err)
	}
	defer os.RemoveAll(profileDir)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cmd := exec.CommandContext(
		runCtx,
		"soffice",
		fmt.Sprintf("-env:UserInstallation=file://%s", profileDir),
		"--headless",
		"--nologo",
		"--nolockcheck",
		"--convert-to", "pdf",
		"--outdir", outDir,
		inputPath,
	)
	log.Debug().Str("cmd", strings.Join(cmd.Args, " ")).Msg("LibreOffice command")

	start := time.Now()
	out, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() != nil {
			return "", fmt.Errorf("conversion timeout after %v", l.timeout)
		}
		return "", fmt.Errorf("conversion failed: %v: %s", err, strings.TrimSpace(string(out)))
	}

	// LibreOffice names the output after the input file.
	base := filepath.Base(inputPath)
	outPath := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("output file not created: %w", err)
	}

	log.Info().Str("output", outPath).Dur("duration", time.Since(start)).Msg("conversion successful")
	return outPath, nil
}

func validateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file")
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file not readable: %w", err)
	}
	f.Close()
	return nil
}
