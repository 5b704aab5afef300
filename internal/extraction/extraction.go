// Package extraction converts stored source documents into plain text.
// Text formats are read directly; PDFs are written to a temporary file
// and converted by pdftotext.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/steward/pkg/storage"
)

// Source identifies a stored document to extract.
type Source struct {
	StorageKey  string
	ContentType string
	Filename    string
}

// Blobs is the subset of storage.System used for extraction.
type Blobs interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args and returns stdout. Stderr is included in the error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Extractor converts stored documents to text.
type Extractor struct {
	blobs  Blobs
	runner Runner
	cfg    Config
	logger *slog.Logger
}

// New creates an Extractor. A nil runner uses ExecRunner.
func New(cfg *Config, blobs Blobs, runner Runner, logger *slog.Logger) *Extractor {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Extractor{
		blobs:  blobs,
		runner: runner,
		cfg:    *cfg,
		logger: logger.With("system", "extraction"),
	}
}

// Extract returns the plain text of src.
// Returns ErrNotFound when the blob is missing and ErrExtractFailed when
// the content cannot be converted.
func (e *Extractor) Extract(ctx context.Context, src Source) (string, error) {
	kind := detect(src)
	if kind == kindUnknown {
		return "", fmt.Errorf("%w: %w: %s", ErrExtractFailed, ErrUnsupported, src.ContentType)
	}

	body, err := e.blobs.Download(ctx, src.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, src.StorageKey)
		}
		return "", fmt.Errorf("%w: download: %w", ErrExtractFailed, err)
	}
	defer body.Close()

	var text string
	switch kind {
	case kindPDF:
		text, err = e.pdf(ctx, body)
	default:
		text, err = readText(body)
	}
	if err != nil {
		return "", err
	}

	text = normalize(text)
	e.logger.Debug("text extracted", "key", src.StorageKey, "chars", utf8.RuneCountInString(text))
	return text, nil
}

func (e *Extractor) pdf(ctx context.Context, body io.Reader) (string, error) {
	tempDir, err := os.MkdirTemp("", "steward-extract-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp dir: %w", ErrExtractFailed, err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "source.pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create temp pdf: %w", ErrExtractFailed, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: write temp pdf: %w", ErrExtractFailed, err)
	}
	f.Close()

	runCtx := ctx
	if timeout := e.cfg.TimeoutDuration(); timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := e.runner.Run(runCtx, e.cfg.PDFToText, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %w", ErrExtractFailed, err)
	}
	return string(out), nil
}

func readText(body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: read: %w", ErrExtractFailed, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", ErrExtractFailed)
	}
	return string(data), nil
}

type kind int

const (
	kindUnknown kind = iota
	kindText
	kindPDF
)

func detect(src Source) kind {
	ct := strings.ToLower(src.ContentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch {
	case ct == "application/pdf":
		return kindPDF
	case strings.HasPrefix(ct, "text/"), ct == "application/json":
		return kindText
	}

	switch strings.ToLower(filepath.Ext(src.Filename)) {
	case ".pdf":
		return kindPDF
	case ".txt", ".md", ".markdown", ".text":
		return kindText
	}
	return kindUnknown
}

// normalize trims trailing whitespace on each line, drops form feeds,
// and collapses runs of blank lines.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	// postgres text columns reject NUL
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
