package placement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/metrics"
	"github.com/placedesk/placedesk/internal/strapi"
)

// ResumeArchiveName is the file name every resume download is saved under.
const ResumeArchiveName = "resume.zip"

const resumeZipPath = "/api/admin/resume-zip"

// Getter issues an authenticated GET. *strapi.Client implements it.
type Getter interface {
	Get(ctx context.Context, path string, query *strapi.Query) (*http.Response, error)
}

// Saver persists a downloaded body under name and returns where it was written.
type Saver interface {
	Save(ctx context.Context, name string, body io.Reader) (string, error)
}

// DirSaver writes files into Dir, replacing any existing file of the same name.
type DirSaver struct {
	Dir string
}

// Save implements Saver. The body is written to a temporary file first so a
// failed transfer never leaves a truncated archive behind.
func (s DirSaver) Save(_ context.Context, name string, body io.Reader) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err = io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}

	dest := filepath.Join(dir, name)
	if err = os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("saving %s: %w", dest, err)
	}
	return dest, nil
}

// Downloader fetches the server-built resume archive for a set of roll numbers.
type Downloader struct {
	client  Getter
	saver   Saver
	metrics *metrics.Metrics
}

// NewDownloader builds a Downloader.
func NewDownloader(client Getter, saver Saver, m *metrics.Metrics) *Downloader {
	return &Downloader{client: client, saver: saver, metrics: m}
}

// Download requests the archive for rolls (comma-joined roll numbers) and saves it
// as resume.zip. A blank rolls string returns ErrNoSelection without any request.
// A status >= 400 returns the server's error message as *strapi.APIError and saves nothing.
func (d *Downloader) Download(ctx context.Context, rolls string) (string, error) {
	log := logging.FromContext(ctx)

	if strings.TrimSpace(rolls) == "" {
		return "", ErrNoSelection
	}

	resp, err := d.client.Get(ctx, resumeZipPath, strapi.NewQuery().Set("rolls", rolls))
	if err != nil {
		d.metrics.ObserveDownload(false)
		var apiErr *strapi.APIError
		if errors.As(err, &apiErr) {
			log.Error().Ctx(ctx).
				Str("component", "placement").
				Str("operation", "download").
				Int("status", apiErr.Status).
				Str("rolls", rolls).
				Msg(apiErr.Message)
		}
		return "", fmt.Errorf("downloading resumes: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	path, err := d.saver.Save(ctx, ResumeArchiveName, resp.Body)
	if err != nil {
		d.metrics.ObserveDownload(false)
		return "", fmt.Errorf("saving resumes: %w", err)
	}

	d.metrics.ObserveDownload(true)
	log.Info().Ctx(ctx).
		Str("component", "placement").
		Str("operation", "download").
		Str("path", path).
		Int("rolls", len(strings.Split(rolls, ","))).
		Msg("resume archive saved")
	return path, nil
}
