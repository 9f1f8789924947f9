// Package export turns a selection into a saved spreadsheet artifact.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

// Downloader is the slice of the API client the coordinator needs.
type Downloader interface {
	DownloadSelected(ctx context.Context, col api.Collection, ids []string) (*api.Artifact, error)
}

// Coordinator requests bulk artifacts and delivers them as files. It checks
// the empty-selection precondition locally, before any network call.
type Coordinator struct {
	client Downloader
	dir    func() string
	now    func() time.Time
}

// New creates a coordinator writing artifacts into the directory dir reports.
// The directory is read on every export, so settings edits take effect
// without a restart. An empty directory means the user's home directory.
func New(client Downloader, dir func() string) *Coordinator {
	return &Coordinator{client: client, dir: dir, now: time.Now}
}

// Result describes a completed export.
type Result struct {
	Path string
	Size int
}

// ExportSelection downloads the artifact for the selected ids and writes it
// to the download directory. An empty selection fails immediately with
// api.ErrEmptySelection and issues no request.
func (c *Coordinator) ExportSelection(ctx context.Context, col api.Collection, ids []string) (*Result, error) {
	if len(ids) == 0 {
		return nil, api.ErrEmptySelection
	}

	art, err := c.client.DownloadSelected(ctx, col, ids)
	if err != nil {
		return nil, err
	}

	dir := c.dir()
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home
		}
	}
	path := filepath.Join(dir, Filename(col, c.now()))
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	return &Result{Path: path, Size: len(art.Data)}, nil
}

// Filename composes "{collection}_report_{timestamp}.xlsx". The timestamp is
// UTC ISO 8601 with ':' and '.' flattened for filesystem safety, second
// precision.
func Filename(col api.Collection, t time.Time) string {
	return fmt.Sprintf("%s_report_%s.xlsx", col, t.UTC().Format("2006-01-02T15-04-05"))
}
