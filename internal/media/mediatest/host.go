// Package mediatest provides an in-memory media.Host for tests.
package mediatest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robaadekings/Robert-portifolio-website/internal/media"
)

// ErrInjected is returned for calls configured to fail.
var ErrInjected = errors.New("injected host failure")

// Host records uploads and deletes. Uploaded URLs look like
// https://img.test/<folder>/<n>.jpg.
type Host struct {
	mu        sync.Mutex
	n         int
	Uploaded  []string
	Destroyed []string
	Options   []media.UploadOptions
	// FailUploadAt makes the nth upload (1-based) fail; 0 disables.
	FailUploadAt int
	// FailDestroy makes Destroy fail for these public ids.
	FailDestroy map[string]bool
}

func New() *Host {
	return &Host{FailDestroy: map[string]bool{}}
}

func (h *Host) Upload(_ context.Context, localPath, folder string, opts media.UploadOptions) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("local file missing: %w", err)
	}
	h.n++
	if h.FailUploadAt == h.n {
		return "", ErrInjected
	}

	name := fmt.Sprintf("%d", h.n)
	if opts.PublicID != "" {
		name = opts.PublicID
	}
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = ".jpg"
	}
	u := fmt.Sprintf("https://img.test/%s/%s%s", folder, name, ext)
	h.Uploaded = append(h.Uploaded, u)
	h.Options = append(h.Options, opts)
	return u, nil
}

func (h *Host) Destroy(_ context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Destroyed = append(h.Destroyed, publicID)
	if h.FailDestroy[publicID] {
		return ErrInjected
	}
	return nil
}

// DestroyCalls returns a copy of the public ids passed to Destroy.
func (h *Host) DestroyCalls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.Destroyed...)
}

// PNG is a minimal valid PNG image.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}
