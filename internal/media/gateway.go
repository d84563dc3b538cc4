// Package media moves uploaded images from request-scoped temp files to the
// remote image host and back out again.
package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/robaadekings/Robert-portifolio-website/pkg/logger"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
)

// AllowedMIMETypes lists the image formats accepted for upload.
var AllowedMIMETypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadOptions tweak a single upload.
type UploadOptions struct {
	// PublicID pins the remote identifier instead of letting the host pick one.
	PublicID string
	// Overwrite replaces an existing asset with the same PublicID.
	Overwrite bool
}

// Host is the remote image store.
type Host interface {
	// Upload stores the local file under folder and returns its durable URL.
	Upload(ctx context.Context, localPath, folder string, opts UploadOptions) (string, error)
	// Destroy deletes the asset identified by publicID ("<folder>/<name>").
	Destroy(ctx context.Context, publicID string) error
}

// Limits bound what a single request may upload.
type Limits struct {
	MaxFileBytes int64
	MaxFiles     int
}

// Gateway validates, stages and uploads images through a Host.
type Gateway struct {
	host    Host
	tempDir string
	limits  Limits
}

func NewGateway(host Host, tempDir string, limits Limits) *Gateway {
	return &Gateway{host: host, tempDir: tempDir, limits: limits}
}

// Limits returns the configured upload bounds.
func (g *Gateway) Limits() Limits {
	return g.limits
}

// TempDir is where staged files live until they are uploaded.
func (g *Gateway) TempDir() string {
	return g.tempDir
}

// Staged is a set of temp files written for one request.
type Staged struct {
	Paths []string
}

// Cleanup removes whatever staged files are still on disk. Files already
// consumed by a successful upload are gone and are skipped silently.
func (s *Staged) Cleanup() {
	if s == nil {
		return
	}
	for _, p := range s.Paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", p).Msg("failed to remove temp upload")
		}
	}
}

// Stage validates every header and writes the accepted files to the temp
// dir. Nothing is written unless all headers pass the declared-type and size
// checks; a file whose sniffed content is not an allowed image aborts the
// whole batch and removes what was written so far.
func (g *Gateway) Stage(files []*multipart.FileHeader) (*Staged, error) {
	if g.limits.MaxFiles > 0 && len(files) > g.limits.MaxFiles {
		return nil, response.NewValidation(fmt.Sprintf("at most %d images per request", g.limits.MaxFiles))
	}
	for _, fh := range files {
		if err := g.ValidateHeader(fh); err != nil {
			return nil, err
		}
	}

	staged := &Staged{Paths: make([]string, 0, len(files))}
	if len(files) == 0 {
		return staged, nil
	}
	if err := os.MkdirAll(g.tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	for _, fh := range files {
		p, err := g.writeTemp(fh)
		if err != nil {
			staged.Cleanup()
			return nil, err
		}
		staged.Paths = append(staged.Paths, p)

		if err := sniff(p); err != nil {
			staged.Cleanup()
			return nil, err
		}
	}
	return staged, nil
}

// ValidateHeader checks the declared MIME type and size before any bytes are
// read or any network call is made.
func (g *Gateway) ValidateHeader(fh *multipart.FileHeader) error {
	declared := fh.Header.Get("Content-Type")
	if i := strings.Index(declared, ";"); i != -1 {
		declared = declared[:i]
	}
	declared = strings.TrimSpace(strings.ToLower(declared))
	if !isAllowed(declared) {
		return response.NewUnsupportedMediaType(declared)
	}
	if g.limits.MaxFileBytes > 0 && fh.Size > g.limits.MaxFileBytes {
		return response.NewPayloadTooLarge(fmt.Sprintf("%s exceeds the %d MiB limit", fh.Filename, g.limits.MaxFileBytes>>20))
	}
	return nil
}

func (g *Gateway) writeTemp(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), safeExt(fh.Filename))
	dst := filepath.Join(g.tempDir, name)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return dst, nil
}

// Upload pushes one staged file to the host. The temp file is removed after
// a successful upload; on failure it is left in place for the caller.
func (g *Gateway) Upload(ctx context.Context, localPath, folder string, opts UploadOptions) (string, error) {
	remoteURL, err := g.host.Upload(ctx, localPath, folder, opts)
	if err != nil {
		logger.Error().Err(err).Str("folder", folder).Str("path", localPath).Msg("image upload failed")
		return "", response.NewUploadFailed(err)
	}

	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", localPath).Msg("failed to remove uploaded temp file")
	}
	return remoteURL, nil
}

// UploadBatch uploads files one at a time and returns their URLs in input
// order. An empty batch returns an empty, non-nil slice.
func (g *Gateway) UploadBatch(ctx context.Context, localPaths []string, folder string) ([]string, error) {
	urls := make([]string, 0, len(localPaths))
	for _, p := range localPaths {
		u, err := g.Upload(ctx, p, folder, UploadOptions{})
		if err != nil {
			return urls, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// Remove deletes the asset behind remoteURL. Errors are logged and returned
// so callers can count them, but callers must not fail because of them.
func (g *Gateway) Remove(ctx context.Context, remoteURL, folder string) error {
	publicID, err := PublicIDFromURL(remoteURL, folder)
	if err != nil {
		logger.Warn().Err(err).Str("url", remoteURL).Msg("cannot derive public id")
		return err
	}
	if err := g.host.Destroy(ctx, publicID); err != nil {
		logger.Warn().Err(err).Str("public_id", publicID).Msg("remote image delete failed")
		return err
	}
	return nil
}

// PublicIDFromURL returns "<folder>/<last path segment without extension>".
func PublicIDFromURL(remoteURL, folder string) (string, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", fmt.Errorf("parse image url: %w", err)
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return "", fmt.Errorf("image url has no file name: %q", remoteURL)
	}
	if i := strings.Index(base, "."); i != -1 {
		base = base[:i]
	}
	if base == "" {
		return "", fmt.Errorf("image url has no file name: %q", remoteURL)
	}
	if folder == "" {
		return base, nil
	}
	return folder + "/" + base, nil
}

func sniff(p string) error {
	mt, err := mimetype.DetectFile(p)
	if err != nil {
		return fmt.Errorf("detect content type: %w", err)
	}
	for _, allowed := range AllowedMIMETypes {
		if mt.Is(allowed) {
			return nil
		}
	}
	return response.NewUnsupportedMediaType(mt.String())
}

func isAllowed(mime string) bool {
	for _, allowed := range AllowedMIMETypes {
		if mime == allowed {
			return true
		}
	}
	return false
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 6 {
		return ""
	}
	for _, r := range ext[min(1, len(ext)):] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
