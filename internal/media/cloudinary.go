package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/robaadekings/Robert-portifolio-website/internal/config"
)

// ErrHostNotConfigured is returned by the placeholder host used when no
// Cloudinary credentials are present.
var ErrHostNotConfigured = errors.New("image host is not configured")

// CloudinaryHost implements Host on top of the Cloudinary upload API.
type CloudinaryHost struct {
	cld     *cloudinary.Cloudinary
	timeout time.Duration
}

// NewCloudinaryHost builds a client from explicit credentials.
func NewCloudinaryHost(cfg config.CloudinaryConfig) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &CloudinaryHost{cld: cld, timeout: timeout}, nil
}

func (h *CloudinaryHost) Upload(ctx context.Context, localPath, folder string, opts UploadOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	params := uploader.UploadParams{Folder: folder}
	if opts.PublicID != "" {
		params.PublicID = opts.PublicID
	}
	if opts.Overwrite {
		params.Overwrite = api.Bool(true)
	}

	res, err := h.cld.Upload.Upload(ctx, localPath, params)
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary returned no url")
	}
	return res.SecureURL, nil
}

func (h *CloudinaryHost) Destroy(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	res, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result != "ok" {
		return fmt.Errorf("destroy %s: %s", publicID, res.Result)
	}
	return nil
}

// UnconfiguredHost rejects every call. It keeps the API usable for
// image-less projects when credentials are missing.
type UnconfiguredHost struct{}

func (UnconfiguredHost) Upload(context.Context, string, string, UploadOptions) (string, error) {
	return "", ErrHostNotConfigured
}

func (UnconfiguredHost) Destroy(context.Context, string) error {
	return ErrHostNotConfigured
}

// NewHost picks the Cloudinary client when credentials are set.
func NewHost(cfg config.CloudinaryConfig) (Host, error) {
	if !cfg.Configured() {
		return UnconfiguredHost{}, nil
	}
	return NewCloudinaryHost(cfg)
}
