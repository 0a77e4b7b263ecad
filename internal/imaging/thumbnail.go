package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// DefaultHeight is the thumbnail height in pixels.
const DefaultHeight = 500

// maxSourceBytes bounds how much of a remote image is read.
const maxSourceBytes = 20 << 20

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrFetchFailed       = errors.New("failed to fetch image")
)

// Thumbnail is an encoded, resized image.
type Thumbnail struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Thumbnailer fetches remote images and scales them to a fixed height.
type Thumbnailer struct {
	client *http.Client
	height uint
	logger *zap.Logger
}

// NewThumbnailer creates a Thumbnailer. A nil client gets a 15s timeout
// client; a zero height means DefaultHeight.
func NewThumbnailer(client *http.Client, height uint, logger *zap.Logger) *Thumbnailer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if height == 0 {
		height = DefaultHeight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Thumbnailer{client: client, height: height, logger: logger}
}

// Fetch downloads imageURL and returns it scaled to the configured height,
// keeping the aspect ratio. Images already at or below that height are only
// re-encoded.
func (t *Thumbnailer) Fetch(ctx context.Context, imageURL string) (*Thumbnail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetchFailed, imageURL, resp.Status)
	}

	return t.Resize(io.LimitReader(resp.Body, maxSourceBytes))
}

// Resize decodes a JPEG or PNG from r and scales it.
func (t *Thumbnailer) Resize(r io.Reader) (*Thumbnail, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if uint(img.Bounds().Dy()) > t.height {
		// Width 0 keeps the aspect ratio.
		img = resize.Resize(0, t.height, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	thumb := &Thumbnail{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		thumb.ContentType = "image/jpeg"
	case "png":
		err = png.Encode(&buf, img)
		thumb.ContentType = "image/png"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	thumb.Data = buf.Bytes()

	t.logger.Debug("Thumbnail generated", zap.String("format", format), zap.Int("width", thumb.Width), zap.Int("height", thumb.Height))
	return thumb, nil
}
