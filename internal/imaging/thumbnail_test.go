package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 182, B: 193, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetchResizesToHeight(t *testing.T) {
	src := encodePNG(t, solid(200, 100))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(src)
	}))
	defer srv.Close()

	thumb, err := NewThumbnailer(srv.Client(), 50, zaptest.NewLogger(t)).Fetch(context.Background(), srv.URL+"/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", thumb.ContentType)
	assert.Equal(t, 50, thumb.Height)
	assert.Equal(t, 100, thumb.Width)

	decoded, _, err := image.Decode(bytes.NewReader(thumb.Data))
	require.NoError(t, err)
	assert.Equal(t, 50, decoded.Bounds().Dy())
}

func TestResizeKeepsSmallImagesAndFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(40, 30), nil))

	thumb, err := NewThumbnailer(nil, 0, nil).Resize(&buf)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", thumb.ContentType)
	assert.Equal(t, 30, thumb.Height)
	assert.Equal(t, 40, thumb.Width)
}

func TestResizeRejectsUnknownFormat(t *testing.T) {
	_, err := NewThumbnailer(nil, 0, nil).Resize(strings.NewReader("GIF89a not really"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewThumbnailer(srv.Client(), 0, zaptest.NewLogger(t)).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrFetchFailed)
}
