package imagemin_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/transform/imagemin"
	"go.trai.ch/assetpipe/internal/core/domain"
)

func flatPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := range 64 {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&buf, img))
	return buf.Bytes()
}

func TestOptimizer_Transform(t *testing.T) {
	original := flatPNG(t)
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"   width="10" height="10">
  <!-- logo -->
  <rect x="0" y="0" width="10" height="10" />
</svg>`)
	gif := []byte("GIF89a not really decoded")

	out, err := imagemin.New(0).Transform(t.Context(), []domain.Asset{
		{Path: "logo.png", Data: original},
		{Path: "icons/logo.svg", Data: svg},
		{Path: "spinner.gif", Data: gif},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "logo.png", out[0].Path)
	assert.Less(t, len(out[0].Data), len(original))
	_, err = png.Decode(bytes.NewReader(out[0].Data))
	require.NoError(t, err, "optimized image must stay decodable")

	assert.Equal(t, "icons/logo.svg", out[1].Path)
	assert.Less(t, len(out[1].Data), len(svg))
	assert.NotContains(t, string(out[1].Data), "logo -->")

	assert.Equal(t, gif, out[2].Data)
}

func TestOptimizer_KeepsSmallerOriginal(t *testing.T) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	require.NoError(t, enc.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	original := buf.Bytes()

	out, err := imagemin.New(90).Transform(t.Context(), []domain.Asset{{Path: "dot.png", Data: original}})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out[0].Data), len(original))
}

func TestOptimizer_CorruptImage(t *testing.T) {
	_, err := imagemin.New(0).Transform(t.Context(), []domain.Asset{{Path: "broken.jpg", Data: []byte("nope")}})
	require.ErrorContains(t, err, "image optimization failed")
}
