package converter

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestToRGB(t *testing.T) {
	nrgba64 := image.NewNRGBA64(image.Rect(0, 0, 2, 2))
	nrgba64.SetNRGBA64(1, 1, color.NRGBA64{R: 0xff00, G: 0x8000, B: 0x1000, A: 0})

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 0x40})

	paletted := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{
		color.NRGBA{R: 0, G: 0, B: 0, A: 0xff},
		color.NRGBA{R: 0, G: 0xff, B: 0, A: 0},
	})
	paletted.SetColorIndex(1, 1, 1)

	premultiplied := image.NewRGBA(image.Rect(0, 0, 2, 2))
	premultiplied.SetRGBA(1, 1, color.RGBA{R: 0x80, G: 0, B: 0, A: 0x80})

	tests := []struct {
		name string
		img  image.Image
		want color.RGBA
	}{
		{
			name: "transparent NRGBA keeps colour",
			img:  filledNRGBA(2, 2, color.NRGBA{R: 0xff, G: 0, B: 0, A: 0}),
			want: color.RGBA{R: 0xff, G: 0, B: 0, A: 0xff},
		},
		{
			name: "half transparent NRGBA",
			img:  filledNRGBA(2, 2, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}),
			want: color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff},
		},
		{
			name: "16-bit NRGBA keeps high byte",
			img:  nrgba64,
			want: color.RGBA{R: 0xff, G: 0x80, B: 0x10, A: 0xff},
		},
		{
			name: "grayscale expands to RGB",
			img:  gray,
			want: color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff},
		},
		{
			name: "paletted transparent entry",
			img:  paletted,
			want: color.RGBA{R: 0, G: 0xff, B: 0, A: 0xff},
		},
		{
			name: "premultiplied RGBA is unpremultiplied",
			img:  premultiplied,
			want: color.RGBA{R: 0xff, G: 0, B: 0, A: 0xff},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToRGB(tc.img)
			require.Equal(t, tc.img.Bounds(), got.Bounds())
			assert.True(t, got.Opaque(), "converted image must be opaque")
			assert.Equal(t, tc.want, got.RGBAAt(1, 1))
		})
	}
}

func TestToRGBSubImage(t *testing.T) {
	src := filledNRGBA(6, 6, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff})
	src.SetNRGBA(3, 4, color.NRGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0})

	sub := src.SubImage(image.Rect(2, 2, 5, 5))
	got := ToRGB(sub)

	assert.Equal(t, image.Rect(2, 2, 5, 5), got.Bounds())
	assert.Equal(t, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, got.RGBAAt(3, 4))
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 0xff}, got.RGBAAt(2, 2))
	assert.True(t, got.Opaque())
}

func TestToRGBDoesNotModifySource(t *testing.T) {
	src := filledNRGBA(2, 2, color.NRGBA{R: 9, G: 8, B: 7, A: 6})
	_ = ToRGB(src)
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 6}, src.NRGBAAt(0, 0))
}
