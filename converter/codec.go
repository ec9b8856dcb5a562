package converter

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is the fixed encoder quality on the 1-100 scale.
const JPEGQuality = 95

// Codec is the narrow surface of the image library the converter needs.
type Codec interface {
	// Decode opens path and decodes it with whichever registered decoder
	// recognises the data. It returns the decoder's format name.
	Decode(path string) (image.Image, string, error)
	// ToRGB returns an opaque copy of img with the alpha channel dropped.
	ToRGB(img image.Image) *image.RGBA
	// EncodeJPEG writes img to path, creating or truncating it.
	EncodeJPEG(img image.Image, path string, quality int) error
}

// ImageCodec implements Codec with the standard image packages and the
// golang.org/x/image decoders.
type ImageCodec struct{}

func NewImageCodec() *ImageCodec {
	return &ImageCodec{}
}

func (ImageCodec) Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("error opening image file: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("error decoding image file: %w", err)
	}
	return img, format, nil
}

func (ImageCodec) ToRGB(img image.Image) *image.RGBA {
	return ToRGB(img)
}

func (ImageCodec) EncodeJPEG(img image.Image, path string, quality int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating JPEG file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing JPEG file: %w", cerr)
		}
	}()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("error encoding JPEG file: %w", err)
	}
	return nil
}

// ToRGB copies img into an opaque RGBA image. Alpha is dropped rather than
// composited: every pixel keeps its non-premultiplied red, green and blue, so
// a fully transparent red pixel comes out as opaque red.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			si := src.PixOffset(b.Min.X, y)
			di := dst.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.Pix[di+0] = src.Pix[si+0]
				dst.Pix[di+1] = src.Pix[si+1]
				dst.Pix[di+2] = src.Pix[si+2]
				dst.Pix[di+3] = 0xff
				si += 4
				di += 4
			}
		}
		return dst
	case *image.NRGBA64:
		// 16-bit samples are big-endian; keep the high byte.
		for y := b.Min.Y; y < b.Max.Y; y++ {
			si := src.PixOffset(b.Min.X, y)
			di := dst.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.Pix[di+0] = src.Pix[si+0]
				dst.Pix[di+1] = src.Pix[si+2]
				dst.Pix[di+2] = src.Pix[si+4]
				dst.Pix[di+3] = 0xff
				si += 8
				di += 4
			}
		}
		return dst
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}
