package converter

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"png2jpg/contracts"
	"png2jpg/metadata"
)

type ConversionRequest = contracts.ConversionRequest

// Converter decodes one image, drops its alpha channel and writes it back out
// as a JPEG at JPEGQuality.
type Converter struct {
	codec  Codec
	stdout io.Writer
}

var _ contracts.Converter = (*Converter)(nil)

// NewConverter returns a Converter that reports finished conversions on stdout.
func NewConverter(codec Codec, stdout io.Writer) *Converter {
	return &Converter{
		codec:  codec,
		stdout: stdout,
	}
}

func (c *Converter) Convert(request ConversionRequest) error {
	img, format, err := c.codec.Decode(request.InputPath)
	if err != nil {
		return &contracts.CodecError{Op: contracts.OpDecode, Path: request.InputPath, Err: err}
	}

	bounds := img.Bounds()
	log.Debug().
		Str("path", request.InputPath).
		Str("format", format).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("decoded source image")

	if e := log.Debug(); e.Enabled() {
		info, err := metadata.Probe(request.InputPath, contracts.ImageFormat(format))
		if err != nil {
			e.Err(err).Str("path", request.InputPath).Msg("could not probe source metadata")
		} else {
			e.Float64("dpi_x", info.DPIX).
				Float64("dpi_y", info.DPIY).
				Bool("exif", info.HasEXIF).
				Msg("source metadata")
		}
	}

	rgb := c.codec.ToRGB(img)

	if err := c.codec.EncodeJPEG(rgb, request.OutputPath, JPEGQuality); err != nil {
		return &contracts.CodecError{Op: contracts.OpEncode, Path: request.OutputPath, Err: err}
	}
	log.Debug().Str("path", request.OutputPath).Int("quality", JPEGQuality).Msg("wrote JPEG")

	fmt.Fprintf(c.stdout, "Converted %s to %s\n", request.InputPath, request.OutputPath)
	return nil
}
