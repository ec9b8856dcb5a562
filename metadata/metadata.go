// Package metadata reads resolution hints from a source image. Nothing here
// affects the converted output; the values feed debug logging only.
package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"

	"png2jpg/contracts"
)

// DefaultDPI is reported when the file carries no usable resolution.
const DefaultDPI = 72.0

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

type SourceInfo struct {
	Format  contracts.ImageFormat
	DPIX    float64
	DPIY    float64
	HasEXIF bool
}

// Probe reads the file at path and collects its resolution. format is the
// name the image decoder reported for the same file.
func Probe(path string, format contracts.ImageFormat) (SourceInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceInfo{}, fmt.Errorf("error reading source file: %w", err)
	}

	info := SourceInfo{
		Format: format,
		DPIX:   DefaultDPI,
		DPIY:   DefaultDPI,
	}

	if format == contracts.FormatPNG {
		if x, y, ok, err := GetDPIFromPNG(data); err != nil {
			return info, err
		} else if ok {
			info.DPIX, info.DPIY = x, y
		}
	}

	if !carriesEXIF(format) {
		return info, nil
	}
	if x, y, err := GetEXIFDPI(data); err == nil {
		info.HasEXIF = true
		info.DPIX, info.DPIY = x, y
	}

	return info, nil
}

// GetEXIFDPI returns the X/Y resolution stored in the first EXIF (TIFF
// structured) block found in data, converted to dots per inch.
func GetEXIFDPI(data []byte) (float64, float64, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return DefaultDPI, DefaultDPI, fmt.Errorf("EXIF not found: %w", err)
	}

	im := exifcommon.NewIfdMapping()
	ti := exif.NewTagIndex()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return DefaultDPI, DefaultDPI, err
	}

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return DefaultDPI, DefaultDPI, err
	}

	dpiX := rationalTag(index.RootIfd, "XResolution", DefaultDPI)
	dpiY := rationalTag(index.RootIfd, "YResolution", DefaultDPI)

	// ResolutionUnit 3 is centimetres.
	if tag, err := index.RootIfd.FindTagWithName("ResolutionUnit"); err == nil {
		if val, err := tag[0].Value(); err == nil {
			if u, ok := val.([]uint16); ok && len(u) > 0 && u[0] == 3 {
				dpiX *= 2.54
				dpiY *= 2.54
			}
		}
	}

	return dpiX, dpiY, nil
}

func rationalTag(ifd *exif.Ifd, name string, fallback float64) float64 {
	tag, err := ifd.FindTagWithName(name)
	if err != nil {
		return fallback
	}
	val, err := tag[0].Value()
	if err != nil {
		return fallback
	}
	rats, ok := val.([]exifcommon.Rational)
	if !ok || len(rats) == 0 || rats[0].Denominator == 0 {
		return fallback
	}
	return float64(rats[0].Numerator) / float64(rats[0].Denominator)
}

// carriesEXIF reports whether files of this format can embed an EXIF block.
func carriesEXIF(format contracts.ImageFormat) bool {
	switch format {
	case contracts.FormatJPEG, contracts.FormatPNG, contracts.FormatTIFF, contracts.FormatWebP:
		return true
	case contracts.FormatGIF, contracts.FormatBMP:
		return false
	}
	return false
}

// GetDPIFromPNG looks for a pHYs chunk ahead of the image data. ok is false
// when there is none or its unit is unspecified.
func GetDPIFromPNG(data []byte) (dpiX, dpiY float64, ok bool, err error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, 0, false, errors.New("not a PNG stream")
	}
	buf := bytes.NewReader(data[len(pngSignature):])

	for {
		var length uint32
		if err := binary.Read(buf, binary.BigEndian, &length); err != nil {
			return 0, 0, false, nil
		}

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(buf, chunkType); err != nil {
			return 0, 0, false, nil
		}

		switch string(chunkType) {
		case "pHYs":
			var pxPerUnitX, pxPerUnitY uint32
			var unit byte

			if err := binary.Read(buf, binary.BigEndian, &pxPerUnitX); err != nil {
				return 0, 0, false, err
			}
			if err := binary.Read(buf, binary.BigEndian, &pxPerUnitY); err != nil {
				return 0, 0, false, err
			}
			if err := binary.Read(buf, binary.BigEndian, &unit); err != nil {
				return 0, 0, false, err
			}
			if unit != 1 {
				return 0, 0, false, nil
			}
			// pixels per metre
			return float64(pxPerUnitX) * 0.0254, float64(pxPerUnitY) * 0.0254, true, nil
		case "IDAT", "IEND":
			return 0, 0, false, nil
		}

		// skip chunk data + CRC
		if _, err := buf.Seek(int64(length)+4, io.SeekCurrent); err != nil {
			return 0, 0, false, nil
		}
	}
}
