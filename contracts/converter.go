package contracts

// Converter turns one input image into one JPEG file.
type Converter interface {
	Convert(request ConversionRequest) error
}

type ConversionRequest struct {
	InputPath  string
	OutputPath string
}

// ImageFormat is the format name reported by the registered image decoders.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
	FormatGIF  ImageFormat = "gif"
	FormatBMP  ImageFormat = "bmp"
	FormatTIFF ImageFormat = "tiff"
	FormatWebP ImageFormat = "webp"
)
