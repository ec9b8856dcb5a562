package contracts

import (
	"errors"
	"fmt"
)

// ErrUsage reports a command line that does not carry exactly two paths.
var ErrUsage = errors.New("usage: expected <input_png_file> <output_jpg_file>")

type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("Error: The file %s does not exist.", e.Path)
}

type CodecOp string

const (
	OpDecode CodecOp = "decode"
	OpEncode CodecOp = "encode"
)

// CodecError carries a decode or encode failure from the image library
// without altering it.
type CodecError struct {
	Op   CodecOp
	Path string
	Err  error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}
