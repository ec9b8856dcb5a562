package files_manager

import (
	"os"

	"png2jpg/contracts"
)

// CheckInputFile reports an *contracts.InputNotFoundError unless path names an
// existing regular file. Symlinks are followed; directories do not count.
func CheckInputFile(path string) error {
	stat, err := os.Stat(path)
	if err != nil || !stat.Mode().IsRegular() {
		return &contracts.InputNotFoundError{Path: path}
	}
	return nil
}
