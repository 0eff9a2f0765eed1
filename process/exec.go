package process

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
)

func init() {
	cobra.MousetrapHelpText = "This is a command line tool.\n\n" +
		"This needs to be run from a Command Prompt.\n"

	if exe, err := os.Executable(); err == nil {
		cobra.MousetrapHelpText += fmt.Sprintf(
			"Try running \"%s help\" for more information\n", exe)
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, Error.New("failed to check for file existence: %v", err)
}

// AtomicWriteFile 先写临时文件再重命名，目标文件要么是旧内容要么是完整的新内容
func AtomicWriteFile(outfile string, write func(f *os.File) error, mode os.FileMode) (err error) {
	// TODO: fsync the parent directory after rename.
	fh, err := os.CreateTemp(filepath.Dir(outfile), filepath.Base(outfile))
	if err != nil {
		return Error.Wrap(err)
	}
	needsClose, needsRemove := true, true

	defer func() {
		if needsClose {
			err = errs.Combine(err, Error.Wrap(fh.Close()))
		}
		if needsRemove {
			err = errs.Combine(err, Error.Wrap(os.Remove(fh.Name())))
		}
	}()

	if err := write(fh); err != nil {
		return Error.Wrap(err)
	}
	if err := fh.Chmod(mode); err != nil {
		return Error.Wrap(err)
	}

	needsClose = false
	if err := fh.Close(); err != nil {
		return Error.Wrap(err)
	}

	if err := os.Rename(fh.Name(), outfile); err != nil {
		return Error.Wrap(err)
	}
	needsRemove = false

	return nil
}
