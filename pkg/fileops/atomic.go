package fileops

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
)

const (
	tempPrefix = ".saltybox-"
	tempSuffix = ".tmp"
)

// WriteAtomic replaces dest with data, such that dest is never observed partially written.
// The temporary file is created next to dest so that the final rename stays on one filesystem, and it is removed
// if anything fails before the rename.
func WriteAtomic(dest string, data []byte, mode os.FileMode) (err error) {
	tmpPath := filepath.Join(filepath.Dir(dest), tempPrefix+uuid.NewString()+tempSuffix)
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return ioError("failed to create tempfile", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return ioError("failed to write to tempfile", err)
	}
	if err := f.Sync(); err != nil {
		return ioError("failed to sync file prior to rename", err)
	}
	if err := f.Chmod(mode); err != nil {
		return ioError("failed to set tempfile permissions", err)
	}
	if err := f.Close(); err != nil {
		return ioError("failed to close tempfile", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return ioError("failed to rename to target file "+dest, err)
	}
	return nil
}

func ioError(msg string, err error) error {
	return saltyerr.Wrap(saltyerr.Internal, saltyerr.Io, msg, err)
}
