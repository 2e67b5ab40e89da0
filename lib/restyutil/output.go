package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// InstrumentOutput receives the full text of every request/response pair.
type InstrumentOutput interface {
	Write(id string, contents string)
}

// FilesystemOutput writes each message to its own file in a directory that is
// emptied when the output is created.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
