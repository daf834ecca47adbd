package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// New creates the run logger. When dir is set, entries go to a timestamped
// file inside it; otherwise they go to w, or nowhere when w is nil. The
// returned closer should be closed when logging is no longer needed.
func New(dir string, w io.Writer) (*log.Logger, io.Closer, error) {
	if dir == "" {
		if w == nil {
			w = io.Discard
		}
		return log.New(w, "patchstatus: ", log.LstdFlags), nopCloser{}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	filePath := filepath.Join(dir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = file
	if w != nil {
		out = io.MultiWriter(file, w)
	}
	logger := log.New(out, "", log.LstdFlags|log.Lmicroseconds)
	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
