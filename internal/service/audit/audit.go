package audit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Recorder receives a one-line description of every mutating store
// operation. It is injected into the stores at construction and always
// present; there is no conditional resolution.
type Recorder interface {
	Record(ctx context.Context, action string)
}

// FileRecorder appends action entries to a plain text log. It is
// best-effort: write failures are logged and otherwise ignored, a failed
// log entry never fails the mutation it describes.
type FileRecorder struct {
	path string
	log  zerolog.Logger
}

func NewFileRecorder(path string, log zerolog.Logger) *FileRecorder {
	return &FileRecorder{path: path, log: log}
}

func (r *FileRecorder) Record(_ context.Context, action string) {
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.log.Warn().Err(err).Msg("action log unavailable")
		return
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "[%s] %s\n", time.Now().Format(time.RFC3339), action); err != nil {
		r.log.Warn().Err(err).Msg("action log write failed")
	}
}

// NopRecorder discards every action.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string) {}
