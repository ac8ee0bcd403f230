package batch

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/pressmith/pr-agent/internal/models"
	"github.com/rs/zerolog"
)

// Writer emits GenerationResults as JSONL.
type Writer struct {
	buf     *bufio.Writer
	encoder *json.Encoder
	logger  *zerolog.Logger
}

func NewWriter(out io.Writer, logger *zerolog.Logger) *Writer {
	buf := bufio.NewWriter(out)
	return &Writer{
		buf:     buf,
		encoder: json.NewEncoder(buf),
		logger:  logger,
	}
}

func (w *Writer) Write(result models.GenerationResult) error {
	return w.encoder.Encode(result)
}

func (w *Writer) Close() error {
	return w.buf.Flush()
}
