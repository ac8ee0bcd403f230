package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pressmith/pr-agent/internal/models"
	"github.com/rs/zerolog"
)

// InputRecord is one parsed line of the input file. Parse failures are
// carried per record so callers can decide whether to skip or abort.
type InputRecord struct {
	Request    models.GenerationRequest
	LineNumber int
	Error      error
}

// Reader streams GenerationRequest records from a JSONL source.
type Reader struct {
	source io.Reader
	logger *zerolog.Logger
}

func NewReader(source io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		source: source,
		logger: logger,
	}
}

// ReadAll parses the source line by line and emits one record per
// non-empty line. The returned channel closes when the source is drained
// or the context is cancelled.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	records := make(chan InputRecord)

	go func() {
		defer close(records)

		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}

			var request models.GenerationRequest
			if err := json.Unmarshal([]byte(line), &request); err != nil {
				record.Error = fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)
			} else if err := (models.StatementRequest{Topic: request.Topic}).Validate(); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
			} else {
				record.Request = request
			}

			select {
			case records <- record:
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("reader cancelled")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("failed to read input")
		}
	}()

	return records
}
