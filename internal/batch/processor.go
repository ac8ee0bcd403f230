package batch

import (
	"context"
	"sync"
	"time"

	"github.com/pressmith/pr-agent/internal/models"
	"github.com/rs/zerolog"
)

// Generator runs the generation loop for one topic.
type Generator interface {
	Run(ctx context.Context, topic string) (string, error)
}

// Processor fans records out to a pool of workers, each running an
// independent loop instance. Runs share nothing but the provider handles.
type Processor struct {
	generator Generator
	workers   int
	logger    *zerolog.Logger
}

func NewProcessor(generator Generator, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		generator: generator,
		workers:   workers,
		logger:    logger,
	}
}

// Process consumes records and emits one GenerationResult per record. The
// returned channel closes once every record has been handled.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan models.GenerationResult {
	results := make(chan models.GenerationResult, len(records))
	work := make(chan InputRecord)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range work {
				results <- p.processOne(ctx, record)
			}
		}()
	}

	go func() {
		defer close(work)
		for _, record := range records {
			select {
			case work <- record:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) models.GenerationResult {
	result := models.GenerationResult{
		ID:    record.Request.EventID,
		Topic: record.Request.Topic,
	}

	if record.Error != nil {
		result.Status = models.StatusError
		result.Message = record.Error.Error()
		return result
	}

	start := time.Now()
	statement, err := p.generator.Run(ctx, record.Request.Topic)
	result.Duration = time.Since(start)

	if err != nil {
		p.logger.Error().
			Err(err).
			Str("event_id", record.Request.EventID).
			Int("line", record.LineNumber).
			Msg("generation failed")
		result.Status = models.StatusError
		result.Message = err.Error()
		return result
	}

	result.Status = models.StatusSuccess
	result.PRStatement = statement
	return result
}
