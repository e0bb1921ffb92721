package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrResultCount is returned when a batch engine answers with a different
// number of results than it was given inputs.
var ErrResultCount = errors.New("ocr: engine returned wrong number of results")

var (
	defaultMu     sync.RWMutex
	defaultEngine Engine = noopEngine{}
)

// DefaultEngine returns the registered default OCR engine. Importing the
// tesseract subpackage makes Tesseract the default; without it pages come
// back with empty text.
func DefaultEngine() Engine {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultEngine
}

// SetDefaultEngine sets the default OCR engine. A nil engine restores the
// no-op engine.
func SetDefaultEngine(engine Engine) {
	if engine == nil {
		engine = noopEngine{}
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = engine
}

// RecognizePages runs engine over rendered pages. Batch engines receive all
// inputs in one call. Other engines get one page at a time, and each page is
// encoded just before it is recognized so only one encoded page is held in
// memory. Results are in page order and carry the page index.
func RecognizePages(ctx context.Context, engine Engine, pages []Page, opts ...InputOption) ([]Result, error) {
	if b, ok := engine.(BatchEngine); ok {
		return recognizeBatch(ctx, b, pages, opts)
	}
	results := make([]Result, 0, len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := InputFromPage(p, opts...)
		if err != nil {
			return nil, fmt.Errorf("build input for page %d: %w", p.Index, err)
		}
		res, err := engine.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		res.PageIndex = p.Index
		results = append(results, res)
	}
	return results, nil
}

func recognizeBatch(ctx context.Context, engine BatchEngine, pages []Page, opts []InputOption) ([]Result, error) {
	inputs := make([]Input, 0, len(pages))
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := InputFromPage(p, opts...)
		if err != nil {
			return nil, fmt.Errorf("build input for page %d: %w", p.Index, err)
		}
		inputs = append(inputs, in)
	}
	results, err := engine.RecognizeBatch(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if len(results) != len(inputs) {
		return nil, fmt.Errorf("%w: %s gave %d for %d pages", ErrResultCount, engine.Name(), len(results), len(inputs))
	}
	for i := range results {
		results[i].PageIndex = inputs[i].PageIndex
	}
	return results, nil
}

// DefaultRecognizePages runs recognition with the default engine.
func DefaultRecognizePages(ctx context.Context, pages []Page, opts ...InputOption) ([]Result, error) {
	return RecognizePages(ctx, DefaultEngine(), pages, opts...)
}

type noopEngine struct{}

func (noopEngine) Name() string { return "noop" }

func (noopEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	return Result{InputID: in.ID}, nil
}
