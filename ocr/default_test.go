package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/wudi/pdfraster/bitmap"
)

type recordingEngine struct {
	ids []string
}

func (e *recordingEngine) Name() string { return "recording" }

func (e *recordingEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	e.ids = append(e.ids, in.ID)
	return Result{InputID: in.ID, PlainText: "text"}, nil
}

type batchEngine struct {
	recordingEngine
	batches int
}

func (e *batchEngine) RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error) {
	e.batches++
	out := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		res, _ := e.Recognize(ctx, in)
		out = append(out, res)
	}
	return out, nil
}

func TestRecognizePagesSequential(t *testing.T) {
	eng := &recordingEngine{}
	pages := []Page{testPage(t, 0, bitmap.BGR), testPage(t, 1, bitmap.BGRx)}
	results, err := RecognizePages(context.Background(), eng, pages)
	if err != nil {
		t.Fatalf("RecognizePages() error = %v", err)
	}
	if len(results) != 2 || results[1].InputID != "page-1" || results[1].PageIndex != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if len(eng.ids) != 2 {
		t.Fatalf("engine called %d times", len(eng.ids))
	}
}

func TestRecognizePagesBatch(t *testing.T) {
	eng := &batchEngine{}
	pages := []Page{testPage(t, 0, bitmap.BGRA), testPage(t, 1, bitmap.BGRA), testPage(t, 2, bitmap.BGRA)}
	results, err := RecognizePages(context.Background(), eng, pages, WithLanguages("eng"))
	if err != nil {
		t.Fatalf("RecognizePages() error = %v", err)
	}
	if eng.batches != 1 || len(results) != 3 {
		t.Fatalf("expected one batch of 3, got %d batches, %d results", eng.batches, len(results))
	}
	for i, r := range results {
		if r.PageIndex != i {
			t.Fatalf("result %d has page index %d", i, r.PageIndex)
		}
	}
}

type shortBatchEngine struct{ recordingEngine }

func (e *shortBatchEngine) RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error) {
	return []Result{{InputID: inputs[0].ID}}, nil
}

func TestRecognizePagesBatchResultCount(t *testing.T) {
	pages := []Page{testPage(t, 0, bitmap.BGR), testPage(t, 1, bitmap.BGR)}
	_, err := RecognizePages(context.Background(), &shortBatchEngine{}, pages)
	if !errors.Is(err, ErrResultCount) {
		t.Fatalf("expected ErrResultCount, got %v", err)
	}
}

func TestRecognizePagesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RecognizePages(ctx, &recordingEngine{}, []Page{testPage(t, 0, bitmap.BGR)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRecognizePagesBadBitmap(t *testing.T) {
	bad := Page{Index: 4, Bitmap: &bitmap.Bitmap{Width: 2, Height: 2, Stride: 6, Format: bitmap.BGR}}
	_, err := RecognizePages(context.Background(), &recordingEngine{}, []Page{bad})
	if !errors.Is(err, bitmap.ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestDefaultEngine(t *testing.T) {
	prev := DefaultEngine()
	defer SetDefaultEngine(prev)

	eng := &recordingEngine{}
	SetDefaultEngine(eng)
	if _, err := DefaultRecognizePages(context.Background(), []Page{testPage(t, 0, bitmap.BGR)}); err != nil {
		t.Fatalf("DefaultRecognizePages() error = %v", err)
	}
	if len(eng.ids) != 1 {
		t.Fatalf("default engine not used")
	}

	SetDefaultEngine(nil)
	if name := DefaultEngine().Name(); name != "noop" {
		t.Fatalf("nil engine should restore noop, got %q", name)
	}
}
