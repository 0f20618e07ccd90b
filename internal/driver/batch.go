package driver

import (
	"context"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"exprua/internal/diag"
	"exprua/internal/symbols"
	"exprua/internal/trace"
	"exprua/internal/units"
)

// BatchInput is one file of expressions, evaluated line by line in a single
// session.
type BatchInput struct {
	Name   string
	Source string
}

// LineResult holds the outcome of one evaluated line.
type LineResult struct {
	Line   int    // 1-based line number in the input
	Source string // line text without the terminator
	Value  units.Value
	Result string // formatted Value, empty on error
	Err    error
}

// BatchResult collects the lines of one input. Bag holds one diagnostic per
// failed line, with Origin "<name>:<line>".
type BatchResult struct {
	Name    string
	Lines   []LineResult
	Bag     *diag.Bag
	Symbols *symbols.Table
}

// Failed reports whether any line failed.
func (r *BatchResult) Failed() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// BatchStatus is the progress state of one batch input.
type BatchStatus uint8

const (
	BatchQueued BatchStatus = iota
	BatchRunning
	BatchDone
	BatchFailed
)

func (s BatchStatus) String() string {
	switch s {
	case BatchQueued:
		return "queued"
	case BatchRunning:
		return "running"
	case BatchDone:
		return "done"
	case BatchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BatchEvent reports progress of one input. Lines is the number of lines
// to evaluate, Done how many of them have finished.
type BatchEvent struct {
	Name   string
	Status BatchStatus
	Done   int
	Lines  int
	Errors int
}

// BatchOptions configures RunBatch.
type BatchOptions struct {
	Session Options
	Jobs    int // <= 0 means GOMAXPROCS
	// Events receives progress; RunBatch never closes it.
	Events chan<- BatchEvent
}

// RunBatch evaluates every input in its own session, up to Jobs inputs at a
// time. Lines run in order within an input; blank and comment-only lines
// are skipped. A failing line does not stop its input. The returned error
// is only set for setup failures or cancellation.
func RunBatch(ctx context.Context, inputs []BatchInput, bopts BatchOptions) ([]BatchResult, error) {
	results := make([]BatchResult, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}
	jobs := bopts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	opts := bopts.Session
	emit := func(ev BatchEvent) {
		if bopts.Events == nil {
			return
		}
		select {
		case bopts.Events <- ev:
		case <-ctx.Done():
		}
	}
	for _, in := range inputs {
		emit(BatchEvent{Name: in.Name, Status: BatchQueued, Lines: len(evalLines(in.Source))})
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	batch := trace.Begin(tracer, trace.ScopeSession, "batch", trace.ParentFromContext(ctx)).
		WithExtra("inputs", strconv.Itoa(len(inputs)))
	defer batch.End("")

	// Timer не потокобезопасен: в воркерах отключаем
	workerOpts := opts
	workerOpts.Timer = nil
	workerOpts.Observer = nil
	workerOpts.Tracer = tracer
	workerOpts.Parent = batch.ID()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))

	for i := range inputs {
		g.Go(func() error {
			// индексы уникальны для каждой горутины, мьютекс не нужен
			res, err := runInput(gctx, inputs[i], workerOpts, emit)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type sourceLine struct {
	n    int
	text string
}

// evalLines returns the lines RunBatch evaluates: blank and '#' lines are
// dropped, CR before LF is trimmed.
func evalLines(src string) []sourceLine {
	var out []sourceLine
	for n, line := range strings.Split(src, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, sourceLine{n: n + 1, text: line})
	}
	return out
}

func runInput(ctx context.Context, in BatchInput, opts Options, emit func(BatchEvent)) (BatchResult, error) {
	s, err := NewSession(opts)
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Name: in.Name, Bag: diag.NewBag(0), Symbols: s.Table()}

	lines := evalLines(in.Source)
	ev := BatchEvent{Name: in.Name, Status: BatchRunning, Lines: len(lines)}
	emit(ev)
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return BatchResult{}, err
		}
		lr := LineResult{Line: line.n, Source: line.text}
		lr.Value, lr.Err = s.ParseAndEvaluate(line.text)
		if lr.Err != nil {
			res.Bag.Add(diag.FromError(lr.Err).WithOrigin(in.Name + ":" + strconv.Itoa(lr.Line)))
			ev.Errors++
		} else {
			lr.Result = s.Format(lr.Value)
		}
		res.Lines = append(res.Lines, lr)
		ev.Done++
		emit(ev)
	}
	ev.Status = BatchDone
	if ev.Errors > 0 {
		ev.Status = BatchFailed
	}
	emit(ev)
	return res, nil
}
