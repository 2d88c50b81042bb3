package runner

import "context"

// Future is a pipeline invocation running on its own goroutine.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// Go invokes the pipeline on a new goroutine and returns immediately.
func (p Pipeline) Go(ctx context.Context, input any) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = p(ctx, input)
	}()
	return f
}

// Done is closed when the pipeline has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the pipeline finishes or ctx is done. Giving up on a
// Future does not stop the pipeline.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the pipeline's output and error. It blocks until the
// pipeline finishes.
func (f *Future) Result() (any, error) {
	<-f.done
	return f.value, f.err
}
