package pool

import (
	"io"
	"runtime"
	"sync"
)

// task is a single evaluation handed to the next idle worker.
type task struct {
	run  func()
	done chan<- struct{}
}

// worker runs tasks until the pool is torn down.
func worker(tasks <-chan task) {
	for t := range tasks {
		t.run()
		t.done <- struct{}{}
	}
}

// Pool represents a pool of workers, used for parallelizing independent curve
// operations such as batch verification.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
type Pool struct {
	// The common channel used to send tasks to the workers.
	//
	// This effectively makes a work stealing pool.
	tasks chan task
	// This holds the number of workers we've created
	workerCount int
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		tasks:       make(chan task),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go worker(p.tasks)
	}
	return p
}

// TearDown stops the workers. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p != nil {
		close(p.tasks)
	}
}

// Workers returns the number of goroutines evaluating tasks, 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workerCount
}

// Parallelize calls f count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
func Parallelize[T any](p *Pool, count int, f func(int) T) []T {
	results := make([]T, count)
	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	done := make(chan struct{}, count)
	for i := 0; i < count; i++ {
		i := i
		p.tasks <- task{
			run:  func() { results[i] = f(i) },
			done: done,
		}
	}
	for i := 0; i < count; i++ {
		<-done
	}
	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// Key generation and nonce sampling may share one randomness source across
// goroutines through this type.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader.
//
// When called concurrently, which caller receives which bytes is raced, but no
// two callers read the same bytes.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
