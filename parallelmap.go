package mzdata

import (
	"io"
	"sync"

	"github.com/msspeclib/mzdata/spectrum"
)

// ParallelMap is a bounded-worker-pool adapter that consumes a sequential
// SpectrumSource, applies a pure transform to each spectrum across
// Workers goroutines, and re-serializes results in index order before
// they reach the caller (SPEC_FULL.md §5's "Optional parallelism" /
// §9's "an async variant ... Backpressure is implicit" / §11). It lives
// outside the single-threaded core by design: the core's own readers and
// writers are not safe for concurrent calls on one receiver.
//
// Grounded on the worker-pool-plus-WaitGroup pattern the retrieval pack
// uses for concurrent decode pipelines (e.g. madpsy-ka9q_ubersdr's
// decoder goroutines), generalized here into a fixed worker count reading
// from one input channel and writing results into per-slot output
// channels so ordering survives the fan-out.
type ParallelMap struct {
	src     SpectrumSource
	workers int
	fn      func(*spectrum.Spectrum) (*spectrum.Spectrum, error)
}

// NewParallelMap returns a ParallelMap with the given worker count
// (clamped to at least 1) applying fn to every spectrum src yields.
func NewParallelMap(src SpectrumSource, workers int, fn func(*spectrum.Spectrum) (*spectrum.Spectrum, error)) *ParallelMap {
	if workers < 1 {
		workers = 1
	}
	return &ParallelMap{src: src, workers: workers, fn: fn}
}

type parallelMapJob struct {
	order int
	spec  *spectrum.Spectrum
}

type parallelMapResult struct {
	order int
	spec  *spectrum.Spectrum
	err   error
}

// Run drains src to completion, applying fn across p.workers goroutines,
// and invokes emit once per spectrum in ascending index order. Run
// returns the first error fn or src.Next reported, after draining any
// in-flight work.
func (p *ParallelMap) Run(emit func(*spectrum.Spectrum) error) error {
	jobs := make(chan parallelMapJob, p.workers)
	results := make(chan parallelMapResult, p.workers)

	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				out, err := p.fn(job.spec)
				results <- parallelMapResult{order: job.order, spec: out, err: err}
			}
		}()
	}

	var feedErr error
	go func() {
		defer close(jobs)
		order := 0
		for {
			sp, err := p.src.Next()
			if err != nil {
				if err != io.EOF {
					feedErr = err
				}
				return
			}
			jobs <- parallelMapJob{order: order, spec: sp}
			order++
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]*spectrum.Spectrum)
	next := 0
	var firstErr error
	for res := range results {
		if res.err != nil && firstErr == nil {
			firstErr = res.err
			continue
		}
		pending[res.order] = res.spec
		for {
			sp, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if firstErr == nil {
				if err := emit(sp); err != nil && firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return feedErr
}
