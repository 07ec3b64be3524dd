// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"sync"

	"passport/internal/passport/sources"
)

// Outcomes tallies concurrent calls by source error category. Successful
// calls are counted under Succeeded, not in ByCategory.
type Outcomes struct {
	Succeeded  int
	ByCategory map[sources.ErrorCategory]int
}

func (o Outcomes) Total() int {
	n := o.Succeeded
	for _, c := range o.ByCategory {
		n += c
	}
	return n
}

// RunConcurrent calls fn from n goroutines at once and waits for all of them.
func RunConcurrent(ctx context.Context, n int, fn func(ctx context.Context, idx int) error) Outcomes {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		start = make(chan struct{})
		out   = Outcomes{ByCategory: make(map[sources.ErrorCategory]int)}
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := fn(ctx, i)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				out.Succeeded++
				return
			}
			out.ByCategory[sources.CategoryOf(err)]++
		}()
	}
	close(start)
	wg.Wait()
	return out
}
