package s57

import (
	"runtime"

	"github.com/alitto/pond"
	"github.com/golang/glog"

	"github.com/oceanic-charts/s57/pkg/catalog"
)

// Result is one buffer's outcome from ParseAll: either Data is populated
// or Err explains why that buffer could not be parsed. Index preserves
// the buffer's position in the input slice since results may complete
// out of order.
type Result struct {
	Index int
	Data  *ParsedData
	Err   error
}

// ParseAll parses every buffer concurrently on a fixed worker pool sized
// to the machine, per the core's single-threaded-per-parse contract:
// each buffer owns its own byte slice and warning collector for the
// duration of its parse, so no shared mutable state crosses goroutines.
// A failing buffer does not halt the others; its Result carries the
// error and a log line is emitted so a caller scanning only successes
// still has a record of what was skipped.
func ParseAll(buffers [][]byte, cat *catalog.Catalog, opts ...ParseOption) []Result {
	results := make([]Result, len(buffers))
	if len(buffers) == 0 {
		return results
	}

	n := runtime.NumCPU() * 2
	if n > len(buffers) {
		n = len(buffers)
	}
	pool := pond.New(n, 0, pond.MinWorkers(n))

	for i, buf := range buffers {
		i, buf := i, buf
		pool.Submit(func() {
			data, err := Parse(buf, cat, opts...)
			if err != nil {
				glog.Warningf("s57: parse failed for buffer %d: %v", i, err)
			}
			results[i] = Result{Index: i, Data: data, Err: err}
		})
	}

	pool.StopAndWait()
	return results
}
