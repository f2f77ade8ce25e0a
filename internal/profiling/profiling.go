// Package profiling accumulates named wall-clock durations over a reporting
// window, usually one frame or one second of frames.
package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Frame collects durations for one reporting window. It is safe for concurrent use, so
// mesh workers and the render thread can report into the same frame.
type Frame struct {
	mu     sync.Mutex
	totals map[string]time.Duration
}

func NewFrame() *Frame {
	return &Frame{totals: make(map[string]time.Duration)}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer frame.Track("renderer.Render")()
func (f *Frame) Track(name string) func() {
	start := time.Now()
	return func() {
		f.Add(name, time.Since(start))
	}
}

// Add records d under name.
func (f *Frame) Add(name string, d time.Duration) {
	f.mu.Lock()
	f.totals[name] += d
	f.mu.Unlock()
}

// Reset clears the totals. Call at the start of each window.
func (f *Frame) Reset() {
	f.mu.Lock()
	clear(f.totals)
	f.mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func (f *Frame) Snapshot() map[string]time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]time.Duration, len(f.totals))
	for k, v := range f.totals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every entry whose name starts with prefix.
func (f *Frame) SumWithPrefix(prefix string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum time.Duration
	for k, v := range f.totals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n largest totals, longest first, e.g.
// "renderer.Render:4.2ms, chunks.drain:2ms". Ties sort by name.
func (f *Frame) TopN(n int) string {
	ss := f.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = max(0, min(n, len(list)))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, p.name+":"+formatMs(p.dur))
	}
	return strings.Join(parts, ", ")
}

func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strings.TrimSuffix(fmt.Sprintf("%.1f", ms), ".0")
	return s + "ms"
}
