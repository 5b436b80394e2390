// Package app carries the small runtime helpers shared by the engine.
package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates wall time per named scope and integer counters.
// A scope may be entered many times; durations add up.
type Profiler struct {
	Scopes     map[string]time.Duration
	Calls      map[string]int
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		Calls:      make(map[string]int),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
	}
}

func (p *Profiler) BeginScope(name string) {
	if _, seen := p.Calls[name]; !seen {
		p.Order = append(p.Order, name)
		p.Calls[name] = 0
	}
	p.StartTimes[name] = time.Now()
}

func (p *Profiler) EndScope(name string) {
	start, ok := p.StartTimes[name]
	if !ok {
		return
	}
	delete(p.StartTimes, name)
	p.Scopes[name] += time.Since(start)
	p.Calls[name]++
}

// Time runs fn inside the named scope.
func (p *Profiler) Time(name string, fn func()) {
	p.BeginScope(name)
	defer p.EndScope(name)
	fn()
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) AddCount(name string, delta int) {
	p.Counts[name] += delta
}

func (p *Profiler) Total(name string) time.Duration {
	return p.Scopes[name]
}

func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
		p.Calls[k] = 0
	}
	for k := range p.Counts {
		delete(p.Counts, k)
	}
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings:\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-15s: %.3f ms (%d calls)\n", name, ms, p.Calls[name])
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-15s: %d\n", k, p.Counts[k])
	}

	return sb.String()
}
