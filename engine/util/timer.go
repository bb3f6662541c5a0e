package util

import (
	"fmt"
	"strings"
	"time"
)

// SectionStats accumulates the durations measured for one named section.
type SectionStats struct {
	Name  string
	Last  time.Duration
	Total time.Duration
	Count int64
	Min   time.Duration
	Max   time.Duration
}

func (s *SectionStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s *SectionStats) String() string {
	return fmt.Sprintf("%s last: %s, avg: %s, min: %s, max: %s (%d runs)", s.Name, s.Last, s.Average(), s.Min, s.Max, s.Count)
}

func (s *SectionStats) add(d time.Duration) {
	s.Last = d
	s.Total += d
	s.Count++
	if s.Count == 1 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
}

// Timer measures named sections of a loop, e.g. the upload and draw of each frame.
// Sections are reported in the order they were first started.
type Timer struct {
	sections map[string]*SectionStats
	order    []string
	now      func() time.Time
}

func NewTimer() *Timer {
	return &Timer{
		sections: make(map[string]*SectionStats),
		now:      time.Now,
	}
}

// Stats returns nil for a section that never ran.
func (t *Timer) Stats(name string) *SectionStats {
	return t.sections[name]
}

func (t *Timer) Reset() {
	for _, s := range t.sections {
		*s = SectionStats{Name: s.Name}
	}
}

// Start begins measuring name. Call the returned func to stop; it returns the measured duration.
func (t *Timer) Start(name string) func() time.Duration {
	s, ok := t.sections[name]
	if !ok {
		s = &SectionStats{Name: name}
		t.sections[name] = s
		t.order = append(t.order, name)
	}
	start := t.now()
	return func() time.Duration {
		d := t.now().Sub(start)
		s.add(d)
		return d
	}
}

func (t *Timer) String() string {
	var b strings.Builder
	for _, name := range t.order {
		b.WriteString(t.sections[name].String())
		b.WriteString("\n")
	}
	return b.String()
}
