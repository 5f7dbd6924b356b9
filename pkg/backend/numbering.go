package backend

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texgen/pkg/ast"
)

// SectionNumbers resolves the "#" components of heading numbers into
// running counters. Backends create one per run; Enter must be called
// for sections in document order.
type SectionNumbers struct {
	counters []int
	rendered string
	auto     bool
}

// Enter processes the number of sec and updates the counters.
func (s *SectionNumbers) Enter(sec *ast.Section) {
	components := strings.Split(sec.Number, ".")
	if len(s.counters) > len(components) {
		s.counters = s.counters[:len(components)]
	}
	for len(s.counters) < len(components) {
		s.counters = append(s.counters, 0)
	}

	s.auto = true
	last := len(components) - 1
	resolved := make([]string, len(components))
	for i, c := range components {
		if c == "#" {
			if i == last {
				s.counters[i]++
			}
		} else {
			s.auto = false
			fmt.Sscanf(c, "%d", &s.counters[i])
		}
		resolved[i] = fmt.Sprintf("%d", s.counters[i])
	}
	s.rendered = strings.Join(resolved, ".") + "."
}

// Current returns the resolved number of the last entered section,
// including the trailing dot.
func (s *SectionNumbers) Current() string { return s.rendered }

// Auto reports whether the last entered number consisted only of "#"
// components, meaning the author delegated numbering entirely.
func (s *SectionNumbers) Auto() bool { return s.auto }
