package match

import (
	"strings"

	"github.com/paulmach/orb"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
)

// Strategy selects the search used to find an existing canonical point.
type Strategy int

const (
	// Linear scans every canonical point in insertion order.
	Linear Strategy = iota
	// SortedOneSided binary-searches the leftmost equal x and scans right.
	SortedOneSided
	// SortedTwoSided binary-searches any equal x and scans in both directions.
	SortedTwoSided
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = SortedTwoSided

var strategyNames = map[Strategy]string{
	Linear:         "linear",
	SortedOneSided: "sorted-one-sided",
	SortedTwoSided: "sorted-two-sided",
}

// strategyAliases accepts the names used by the original command-line tool.
var strategyAliases = map[string]Strategy{
	"linear":            Linear,
	"sorted-one-sided":  SortedOneSided,
	"sorted-two-sided":  SortedTwoSided,
	"n_square":          Linear,
	"dichotomy_1_sided": SortedOneSided,
	"dichotomy_2_sided": SortedTwoSided,
}

// Strategies returns every defined strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{Linear, SortedOneSided, SortedTwoSided}
}

// String returns the canonical strategy name.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s is one of the defined strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// Indexed reports whether the strategy needs an x-sorted store.
func (s Strategy) Indexed() bool {
	return s == SortedOneSided || s == SortedTwoSided
}

// ParseStrategy resolves a strategy by name. Names are case-insensitive.
// It returns an UNKNOWN_MERGE_STRATEGY error for anything else.
func ParseStrategy(name string) (Strategy, error) {
	if s, ok := strategyAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return 0, errs.New(errs.ErrCodeUnknownMergeStrategy,
		"unknown merge strategy %q (must be linear, sorted-one-sided or sorted-two-sided)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errs.New(errs.ErrCodeUnknownMergeStrategy, "unknown merge strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so strategies can be
// decoded directly from configuration files.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Matcher finds or inserts canonical points using a fixed strategy.
// The zero value is not usable; create one with New.
type Matcher struct {
	strategy    Strategy
	store       *Store
	comparisons int
}

// New creates a matcher with an empty store suited to the strategy.
// It returns an UNKNOWN_MERGE_STRATEGY error if s is not defined.
func New(s Strategy) (*Matcher, error) {
	if !s.Valid() {
		return nil, errs.New(errs.ErrCodeUnknownMergeStrategy, "unknown merge strategy %d", int(s))
	}
	return &Matcher{strategy: s, store: NewStore(s.Indexed())}, nil
}

// Strategy returns the matcher's strategy.
func (m *Matcher) Strategy() Strategy { return m.strategy }

// Store returns the canonical point store.
func (m *Matcher) Store() *Store { return m.store }

// Comparisons returns the number of stored points examined so far.
func (m *Matcher) Comparisons() int { return m.comparisons }

// Find returns the handle of the canonical point equal to p, if any.
func (m *Matcher) Find(p orb.Point) (int, bool) {
	switch m.strategy {
	case SortedOneSided:
		return m.findOneSided(p)
	case SortedTwoSided:
		return m.findTwoSided(p)
	default:
		return m.findLinear(p)
	}
}

// FindOrInsert returns the handle of the canonical point equal to p,
// inserting p as a new canonical point when none exists. The second result
// reports whether an insert happened.
func (m *Matcher) FindOrInsert(p orb.Point) (int, bool) {
	if h, ok := m.Find(p); ok {
		return h, false
	}
	return m.store.insert(p), true
}

func (m *Matcher) findLinear(p orb.Point) (int, bool) {
	for h, q := range m.store.points {
		m.comparisons++
		if Equal(p, q) {
			return h, true
		}
	}
	return 0, false
}

func (m *Matcher) findOneSided(p orb.Point) (int, bool) {
	s := m.store
	for i := s.lowerBound(orderKey(p[0])); i < len(s.sorted); i++ {
		h := s.sorted[i]
		q := s.points[h]
		m.comparisons++
		if !same(p[0], q[0]) {
			break
		}
		if same(p[1], q[1]) {
			return h, true
		}
	}
	return 0, false
}

func (m *Matcher) findTwoSided(p orb.Point) (int, bool) {
	s := m.store
	pos, ok := s.land(orderKey(p[0]))
	if !ok {
		return 0, false
	}

	// check reports whether sorted position i is still inside the x-equal
	// run and whether its point also matches y.
	check := func(i int) (inRun, hit bool) {
		if i < 0 || i >= len(s.sorted) {
			return false, false
		}
		q := s.points[s.sorted[i]]
		m.comparisons++
		if !same(p[0], q[0]) {
			return false, false
		}
		return true, same(p[1], q[1])
	}

	if _, hit := check(pos); hit {
		return s.sorted[pos], true
	}
	left, right := true, true
	for d := 1; left || right; d++ {
		if left {
			var hit bool
			if left, hit = check(pos - d); hit {
				return s.sorted[pos-d], true
			}
		}
		if right {
			var hit bool
			if right, hit = check(pos + d); hit {
				return s.sorted[pos+d], true
			}
		}
	}
	return 0, false
}
