package prompt

import "strings"

// NeutralDescriptor is used whenever a policy has no more specific styling.
const NeutralDescriptor = "professional"

// StylePolicy picks the appearance descriptor for a specialist's name.
type StylePolicy interface {
	Descriptor(name string) string
}

// NeutralPolicy always returns NeutralDescriptor.
type NeutralPolicy struct{}

// Descriptor implements StylePolicy.
func (NeutralPolicy) Descriptor(string) string {
	return NeutralDescriptor
}

// NameFragmentPolicy returns Match when the name contains any of Fragments
// (case-sensitive substring match) and Default otherwise. An empty Default
// falls back to NeutralDescriptor.
type NameFragmentPolicy struct {
	Fragments []string
	Match     string
	Default   string
}

// Descriptor implements StylePolicy.
func (p NameFragmentPolicy) Descriptor(name string) string {
	for _, fragment := range p.Fragments {
		if fragment != "" && strings.Contains(name, fragment) {
			return p.Match
		}
	}
	if p.Default == "" {
		return NeutralDescriptor
	}
	return p.Default
}

// DefaultStylePolicy returns the stock name-fragment heuristic. The fragment
// list is kept only as a replaceable default, not as a statement of who looks
// like what.
func DefaultStylePolicy() NameFragmentPolicy {
	return NameFragmentPolicy{
		Fragments: []string{
			"Dr.", "Priya", "Sharma", "Ananya", "Reddy", "Ravi", "Patel", "Neha", "Gupta",
			"Sneha", "Joshi", "Meera", "Krishnan", "Leela", "Menon", "Kumar", "Singh", "Bhatia",
		},
		Match:   "South Asian Indian",
		Default: NeutralDescriptor,
	}
}
