// Package resolver implements switch-label dispatch: an immutable index built
// once from the case labels of a call point, mapping runtime values to the
// position of the first label they match.
package resolver

import "fmt"

// Domain is the scalar kind a resolver matches against.
type Domain uint8

const (
	Integral   Domain = iota + 1 // integer labels, compared numerically
	Textual                      // string labels, hashed then compared
	Enumerated                   // constant names of an enumerated type
)

var domainNames = map[Domain]string{
	Integral:   "integral",
	Textual:    "textual",
	Enumerated: "enumerated",
}

func (d Domain) String() string {
	if name, ok := domainNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Domain(%d)", uint8(d))
}

// ParseDomain converts a domain name ("integral", "textual", "enumerated")
// back into a Domain.
func ParseDomain(s string) (Domain, error) {
	for d, name := range domainNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown domain %q", s)
}
