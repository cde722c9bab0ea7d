package internal

import (
	"fmt"
	"strings"
)

// Policy decides when a checked batch counts as notified.
type Policy int

const (
	// PolicyAtLeastOne is satisfied when any token in the batch changed.
	PolicyAtLeastOne Policy = iota
	// PolicyAll is satisfied only when every token in the batch changed.
	PolicyAll
)

func (p Policy) String() string {
	switch p {
	case PolicyAll:
		return "all"
	default:
		return "at-least-one"
	}
}

func ParsePolicy(raw string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "at-least-one", "any", "some":
		return PolicyAtLeastOne, nil
	case "all", "every":
		return PolicyAll, nil
	default:
		return PolicyAtLeastOne, fmt.Errorf("stagewatch: unknown policy %q", raw)
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
