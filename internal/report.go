package internal

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
	MaxDepth:                10,
}

// Entry is the outcome of checking a single observation.
type Entry struct {
	ID      uint64
	Label   string
	Before  any
	After   any
	Changed bool
}

func (e Entry) name() string {
	if e.Label == "" {
		return fmt.Sprintf("#%d", e.ID)
	}
	return fmt.Sprintf("#%d %s", e.ID, e.Label)
}

// Report holds every entry of a checked batch, in submission order.
type Report struct {
	Policy  Policy
	Entries []Entry
}

func (r *Report) ChangedCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.Changed {
			n++
		}
	}
	return n
}

// Changed returns the ids of the entries whose value changed.
func (r *Report) Changed() []uint64 {
	ids := make([]uint64, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Changed {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Satisfied reports whether the batch notified under the report's policy.
func (r *Report) Satisfied() bool {
	changed := r.ChangedCount()

	switch r.Policy {
	case PolicyAll:
		return changed == len(r.Entries)
	default:
		return changed > 0
	}
}

func (r *Report) Summary() string {
	switch r.Policy {
	case PolicyAll:
		return fmt.Sprintf("expected every observed value to change, %d of %d did", r.ChangedCount(), len(r.Entries))
	default:
		return fmt.Sprintf("expected at least one observed value to change, %d of %d did", r.ChangedCount(), len(r.Entries))
	}
}

// String renders every entry. Unchanged entries show their value, changed entries show a diff.
func (r *Report) String() string {
	var buf strings.Builder

	buf.WriteString(r.Summary())
	buf.WriteString("\n")

	for _, e := range r.Entries {
		if !e.Changed {
			fmt.Fprintf(&buf, "  %s: unchanged\n", e.name())
			writeIndented(&buf, spewConfig.Sdump(e.Before), "    ")
			continue
		}

		fmt.Fprintf(&buf, "  %s: changed\n", e.name())
		writeIndented(&buf, diff(e.Before, e.After), "    ")
	}

	return buf.String()
}

func diff(before, after any) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(spewConfig.Sdump(before)),
		B:        difflib.SplitLines(spewConfig.Sdump(after)),
		FromFile: "baseline",
		ToFile:   "current",
		Context:  1,
	})
	if err != nil {
		return fmt.Sprintf("baseline: %#v\ncurrent: %#v\n", before, after)
	}
	return text
}

func writeIndented(buf *strings.Builder, text, indent string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		buf.WriteString(indent)
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}
