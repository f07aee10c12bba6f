// Package diff provides unified diff generation for --diff mode.
package diff

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

type opKind int

const (
	opEqual opKind = iota
	opInsert
	opDelete
)

type op struct {
	kind   opKind
	oldIdx int // -1 for inserts.
	newIdx int // -1 for deletes.
}

// Unified generates a unified diff between oldText and newText, labeled with
// filename. It returns an empty string when the inputs are identical.
func Unified(filename, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	a := splitKeepEnds(oldText)
	b := splitKeepEnds(newText)
	ops := shortestEdit(a, b)

	// Regions closer than their combined context are already merged, so the
	// hunks below never overlap.
	var hunks [][]op
	for _, r := range changedRegions(ops) {
		start := max(r[0]-contextLines, 0)
		end := min(r[1]+contextLines, len(ops)-1)
		hunks = append(hunks, ops[start:end+1])
	}
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", filename, filename)
	for _, h := range hunks {
		writeHunk(&sb, h, a, b)
	}
	return sb.String()
}

func splitKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// shortestEdit computes a minimal edit script with the Myers algorithm.
func shortestEdit(a, b []string) []op {
	n, m := len(a), len(b)
	total := n + m
	if total == 0 {
		return nil
	}

	v := make([]int, 2*total+1)
	trace := make([][]int, 0, total+1)

	for d := 0; d <= total; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[k-1+total] < v[k+1+total]) {
				x = v[k+1+total]
			} else {
				x = v[k-1+total] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[k+total] = x
			if x >= n && y >= m {
				return backtrack(trace, a, b, d, total)
			}
		}
	}
	return nil
}

func backtrack(trace [][]int, a, b []string, d, total int) []op {
	x, y := len(a), len(b)
	var ops []op

	for step := d; step > 0; step-- {
		v := trace[step]
		k := x - y

		prevK := k - 1
		if k == -step || (k != step && v[k-1+total] < v[k+1+total]) {
			prevK = k + 1
		}
		prevX := v[prevK+total]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, op{opEqual, x, y})
		}
		if prevK == k+1 {
			y--
			ops = append(ops, op{opInsert, -1, y})
		} else {
			x--
			ops = append(ops, op{opDelete, x, -1})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		ops = append(ops, op{opEqual, x, y})
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

// changedRegions returns [start, end] index pairs of contiguous non-equal ops.
func changedRegions(ops []op) [][2]int {
	var regions [][2]int
	for i, o := range ops {
		if o.kind == opEqual {
			continue
		}
		if n := len(regions); n > 0 && i <= regions[n-1][1]+2*contextLines+1 {
			regions[n-1][1] = i
		} else {
			regions = append(regions, [2]int{i, i})
		}
	}
	return regions
}

func writeHunk(sb *strings.Builder, h []op, a, b []string) {
	oldStart, newStart := 0, 0
	for _, o := range h {
		if o.oldIdx >= 0 {
			oldStart = o.oldIdx
			break
		}
	}
	for _, o := range h {
		if o.newIdx >= 0 {
			newStart = o.newIdx
			break
		}
	}

	oldCount, newCount := 0, 0
	for _, o := range h {
		switch o.kind {
		case opEqual:
			oldCount++
			newCount++
		case opDelete:
			oldCount++
		case opInsert:
			newCount++
		}
	}

	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart+1, oldCount, newStart+1, newCount)
	for _, o := range h {
		switch o.kind {
		case opEqual:
			sb.WriteByte(' ')
			sb.WriteString(withNewline(a[o.oldIdx]))
		case opDelete:
			sb.WriteByte('-')
			sb.WriteString(withNewline(a[o.oldIdx]))
		case opInsert:
			sb.WriteByte('+')
			sb.WriteString(withNewline(b[o.newIdx]))
		}
	}
}

func withNewline(line string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + "\n"
}
