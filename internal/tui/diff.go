package tui

import (
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retrodesk/internal/config"
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
	diffHunk // elided lines; text names the YAML section that follows
)

type diffLine struct {
	kind diffKind
	text string
}

// maxDiffCells bounds the LCS table; larger inputs are shown as a full
// replacement.
const maxDiffCells = 1 << 20

// computeDiffLines diffs the YAML form of two configs, keeping two lines of
// context around each change. Identical configs give nil.
func computeDiffLines(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	before, err := yaml.Marshal(original)
	if err != nil {
		return nil
	}
	after, err := yaml.Marshal(current)
	if err != nil {
		return nil
	}
	a := strings.Split(strings.TrimSpace(string(before)), "\n")
	b := strings.Split(strings.TrimSpace(string(after)), "\n")
	if slices.Equal(a, b) {
		return nil
	}
	return filterDiffContext(lineDiff(a, b), 2)
}

// lineDiff returns a full line diff of a and b with removals ordered before
// additions inside each changed run.
func lineDiff(a, b []string) []diffLine {
	m, n := len(a), len(b)
	if m*n > maxDiffCells {
		out := make([]diffLine, 0, m+n)
		for _, l := range a {
			out = append(out, diffLine{kind: diffRemoved, text: l})
		}
		for _, l := range b {
			out = append(out, diffLine{kind: diffAdded, text: l})
		}
		return out
	}

	// lcs[i][j] is the common subsequence length of a[:i] and b[:j].
	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				lcs[i][j] = lcs[i-1][j-1] + 1
			} else {
				lcs[i][j] = max(lcs[i-1][j], lcs[i][j-1])
			}
		}
	}

	// Walk back from the end; the result is reversed at the end.
	var rev []diffLine
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			rev = append(rev, diffLine{kind: diffContext, text: a[i-1]})
			i--
			j--
		case lcs[i][j-1] >= lcs[i-1][j]:
			rev = append(rev, diffLine{kind: diffAdded, text: b[j-1]})
			j--
		default:
			rev = append(rev, diffLine{kind: diffRemoved, text: a[i-1]})
			i--
		}
	}
	for ; j > 0; j-- {
		rev = append(rev, diffLine{kind: diffAdded, text: b[j-1]})
	}
	for ; i > 0; i-- {
		rev = append(rev, diffLine{kind: diffRemoved, text: a[i-1]})
	}
	slices.Reverse(rev)
	return rev
}

// topLevelKey returns the key of an unindented "key:" line.
func topLevelKey(line string) (string, bool) {
	if line == "" || line[0] == ' ' || line[0] == '-' {
		return "", false
	}
	key, _, ok := strings.Cut(line, ":")
	return key, ok
}

// filterDiffContext keeps changed lines plus ctx lines around them. Each
// elided run becomes a hunk marker naming the section of the next kept line.
// With no changes it returns nil.
func filterDiffContext(lines []diffLine, ctx int) []diffLine {
	keep := make([]bool, len(lines))
	changed := false
	for i, l := range lines {
		if l.kind == diffContext {
			continue
		}
		changed = true
		for k := max(0, i-ctx); k <= min(len(lines)-1, i+ctx); k++ {
			keep[k] = true
		}
	}
	if !changed {
		return nil
	}

	var out []diffLine
	section := ""
	skipped := false
	for i, l := range lines {
		if l.kind != diffAdded {
			if key, ok := topLevelKey(l.text); ok {
				section = key
			}
		}
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			marker := "@@"
			if section != "" {
				marker = "@@ " + section + " @@"
			}
			out = append(out, diffLine{kind: diffHunk, text: marker})
			skipped = false
		}
		out = append(out, l)
	}
	return out
}
