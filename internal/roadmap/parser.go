package roadmap

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse converts roadmap text into a forest. Blank lines are dropped; every
// other line becomes a node whose parent is the nearest preceding node with a
// strictly lower level. Parse never fails: inconsistent markup only yields a
// flatter tree.
func Parse(text string) []*Node {
	root := &Node{ID: "root", Text: "root", Level: rootLevel, Children: []*Node{}}
	stack := []*Node{root}

	for i, line := range nonEmptyLines(text) {
		level := LineLevel(line)
		node := &Node{
			ID:       ItemID(i),
			Text:     StripMarker(strings.TrimSpace(line)),
			Level:    level,
			Children: []*Node{},
		}

		// Equal levels close the open node, so they become siblings.
		for len(stack) > 1 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}

	return root.Children
}

// ItemID returns the node id for the i-th non-blank line.
func ItemID(i int) string {
	return "item-" + strconv.Itoa(i)
}

// LineLevel classifies a raw (untrimmed) line.
//
//	"# "  -> 0     "## " -> 1     "### " -> 2     "#### " -> 3
//	"- " or "* " -> 4
//	anything else -> 4 + leading whitespace / 2 (rounded down)
func LineLevel(line string) int {
	trimmed := strings.TrimSpace(line)

	if n := countPrefix(trimmed, '#'); n >= 1 && n <= 4 && spaceAt(trimmed, n) {
		return n - 1
	}
	if len(trimmed) > 0 && (trimmed[0] == '-' || trimmed[0] == '*') && spaceAt(trimmed, 1) {
		return ListLevel
	}
	return ListLevel + leadingSpace(line)/2
}

// StripMarker removes a leading run of '#' or a single '-' / '*', together
// with the whitespace that follows it. The rest of the line is untouched.
func StripMarker(trimmed string) string {
	switch {
	case strings.HasPrefix(trimmed, "#"):
		trimmed = strings.TrimLeft(trimmed, "#")
	case strings.HasPrefix(trimmed, "-"), strings.HasPrefix(trimmed, "*"):
		trimmed = trimmed[1:]
	default:
		return trimmed
	}
	return strings.TrimLeftFunc(trimmed, unicode.IsSpace)
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func countPrefix(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// spaceAt reports whether s has a whitespace rune at byte offset i.
func spaceAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsSpace(r)
}

func leadingSpace(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}
