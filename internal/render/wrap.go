package render

import "strings"

// truncFallbackRunes is the prefix kept when a token never fits even after
// character-by-character truncation.
const truncFallbackRunes = 10

// Wrap splits text into at most maxLines display lines, each measuring at
// most maxWidth pixels under measure. The split is greedy and word-level;
// a single token wider than the budget is truncated with a "..." suffix.
// Tokens past the line cap are dropped. Empty input yields one empty line.
//
// Wrap is pure: same inputs, same output.
func Wrap(text string, maxWidth int, measure func(string) int, maxLines int) []string {
	if text == "" {
		return []string{""}
	}

	var lines []string
	var current []string

	for _, word := range strings.Fields(text) {
		test := word
		if len(current) > 0 {
			test = strings.Join(current, " ") + " " + word
		}

		if measure(test) <= maxWidth {
			current = append(current, word)
		} else if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
		} else {
			lines = append(lines, truncate(word, maxWidth, measure))
		}

		if len(lines) >= maxLines {
			break
		}
	}

	if len(current) > 0 && len(lines) < maxLines {
		lines = append(lines, strings.Join(current, " "))
	}
	if lines == nil {
		lines = []string{}
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

// truncate shortens an unbreakable token until "token..." fits, falling
// back to the first few characters when nothing fits at all.
func truncate(word string, maxWidth int, measure func(string) int) string {
	runes := []rune(word)
	for len(runes) > 0 {
		cand := string(runes) + "..."
		if measure(cand) <= maxWidth {
			return cand
		}
		runes = runes[:len(runes)-1]
	}

	head := []rune(word)
	if len(head) > truncFallbackRunes {
		head = head[:truncFallbackRunes]
	}
	return string(head) + "..."
}
