// Package chunk splits raw document text into bounded-size segments,
// respecting natural boundaries where possible so that semantic units
// are broken as little as necessary.
package chunk

import "strings"

// DefaultMaxChars is the soft cap applied when no size is configured.
const DefaultMaxChars = 1200

// Split segments text into chunks of at most maxChars characters each,
// best effort. Boundaries are tried in priority order: blank lines
// (paragraphs), single newlines (lines), ". " (sentences), then hard
// fixed-size slicing. A single atomic unit with none of these boundaries
// and no room to spare becomes an oversized chunk by itself.
//
// Split is deterministic and pure.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	units := refine(text, maxChars)

	// Re-accumulate refined units into chunks separated by blank lines.
	var chunks []string
	var current strings.Builder

	for _, u := range units {
		// +2 accounts for the separator added back between units
		if current.Len()+len(u)+2 >= maxChars {
			if c := strings.TrimSpace(current.String()); c != "" {
				chunks = append(chunks, c)
			}
			current.Reset()
		}
		current.WriteString(u)
		current.WriteString("\n\n")
	}

	if c := strings.TrimSpace(current.String()); c != "" {
		chunks = append(chunks, c)
	}

	return chunks
}

// refine breaks text into atomic units no larger than maxChars where a
// natural boundary exists. Only over-length units are split further.
func refine(text string, maxChars int) []string {
	var units []string

	for _, p := range strings.Split(text, "\n\n") {
		if len(p) <= maxChars {
			units = append(units, p)
			continue
		}

		for _, line := range strings.Split(p, "\n") {
			if len(line) <= maxChars {
				units = append(units, line)
				continue
			}

			sentences := strings.Split(line, ". ")
			for i, sent := range sentences {
				// Restore the period consumed by the split on all but the
				// final fragment.
				if i != len(sentences)-1 {
					sent += "."
				}

				if len(sent) <= maxChars {
					units = append(units, sent)
					continue
				}

				// No boundary left: hard-split at maxChars.
				for start := 0; start < len(sent); start += maxChars {
					end := start + maxChars
					if end > len(sent) {
						end = len(sent)
					}
					units = append(units, sent[start:end])
				}
			}
		}
	}

	return units
}
