package chat

import "regexp"

var mentionPattern = regexp.MustCompile(`@(\d+)`)

// ExtractPatientIDs scans every text part of every message, both roles, for
// @<digits> mentions and returns the distinct identifiers in first-seen
// order. Repeated mentions collapse to one entry, so re-running on the same
// history always yields the same result.
func ExtractPatientIDs(msgs []Message) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, m := range msgs {
		for _, p := range m.Parts {
			if !p.IsText() {
				continue
			}
			for _, match := range mentionPattern.FindAllStringSubmatch(p.Text, -1) {
				id := match[1]
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}
