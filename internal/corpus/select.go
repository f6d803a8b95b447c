package corpus

// DefaultMaxPerSource bounds how many passages from one (book, author) source
// may enter a selection.
const DefaultMaxPerSource = 2

// SelectDiverse reduces a ranked candidate list to a bounded, source-diverse
// working set. Candidates are walked in the given relevance order; a
// candidate is admitted only while its source has been seen fewer than
// maxPerSource times, and the walk stops once maxItems are admitted. The
// relative order of admitted passages is preserved; no re-ranking happens
// here. This keeps one prolific source from crowding out the requested
// opinion diversity.
func SelectDiverse(candidates []Passage, maxItems, maxPerSource int) []Passage {
	if maxItems < 1 || maxPerSource < 1 {
		return nil
	}

	var selected []Passage
	countBySource := make(map[string]int)

	for _, p := range candidates {
		key := p.SourceKey()
		if countBySource[key] >= maxPerSource {
			continue
		}
		countBySource[key]++
		selected = append(selected, p)
		if len(selected) >= maxItems {
			break
		}
	}

	return selected
}
