package pipeline

import "github.com/ReDian-Labs/redian-harvester/internal/domain"

// SourceGroup collects the accepted entries of one source for the external
// reporter.
type SourceGroup struct {
	Name    string
	Entries map[string]*GroupEntry // keyed by title
	Titles  []string               // title insertion order
}

// GroupEntry aggregates the occurrences of one title within a source.
type GroupEntry struct {
	URL   string
	Ranks []int
}

// GroupBySource converts accepted items into the per-source structure the
// reporter consumes. Source keys are namespaced with a "custom:" prefix so
// they never collide with built-in platform ids. Items without a rank get
// sequential ranks in arrival order.
func GroupBySource(items []Matched) map[string]*SourceGroup {
	groups := make(map[string]*SourceGroup)

	for _, m := range items {
		item := m.Item
		if item.Title == "" {
			continue
		}

		sid := "custom:" + item.SourceKey
		group, ok := groups[sid]
		if !ok {
			group = &SourceGroup{
				Name:    item.Source,
				Entries: make(map[string]*GroupEntry),
			}
			if group.Name == "" {
				group.Name = sid
			}
			groups[sid] = group
		}

		entry, ok := group.Entries[item.Title]
		if !ok {
			entry = &GroupEntry{URL: item.URL}
			group.Entries[item.Title] = entry
			group.Titles = append(group.Titles, item.Title)
		}
		if entry.URL == "" {
			entry.URL = item.URL
		}

		rank := item.Rank
		if rank <= 0 {
			rank = len(entry.Ranks) + 1
		}
		entry.Ranks = append(entry.Ranks, rank)
	}

	return groups
}

// Failures splits reports into failure-grade and informational sets for the
// external logger.
func Failures(reports []domain.FailureReport) (failures, infos []domain.FailureReport) {
	for _, r := range reports {
		if r.Informational() {
			infos = append(infos, r)
			continue
		}
		failures = append(failures, r)
	}
	return failures, infos
}
