package core

import "sort"

// EntryStatus describes how a desired entry compares to the stored one.
type EntryStatus string

const (
	// EntryMissing means no managed tag or value exists for the entry.
	EntryMissing EntryStatus = "Missing"
	// EntryOutdated means the stored tag was produced for a different kind.
	EntryOutdated EntryStatus = "Outdated"
	// EntryMatches means the stored tag matches the desired kind.
	EntryMatches EntryStatus = "Matches"
)

// PlannedWrite is a desired entry that needs a freshly generated value.
type PlannedWrite struct {
	Entry  DesiredEntry
	Status EntryStatus
	Hash   string
}

// Diff partitions the work for one reconcile into disjoint, name-sorted sets.
// Conflicts are declared entries whose data key is already held by a foreign writer.
type Diff struct {
	ToRemove  []string
	ToWrite   []PlannedWrite
	Unchanged []string
	Conflicts []string
}

// Empty reports whether applying the diff would leave the state untouched.
func (diff Diff) Empty() bool {
	return len(diff.ToRemove) == 0 && len(diff.ToWrite) == 0
}

// EntryStatusOf compares a desired entry against the stored tag and value.
// A tag without a value is treated as missing so tags and values never drift apart.
func EntryStatusOf(entry DesiredEntry, actual *ActualState) EntryStatus {
	if actual == nil {
		return EntryMissing
	}
	hash, tagged := actual.Tags[entry.Name]
	if !tagged {
		return EntryMissing
	}
	if _, stored := actual.Values[entry.Name]; !stored {
		return EntryMissing
	}
	if hash != HashKind(entry.Kind) {
		return EntryOutdated
	}
	return EntryMatches
}

// ComputeDiff compares desired entries with the managed part of the actual state.
// Only managed entries are ever candidates for removal; foreign keys never reach ActualState.
func ComputeDiff(desired map[string]DesiredEntry, actual *ActualState) Diff {
	diff := Diff{}

	if actual != nil {
		managed := map[string]struct{}{}
		for name := range actual.Tags {
			managed[name] = struct{}{}
		}
		for name := range actual.Values {
			managed[name] = struct{}{}
		}
		for name := range managed {
			if _, wanted := desired[name]; !wanted {
				diff.ToRemove = append(diff.ToRemove, name)
			}
		}
	}

	for name, entry := range desired {
		if entry.Name == "" {
			entry.Name = name
		}
		status := EntryStatusOf(entry, actual)
		if status == EntryMatches {
			diff.Unchanged = append(diff.Unchanged, name)
			continue
		}
		if status == EntryMissing && actual != nil {
			if _, held := actual.Foreign[name]; held {
				diff.Conflicts = append(diff.Conflicts, name)
				continue
			}
		}
		diff.ToWrite = append(diff.ToWrite, PlannedWrite{Entry: entry, Status: status, Hash: HashKind(entry.Kind)})
	}

	sort.Strings(diff.ToRemove)
	sort.Strings(diff.Unchanged)
	sort.Strings(diff.Conflicts)
	sort.Slice(diff.ToWrite, func(i, j int) bool { return diff.ToWrite[i].Entry.Name < diff.ToWrite[j].Entry.Name })
	return diff
}
