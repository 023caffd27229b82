package core

import (
	"reflect"
	"testing"
)

func entries(kinds map[string]SecretKind) map[string]DesiredEntry {
	out := map[string]DesiredEntry{}
	for name, kind := range kinds {
		out[name] = DesiredEntry{Name: name, Kind: kind}
	}
	return out
}

func writeNames(diff Diff) []string {
	var names []string
	for _, write := range diff.ToWrite {
		names = append(names, write.Entry.Name)
	}
	return names
}

func TestComputeDiffEmptyActual(t *testing.T) {
	diff := ComputeDiff(entries(map[string]SecretKind{"a": KindUUID, "b": KindULID}), &ActualState{})
	if got := writeNames(diff); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected a and b to be written, got %v", got)
	}
	for _, write := range diff.ToWrite {
		if write.Status != EntryMissing {
			t.Fatalf("expected missing status, got %+v", write)
		}
		if write.Hash != HashKind(write.Entry.Kind) {
			t.Fatalf("expected hash of kind for %s", write.Entry.Name)
		}
	}
	if len(diff.ToRemove) != 0 || len(diff.Unchanged) != 0 {
		t.Fatalf("unexpected diff %+v", diff)
	}
}

func TestComputeDiffNilActual(t *testing.T) {
	diff := ComputeDiff(entries(map[string]SecretKind{"a": KindUUID}), nil)
	if got := writeNames(diff); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("expected a to be written, got %v", got)
	}
}

func TestComputeDiffPartitions(t *testing.T) {
	actual := &ActualState{
		Tags: map[string]string{
			"same":    HashKind(KindUUID),
			"changed": HashKind(KindUUID),
			"gone":    HashKind(KindULID),
		},
		Values: map[string][]byte{
			"same":    []byte("v1"),
			"changed": []byte("v2"),
			"gone":    []byte("v3"),
		},
	}
	desired := entries(map[string]SecretKind{"same": KindUUID, "changed": KindULID, "new": KindUUID})

	diff := ComputeDiff(desired, actual)

	if !reflect.DeepEqual(diff.ToRemove, []string{"gone"}) {
		t.Fatalf("expected gone to be removed, got %v", diff.ToRemove)
	}
	if !reflect.DeepEqual(diff.Unchanged, []string{"same"}) {
		t.Fatalf("expected same to be unchanged, got %v", diff.Unchanged)
	}
	if got := writeNames(diff); !reflect.DeepEqual(got, []string{"changed", "new"}) {
		t.Fatalf("expected changed and new to be written, got %v", got)
	}
	if diff.ToWrite[0].Status != EntryOutdated || diff.ToWrite[1].Status != EntryMissing {
		t.Fatalf("unexpected statuses %+v", diff.ToWrite)
	}
}

func TestComputeDiffMatchingEntriesExcluded(t *testing.T) {
	actual := &ActualState{
		Tags:   map[string]string{"a": HashKind(KindUUID), "b": HashKind(KindULID)},
		Values: map[string][]byte{"a": []byte("x"), "b": []byte("y")},
	}
	diff := ComputeDiff(entries(map[string]SecretKind{"a": KindUUID, "b": KindULID}), actual)
	if !diff.Empty() {
		t.Fatalf("expected empty diff, got %+v", diff)
	}
	if !reflect.DeepEqual(diff.Unchanged, []string{"a", "b"}) {
		t.Fatalf("expected both unchanged, got %v", diff.Unchanged)
	}
}

func TestComputeDiffTagWithoutValueIsMissing(t *testing.T) {
	actual := &ActualState{
		Tags:   map[string]string{"a": HashKind(KindUUID)},
		Values: map[string][]byte{},
	}
	diff := ComputeDiff(entries(map[string]SecretKind{"a": KindUUID}), actual)
	if len(diff.ToWrite) != 1 || diff.ToWrite[0].Status != EntryMissing {
		t.Fatalf("expected a to be regenerated, got %+v", diff)
	}
}

func TestComputeDiffFillsEntryName(t *testing.T) {
	diff := ComputeDiff(map[string]DesiredEntry{"a": {Kind: KindUUID}}, nil)
	if diff.ToWrite[0].Entry.Name != "a" {
		t.Fatalf("expected entry name from map key, got %+v", diff.ToWrite[0])
	}
}

func TestEntryStatusOf(t *testing.T) {
	actual := &ActualState{
		Tags:   map[string]string{"a": HashKind(KindUUID)},
		Values: map[string][]byte{"a": []byte("x")},
	}
	cases := []struct {
		name  string
		entry DesiredEntry
		want  EntryStatus
	}{{
		name:  "matches",
		entry: DesiredEntry{Name: "a", Kind: KindUUID},
		want:  EntryMatches,
	}, {
		name:  "outdated",
		entry: DesiredEntry{Name: "a", Kind: KindULID},
		want:  EntryOutdated,
	}, {
		name:  "missing",
		entry: DesiredEntry{Name: "b", Kind: KindUUID},
		want:  EntryMissing,
	}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EntryStatusOf(tc.entry, actual); got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestComputeDiffReportsForeignDataKeyAsConflict(t *testing.T) {
	actual := &ActualState{
		Tags:    map[string]string{"b": HashKind(KindUUID)},
		Values:  map[string][]byte{"b": []byte("v")},
		Foreign: map[string]struct{}{"a": {}, "unrelated": {}},
	}

	diff := ComputeDiff(entries(map[string]SecretKind{"a": KindUUID, "b": KindUUID}), actual)

	if !reflect.DeepEqual(diff.Conflicts, []string{"a"}) {
		t.Fatalf("expected a to conflict, got %v", diff.Conflicts)
	}
	if len(diff.ToWrite) != 0 || len(diff.ToRemove) != 0 {
		t.Fatalf("foreign keys must never be written or removed, got %+v", diff)
	}
	if !reflect.DeepEqual(diff.Unchanged, []string{"b"}) {
		t.Fatalf("expected b unchanged, got %v", diff.Unchanged)
	}
}
