package deps

import "testing"

func TestApplyEdits(t *testing.T) {
	src := []byte("useEffect(f, [a, b]);")

	tests := []struct {
		name    string
		edits   []TextEdit
		want    string
		skipped int
	}{
		{"none", nil, "useEffect(f, [a, b]);", 0},
		{"replace", []TextEdit{{Start: 13, End: 19, NewText: "[a]"}}, "useEffect(f, [a]);", 0},
		{
			"identical edits collapse",
			[]TextEdit{{Start: 13, End: 19, NewText: "[a]"}, {Start: 13, End: 19, NewText: "[a]"}},
			"useEffect(f, [a]);", 0,
		},
		{
			"overlap is dropped",
			[]TextEdit{{Start: 13, End: 19, NewText: "[a]"}, {Start: 14, End: 15, NewText: "c"}},
			"useEffect(f, [a]);", 1,
		},
		{
			"unsorted inserts",
			[]TextEdit{{Start: 11, End: 11, NewText: ")"}, {Start: 10, End: 10, NewText: "useCallback("}},
			"useEffect(useCallback(f), [a, b]);", 0,
		},
		{"out of range", []TextEdit{{Start: 5, End: 99, NewText: "x"}}, "useEffect(f, [a, b]);", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped := ApplyEdits(src, tt.edits)
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if skipped != tt.skipped {
				t.Errorf("skipped = %d, want %d", skipped, tt.skipped)
			}
		})
	}
}

func TestCollectEdits(t *testing.T) {
	fix := &Fix{Edits: []TextEdit{{Start: 1, End: 2, NewText: "x"}}}
	edits := CollectEdits([]Diagnostic{{Fix: fix}, {}, {Fix: fix}})
	if len(edits) != 2 {
		t.Fatalf("got %d edits, want 2", len(edits))
	}
}
