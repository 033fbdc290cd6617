package cluster

import "testing"

func TestNewWidth(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"a", 1},
		{"沐", 2},
		{" ", 1},
	}
	for _, c := range cases {
		if got := New(c.text).Width(); got != c.want {
			t.Errorf("New(%q).Width() = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestParseRejectsZeroOrMultiple(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Error("Parse(\"\") expected error")
	}
	if _, err := Parse("ab"); err == nil {
		t.Error("Parse(\"ab\") expected error for multiple clusters")
	}
	g, err := Parse("沐")
	if err != nil {
		t.Fatalf("Parse(沐) unexpected error: %v", err)
	}
	if g.Width() != 2 {
		t.Errorf("Parse(沐).Width() = %d, want 2", g.Width())
	}
}

func TestSegment(t *testing.T) {
	got := Segment("test")
	if len(got) != 4 {
		t.Fatalf("Segment(\"test\") produced %d clusters, want 4", len(got))
	}
	for i, want := range []string{"t", "e", "s", "t"} {
		if got[i].String() != want {
			t.Errorf("cluster %d = %q, want %q", i, got[i].String(), want)
		}
	}
}

func TestSegmentWide(t *testing.T) {
	got := Segment("沐沐")
	if len(got) != 2 {
		t.Fatalf("Segment produced %d clusters, want 2", len(got))
	}
	for _, g := range got {
		if g.Width() != 2 {
			t.Errorf("got width %d, want 2", g.Width())
		}
	}
}

func TestEmptyAndZeroWidth(t *testing.T) {
	if !Empty.IsEmpty() {
		t.Error("Empty.IsEmpty() = false")
	}
	if Empty.IsZeroWidth() {
		t.Error("Empty.IsZeroWidth() = true, want false (Empty has no text)")
	}
}

func TestMergeWith(t *testing.T) {
	base := New("e")
	combining := New("́") // combining acute accent, zero width
	if combining.Width() != 0 {
		t.Fatalf("combining mark width = %d, want 0", combining.Width())
	}
	merged := base.MergeWith(combining)
	if merged.Width() != 1 {
		t.Errorf("merged width = %d, want 1", merged.Width())
	}
	if merged.String() != "é" {
		t.Errorf("merged text = %q", merged.String())
	}
}
