package query

import "testing"

func TestDefaultTable_Loads(t *testing.T) {
	tbl := DefaultTable()
	if tbl.Version != 1 {
		t.Errorf("version = %d", tbl.Version)
	}
	if len(tbl.Artists) != 4 || len(tbl.Themes) != 2 {
		t.Errorf("artists=%d themes=%d", len(tbl.Artists), len(tbl.Themes))
	}
}

func TestTable_IsSensitive(t *testing.T) {
	tbl := DefaultTable()
	tests := []struct {
		texts []string
		want  bool
	}{
		{[]string{"Nude figures"}, true},
		{[]string{"landscapes", "naked truth"}, true},
		{[]string{"landscapes", "windmills"}, false},
		{nil, false},
	}
	for _, tc := range tests {
		if got := tbl.IsSensitive(tc.texts...); got != tc.want {
			t.Errorf("IsSensitive(%v) = %v, want %v", tc.texts, got, tc.want)
		}
	}
}

func TestTable_Messages(t *testing.T) {
	tbl := DefaultTable()

	want := `I couldn't find any artworks matching "windmills". Please try a different search term or browse our collection with a broader query.`
	if got := tbl.NoResultsMessage("windmills"); got != want {
		t.Errorf("no results:\ngot:  %q\nwant: %q", got, want)
	}

	want = `Here are some artworks related to "tulips" from the Rijksmuseum collection.`
	if got := tbl.NarrationFallback("tulips"); got != want {
		t.Errorf("narration fallback:\ngot:  %q\nwant: %q", got, want)
	}

	if tbl.SensitiveMessage() == "" {
		t.Error("sensitive message is empty")
	}
}

func TestParseTable_Errors(t *testing.T) {
	msgs := "messages:\n  sensitive: s\n  no_results: n\n  narration_fallback: f\n"
	tests := []struct {
		name string
		yaml string
	}{
		{"theme without terms", "themes:\n  - name: x\n    keywords: [a]\n" + msgs},
		{"artist without keywords", "artists:\n  - name: x\n" + msgs},
		{"bad generic pattern", "generic_artist:\n  pattern: '('\n" + msgs},
		{"pattern without group", "generic_artist:\n  pattern: 'by \\w+'\n" + msgs},
		{"missing messages", "version: 1\n"},
		{"bad yaml", "themes: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTable([]byte(tc.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseTable_LowercasesKeywords(t *testing.T) {
	tbl, err := ParseTable([]byte(`
artists:
  - name: Jan Steen
    keywords: ["Jan STEEN"]
messages:
  sensitive: s
  no_results: n
  narration_fallback: f
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewNormalizer(tbl)
	if got := n.Normalize("a merry family by jan steen").Directive().ArtistFilter(); got != "Jan Steen" {
		t.Errorf("artist filter = %q", got)
	}
}
