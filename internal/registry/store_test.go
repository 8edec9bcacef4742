package registry

import (
	"strings"
	"testing"
)

func TestAddMergesByName(t *testing.T) {
	s := NewStore()
	s.Add(Company{Name: "台積電", Industry: "半導體", ReportYears: []int{2022}})
	s.Add(Company{Name: "台積電", NameEnglish: "TSMC", ReportYears: []int{2023, 2022}})

	if s.Len() != 1 {
		t.Fatalf("expected merged record, got %d", s.Len())
	}
	got := s.Lookup("tsmc", 1)
	if len(got) != 1 {
		t.Fatalf("lookup by english name failed")
	}
	if len(got[0].ReportYears) != 2 || got[0].ReportYears[0] != 2022 {
		t.Fatalf("years not merged sorted: %v", got[0].ReportYears)
	}
}

func TestLookupRanksShorterNamesFirst(t *testing.T) {
	s := NewStore()
	s.Add(Company{Name: "中鋼構", Industry: "鋼鐵"})
	s.Add(Company{Name: "中鋼", Industry: "鋼鐵"})

	got := s.Lookup("中鋼", 2)
	if len(got) != 2 || got[0].Name != "中鋼" {
		t.Fatalf("unexpected ranking: %+v", got)
	}
}

func TestDescribe(t *testing.T) {
	line := Describe(Company{Name: "中鋼", NameEnglish: "CSC", Industry: "鋼鐵", ReportYears: []int{2023}})
	for _, want := range []string{"中鋼", "CSC", "鋼鐵", "2023"} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %q in %q", want, line)
		}
	}
}
