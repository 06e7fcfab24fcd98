package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miku/orcidkit/dateutil"
	"github.com/miku/orcidkit/schema/researcher"
	"github.com/segmentio/encoding/json"
)

func TestRecordToProfile(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "record-*.input"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no test inputs found")
	}
	for _, path := range paths {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		t.Run(name, func(t *testing.T) {
			b, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			var doc any
			if err := json.Unmarshal(b, &doc); err != nil {
				t.Fatal(err)
			}
			id, _ := doc.(map[string]any)["orcid-identifier"].(map[string]any)["path"].(string)
			profile, err := RecordToProfile(doc, id)
			if err != nil {
				t.Fatal(err)
			}
			got, err := json.MarshalIndent(profile, "", "    ")
			if err != nil {
				t.Fatal(err)
			}
			goldenfile := filepath.Join("testdata", name+".golden")
			want, err := os.ReadFile(goldenfile)
			if err != nil {
				if os.IsNotExist(err) {
					if err := os.WriteFile(goldenfile, got, 0644); err != nil {
						t.Fatal(err)
					}
					t.Logf("created golden file: %s", goldenfile)
					return
				}
				t.Fatal(err)
			}
			compareJSONWithDiff(t, name, got, want)
		})
	}
}

func TestRecordToProfileNotAMapping(t *testing.T) {
	for _, doc := range []any{nil, []any{}, "x", float64(1)} {
		if _, err := RecordToProfile(doc, "0000-0002-1825-0097"); !errors.Is(err, ErrEmptyDoc) {
			t.Errorf("RecordToProfile(%v) got %v, want ErrEmptyDoc", doc, err)
		}
	}
}

func TestRecordToProfileEmpty(t *testing.T) {
	profile, err := RecordToProfile(map[string]any{}, "0000-0002-1825-0097")
	if err != nil {
		t.Fatal(err)
	}
	got, err := json.Marshal(profile)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
		"orcid": "0000-0002-1825-0097",
		"personal": {
			"orcid": "0000-0002-1825-0097",
			"name": {"given": null, "family": null, "credit": null, "pronunciation": null},
			"biography": null,
			"countries": [],
			"keywords": [],
			"external_ids": {},
			"websites": [],
			"emails": [],
			"addresses": [],
			"other_names": []
		},
		"employment": [],
		"education": [],
		"works": [],
		"funding": [],
		"metrics": {"works_count": 0, "citation_count": 0},
		"last_modified": null,
		"works_fingerprint": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"raw_data": null
	}`
	compareJSONWithDiff(t, "empty", got, []byte(want))
}

func TestExternalIDs(t *testing.T) {
	var cases = []struct {
		about   string
		entries []any
		want    map[string]*string
	}{
		{"empty", []any{}, map[string]*string{}},
		{
			"last write wins",
			[]any{
				map[string]any{"external-id-type": "A", "external-id-value": "1"},
				map[string]any{"external-id-type": "A", "external-id-value": "2"},
			},
			map[string]*string{"A": ptr("2")},
		},
		{
			"missing value is null, missing type is dropped",
			[]any{
				map[string]any{"external-id-type": "doi"},
				map[string]any{"external-id-value": "orphan"},
				"not a mapping",
			},
			map[string]*string{"doi": nil},
		},
	}
	for _, c := range cases {
		t.Run(c.about, func(t *testing.T) {
			if diff := cmp.Diff(c.want, ExternalIDs(c.entries)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAffiliations(t *testing.T) {
	entries := []any{
		map[string]any{
			"organization": map[string]any{"name": "Acme"},
			"start-date":   map[string]any{"year": map[string]any{"value": "2010"}},
		},
		"skipped",
		nil,
	}
	got := Affiliations(entries)
	if len(got) != 1 {
		t.Fatalf("got %d affiliations, want 1", len(got))
	}
	a := got[0]
	if a.Organization == nil || *a.Organization != "Acme" {
		t.Errorf("organization got %v, want Acme", a.Organization)
	}
	if a.EndDate != dateutil.Unknown {
		t.Errorf("end date got %q, want %q", a.EndDate, dateutil.Unknown)
	}
	if a.StartDate != "2010-01-01" {
		t.Errorf("start date got %q", a.StartDate)
	}
	if a.Department != nil || a.Role != nil || a.URL != nil || a.Location.City != nil {
		t.Errorf("expected absent optional fields, got %+v", a)
	}
}

func TestAffiliationSummaries(t *testing.T) {
	grouped := map[string]any{
		"activities-summary": map[string]any{
			"employments": map[string]any{
				"affiliation-group": []any{
					map[string]any{"summaries": []any{
						map[string]any{"employment-summary": map[string]any{"role-title": "A"}},
						map[string]any{"employment-summary": map[string]any{"role-title": "B"}},
					}},
					map[string]any{"summaries": []any{}},
					"junk",
				},
			},
		},
	}
	if got := AffiliationSummaries(grouped, "employments", "employment-summary"); len(got) != 2 {
		t.Errorf("grouped: got %d summaries, want 2", len(got))
	}
	flat := map[string]any{
		"activities-summary": map[string]any{
			"employments": map[string]any{
				"employment-summary": []any{map[string]any{"role-title": "C"}},
				"affiliation-group":  []any{map[string]any{"summaries": []any{map[string]any{"employment-summary": map[string]any{}}}}},
			},
		},
	}
	if got := AffiliationSummaries(flat, "employments", "employment-summary"); len(got) != 1 {
		t.Errorf("flat: got %d summaries, want 1", len(got))
	}
	if got := AffiliationSummaries(nil, "educations", "education-summary"); got == nil || len(got) != 0 {
		t.Errorf("nil doc: want empty non-nil slice, got %#v", got)
	}
}

func TestWorksFirstSummaryOnly(t *testing.T) {
	groups := []any{
		map[string]any{"work-summary": []any{
			map[string]any{"title": map[string]any{"title": map[string]any{"value": "preferred"}}},
			map[string]any{"title": map[string]any{"title": map[string]any{"value": "other source"}}},
		}},
		map[string]any{"work-summary": []any{}},
		map[string]any{"work-summary": map[string]any{"title": "not a list"}},
		map[string]any{},
		"not a group",
		map[string]any{"work-summary": []any{"not a mapping"}},
	}
	got := Works(groups)
	if len(got) != 1 {
		t.Fatalf("got %d works, want 1", len(got))
	}
	if got[0].Title == nil || *got[0].Title != "preferred" {
		t.Errorf("title got %v, want preferred", got[0].Title)
	}
	if got[0].PublicationDate != dateutil.Unknown {
		t.Errorf("publication date got %q", got[0].PublicationDate)
	}
	if got[0].Contributors == nil || got[0].ExternalIDs == nil {
		t.Errorf("want empty collections, got %+v", got[0])
	}
}

func TestContributors(t *testing.T) {
	entries := []any{
		map[string]any{
			"credit-name":            map[string]any{"value": "A"},
			"contributor-attributes": map[string]any{"contributor-role": "author"},
			"contributor-role":       "ignored",
		},
		map[string]any{"contributor-role": "editor", "contributor-orcid": map[string]any{"path": "0000-0002-1825-0097"}},
		map[string]any{},
	}
	want := []researcher.Contributor{
		{Name: ptr("A"), Role: ptr("author")},
		{Role: ptr("editor"), ORCID: ptr("0000-0002-1825-0097")},
		{},
	}
	if diff := cmp.Diff(want, Contributors(entries)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFundings(t *testing.T) {
	groups := []any{
		map[string]any{"funding-summary": []any{
			map[string]any{
				"amount":     map[string]any{"value": float64(2500), "currency-code": "EUR"},
				"start-date": map[string]any{"year": map[string]any{"value": "2020"}, "month": map[string]any{"value": "6"}},
			},
			map[string]any{"type": "SECOND"},
		}},
		map[string]any{"funding-summary": []any{}},
	}
	want := []researcher.Funding{{
		Amount: researcher.Amount{Value: ptr("2500"), Currency: ptr("EUR")},
		Dates:  researcher.DateRange{Start: "2020-06-01", End: dateutil.Unknown},
	}}
	if diff := cmp.Diff(want, Fundings(groups)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMetrics(t *testing.T) {
	var cases = []struct {
		about string
		doc   any
		want  researcher.Metrics
	}{
		{"nil", nil, researcher.Metrics{}},
		{"no citations", works(map[string]any{"total": float64(4)}), researcher.Metrics{WorksCount: 4}},
		{
			"sums over sources",
			works(map[string]any{"total": float64(2), "citation": map[string]any{
				"a": map[string]any{"citation-count": float64(3)},
				"b": map[string]any{"citation-count": float64(4)},
				"c": map[string]any{},
				"d": "broken",
			}}),
			researcher.Metrics{WorksCount: 2, CitationCount: 7},
		},
		{
			"never negative",
			works(map[string]any{"total": float64(-5), "citation": map[string]any{
				"a": map[string]any{"citation-count": float64(-3)},
				"b": map[string]any{"citation-count": float64(1)},
			}}),
			researcher.Metrics{WorksCount: 0, CitationCount: 1},
		},
		{"citation not a mapping", works(map[string]any{"citation": []any{float64(1)}}), researcher.Metrics{}},
	}
	for _, c := range cases {
		t.Run(c.about, func(t *testing.T) {
			if got := Metrics(c.doc); got != c.want {
				t.Errorf("got %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestWorksFingerprint(t *testing.T) {
	a := researcher.Work{ExternalIDs: map[string]*string{"doi": ptr("https://doi.org/10.1234/ABC")}}
	b := researcher.Work{Title: ptr("Some  Title!")}
	c := researcher.Work{}
	fp1 := WorksFingerprint([]researcher.Work{a, b, c})
	fp2 := WorksFingerprint([]researcher.Work{b, a})
	if fp1 != fp2 {
		t.Errorf("fingerprint should not depend on order or keyless works")
	}
	if fp1 == WorksFingerprint([]researcher.Work{a}) {
		t.Errorf("fingerprint should change when a work is removed")
	}
	if got := WorkKey(a); got != "10.1234/abc" {
		t.Errorf("WorkKey got %q", got)
	}
	if got := WorkKey(b); got != "some title" {
		t.Errorf("WorkKey got %q", got)
	}
}

func TestNewWorks(t *testing.T) {
	old := []researcher.Work{{Title: ptr("Known")}}
	fresh := []researcher.Work{
		{Title: ptr("known")},
		{Title: ptr("Brand new")},
		{Title: ptr("Brand  New")},
		{},
	}
	got := NewWorks(old, fresh)
	if len(got) != 1 || *got[0].Title != "Brand new" {
		t.Errorf("got %+v", got)
	}
}

func TestCleanDOI(t *testing.T) {
	testCases := []struct {
		raw    string
		result string
	}{
		{"10.1234/asdf ", "10.1234/asdf"},
		{"10.1037//0002-9432.72.1.50", "10.1037/0002-9432.72.1.50"},
		{"10.1026//1616-1041.3.2.86", "10.1026//1616-1041.3.2.86"},
		{"10.23750/abm.v88i2 -s.6506", ""},
		{"http://doi.org/10.1234/asdf ", "10.1234/asdf"},
		{"https://dx.doi.org/10.1234/asdf ", "10.1234/asdf"},
		{"doi:10.1234/asdf ", "10.1234/asdf"},
		{"10.4149/gpb¬_2017042", ""},
		{"10.4025/diálogos.v17i2.36030", ""},
		{"10.7326/M20-6817", "10.7326/m20-6817"},
		{"", ""},
		{"not a doi", ""},
	}
	for _, tc := range testCases {
		if got := cleanDOI(tc.raw); got != tc.result {
			t.Errorf("cleanDOI(%q) want %s, but got %s", tc.raw, tc.result, got)
		}
	}
}

func works(w map[string]any) map[string]any {
	return map[string]any{"activities-summary": map[string]any{"works": w}}
}

func ptr(s string) *string { return &s }

// compareJSONWithDiff compares two JSON documents structurally.
func compareJSONWithDiff(t *testing.T, name string, got, want []byte) {
	t.Helper()
	var gotObj, wantObj interface{}
	if err := json.Unmarshal(got, &gotObj); err != nil {
		t.Fatalf("failed to unmarshal got JSON: %v", err)
	}
	if err := json.Unmarshal(want, &wantObj); err != nil {
		t.Fatalf("failed to unmarshal want JSON: %v", err)
	}
	if diff := cmp.Diff(wantObj, gotObj); diff != "" {
		t.Errorf("%s: JSON mismatch (-want +got):\n%s", name, diff)
	}
}
