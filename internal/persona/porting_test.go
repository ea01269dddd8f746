// File path: internal/persona/porting_test.go
package persona

import (
	"encoding/json"
	"testing"
)

func TestImportRegeneratesIDs(t *testing.T) {
	data := []byte(`[
		{"id": "old-1", "name": "Alex", "role": "host"},
		{"id": "old-2", "name": "Sam", "role": "guest"}
	]`)
	personas, skipped, err := Import(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skips, got %d", skipped)
	}
	if len(personas) != 2 {
		t.Fatalf("expected 2 personas, got %d", len(personas))
	}
	for _, p := range personas {
		if p.ID == "" || p.ID == "old-1" || p.ID == "old-2" {
			t.Fatalf("expected a regenerated id, got %q", p.ID)
		}
	}
	if personas[0].ID == personas[1].ID {
		t.Fatalf("imported personas share an id: %q", personas[0].ID)
	}
}

func TestImportSkipsIncompleteEntries(t *testing.T) {
	data := []byte(`[
		{"name": "Alex", "role": "host"},
		{"name": "NoRole"},
		{"role": "orphan role"},
		{"name": "Sam", "role": "guest"}
	]`)
	personas, skipped, err := Import(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped entries, got %d", skipped)
	}
	if len(personas) != 2 {
		t.Fatalf("expected 2 accepted personas, got %d", len(personas))
	}
	if personas[0].Name != "Alex" || personas[1].Name != "Sam" {
		t.Fatalf("unexpected accepted names: %q, %q", personas[0].Name, personas[1].Name)
	}
}

func TestImportDefaultsNestedFields(t *testing.T) {
	data := []byte(`[{"name": "Alex", "role": "host"}]`)
	personas, _, err := Import(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := personas[0]
	if p.PersonalityTraits == nil {
		t.Fatal("expected personalityTraits to be defaulted")
	}
	if p.SourceDocuments == nil {
		t.Fatal("expected sourceDocuments to be defaulted")
	}
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	if _, _, err := Import([]byte(`{"not": "a list"}`)); err == nil {
		t.Fatal("expected decode error for a non-array payload")
	}
}

func TestExportRoundTrip(t *testing.T) {
	personas := []Persona{
		Normalize(Persona{ID: "p1", Name: "Alex", Role: "host"}),
	}
	data, err := Export(personas)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []Persona
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported payload is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "Alex" {
		t.Fatalf("unexpected round trip: %+v", decoded)
	}
}

func TestExportNilList(t *testing.T) {
	data, err := Export(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty array, got %q", string(data))
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		p       Persona
		wantErr bool
	}{
		{Persona{Name: "Alex", Role: "host"}, false},
		{Persona{Name: "", Role: "host"}, true},
		{Persona{Name: "  ", Role: "host"}, true},
		{Persona{Name: "Alex", Role: ""}, true},
	}
	for i, tc := range cases {
		err := Validate(tc.p)
		if (err != nil) != tc.wantErr {
			t.Fatalf("case %d: got err=%v, wantErr=%v", i, err, tc.wantErr)
		}
	}
}
