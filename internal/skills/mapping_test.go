package skills

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/google/uuid"
)

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []string
	}{
		{"null column", nil, []string{}},
		{"empty array", []byte(`[]`), []string{}},
		{"values", []byte(`["population", "commerce"]`), []string{"population", "commerce"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			if err := decodeList(tt.data, &got); err != nil {
				t.Fatalf("decodeList(%s) error = %v", tt.data, err)
			}
			if got == nil {
				t.Fatal("decodeList produced nil, want a slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("decodeList(%s) = %v, want %v", tt.data, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEncodeList(t *testing.T) {
	data, err := encodeList(nil)
	if err != nil {
		t.Fatalf("encodeList(nil) error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("encodeList(nil) = %s, want []", data)
	}

	data, err = encodeList([]string{"economy"})
	if err != nil {
		t.Fatalf("encodeList() error = %v", err)
	}
	if string(data) != `["economy"]` {
		t.Errorf("encodeList() = %s, want [\"economy\"]", data)
	}
}

func TestEncodeForm(t *testing.T) {
	if got := encodeForm(nil); string(got) != "{}" {
		t.Errorf("encodeForm(nil) = %s, want {}", got)
	}

	form := json.RawMessage(`{"fields": []}`)
	if got := encodeForm(form); string(got) != `{"fields": []}` {
		t.Errorf("encodeForm() = %s, want passthrough", got)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	parentID := uuid.New()
	values := url.Values{
		"parent_id": {parentID.String()},
		"name":      {"人口"},
		"active":    {"true"},
	}

	f := FiltersFromQuery(values)
	if f.ParentID == nil || *f.ParentID != parentID {
		t.Errorf("ParentID = %v, want %s", f.ParentID, parentID)
	}
	if f.Name == nil || *f.Name != "人口" {
		t.Errorf("Name = %v, want 人口", f.Name)
	}
	if f.Active == nil || !*f.Active {
		t.Errorf("Active = %v, want true", f.Active)
	}
}

func TestFiltersFromQueryIgnoresInvalid(t *testing.T) {
	f := FiltersFromQuery(url.Values{
		"parent_id": {"not-a-uuid"},
		"active":    {"maybe"},
	})
	if f.ParentID != nil {
		t.Errorf("ParentID = %v, want nil for malformed uuid", f.ParentID)
	}
	if f.Active != nil {
		t.Errorf("Active = %v, want nil for malformed bool", f.Active)
	}
}
