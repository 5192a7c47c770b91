package inbox

import (
	"encoding/json"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
)

func TestClassify(t *testing.T) {
	a := plumbing.NewHash("1111111111111111111111111111111111111111")
	b := plumbing.NewHash("2222222222222222222222222222222222222222")
	zero := plumbing.ZeroHash

	tests := []struct {
		name     string
		old, new *plumbing.Hash
		want     UpdateKind
	}{
		{"updated", &a, &b, Updated},
		{"created", nil, &b, Created},
		{"deleted", &a, nil, Deleted},
		{"unchanged", &a, &a, Skipped},
		{"absent", nil, nil, Absent},
		{"zero old is absent", &zero, &b, Created},
		{"zero both is absent", &zero, &zero, Absent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("refs/cobs/x/y", tt.old, tt.new)
			if got.Kind != tt.want {
				t.Errorf("Classify() kind = %s, want %s", got.Kind, tt.want)
			}
		})
	}
}

func TestClassify_CarriesHashes(t *testing.T) {
	a := plumbing.NewHash("1111111111111111111111111111111111111111")
	b := plumbing.NewHash("2222222222222222222222222222222222222222")

	u := Classify("r", &a, &b)
	if u.Old != a || u.New != b || u.Name != "r" {
		t.Errorf("Classify() = %+v", u)
	}
	if d := Classify("r", &a, nil); d.Old != a || !d.New.IsZero() {
		t.Errorf("deleted = %+v", d)
	}
}

func TestParseUpdate(t *testing.T) {
	old := "1111111111111111111111111111111111111111"
	bad := "not-a-hash"

	if got := ParseUpdate("r", &old, &bad).Kind; got != Deleted {
		t.Errorf("malformed new: kind = %s, want deleted", got)
	}
	if got := ParseUpdate("r", nil, &old).Kind; got != Created {
		t.Errorf("kind = %s, want created", got)
	}
}

func TestRefUpdate_MarshalJSON(t *testing.T) {
	b := plumbing.NewHash("2222222222222222222222222222222222222222")
	data, err := json.Marshal(Classify("refs/cobs/t/i", nil, &b))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"created","name":"refs/cobs/t/i","new":"2222222222222222222222222222222222222222"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestParseKind(t *testing.T) {
	id := "0123456789abcdef0123456789abcdef01234567"

	k, err := ParseKind("refs/cobs/xyz.radicle.patch/" + id)
	if err != nil || k.COB == nil || !k.COB.IsPatch() || k.COB.ID.String() != id {
		t.Fatalf("ParseKind(patch) = %+v, %v", k, err)
	}

	k, err = ParseKind("refs/heads/feature/x")
	if err != nil || k.Branch != "feature/x" || k.COB != nil {
		t.Fatalf("ParseKind(branch) = %+v, %v", k, err)
	}

	for _, ref := range []string{"refs/cobs/xyz.radicle.patch/zz", "refs/cobs/" + id, "refs/tags/v1", "refs/heads/"} {
		if _, err := ParseKind(ref); err == nil {
			t.Errorf("ParseKind(%q) expected error", ref)
		}
	}
}
