//go:build !integration

package clusters

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefault(t *testing.T) {
	reg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	c, err := reg.Get("Engineering")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(c.Subjects) == 0 || c.Subjects[0] != "MAT" {
		t.Errorf("unexpected subjects %v", c.Subjects)
	}

	all := reg.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Errorf("All not sorted: %s > %s", all[i-1].Name, all[i].Name)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	reg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Get("astrology"); !errors.Is(err, ErrClusterNotFound) {
		t.Errorf("err = %v, want ErrClusterNotFound", err)
	}
}

func TestLoadFromFileNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.yaml")
	content := "clusters:\n  - name: ' Nursing '\n    subjects: [bio, che ]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := reg.Get("nursing")
	if err != nil {
		t.Fatal(err)
	}
	if c.Subjects[0] != "BIO" || c.Subjects[1] != "CHE" {
		t.Errorf("subjects not normalized: %v", c.Subjects)
	}
}

func TestParseRejectsBadDefinitions(t *testing.T) {
	bad := []string{
		"clusters:\n  - subjects: [MAT]\n",
		"clusters:\n  - name: x\n",
		"clusters:\n  - name: x\n    subjects: [MAT]\n  - name: X\n    subjects: [ENG]\n",
		"clusters: [",
	}

	for _, in := range bad {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}
