//go:build !integration

package placement

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestGradeSetUnmarshalKeepsOrder(t *testing.T) {
	var gs GradeSet
	if err := json.Unmarshal([]byte(`{"MAT":"A","ENG":"B+","KIS":null,"BIO":"C","ENG":"B"}`), &gs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := GradeSet{
		{Subject: "MAT", Grade: "A"},
		{Subject: "ENG", Grade: "B"},
		{Subject: "KIS", Grade: ""},
		{Subject: "BIO", Grade: "C"},
	}
	if !reflect.DeepEqual(gs, want) {
		t.Errorf("got %+v, want %+v", gs, want)
	}
}

func TestGradeSetUnmarshalRejectsNonObject(t *testing.T) {
	inputs := []string{`[]`, `"A"`, `12`, `{"MAT":12}`, `{"MAT":["A"]}`, `{"MAT":true}`}

	for _, in := range inputs {
		var gs GradeSet
		err := json.Unmarshal([]byte(in), &gs)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Unmarshal(%s) err = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestGradeSetMarshalRoundTrip(t *testing.T) {
	gs := GradeSet{{Subject: "PHY", Grade: "A-"}, {Subject: "CHE", Grade: "B"}}

	raw, err := json.Marshal(gs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"PHY":"A-","CHE":"B"}` {
		t.Errorf("marshal = %s", raw)
	}
}

func TestGradeSetHelpers(t *testing.T) {
	gs := NewGradeSet(map[string]string{"MAT": "A", "ENG": "", "KIS": "Q"})

	if gs[0].Subject != "ENG" || gs[2].Subject != "MAT" {
		t.Errorf("NewGradeSet not sorted: %+v", gs)
	}
	if n := gs.SubjectCount(); n != 2 {
		t.Errorf("SubjectCount = %d, want 2", n)
	}
	if unknown := gs.UnknownGrades(); !reflect.DeepEqual(unknown, []string{"KIS"}) {
		t.Errorf("UnknownGrades = %v", unknown)
	}
	if g, ok := gs.Grade("ENG"); !ok || g != "" {
		t.Errorf("Grade(ENG) = %q, %v", g, ok)
	}
	if _, ok := gs.Grade("PHY"); ok {
		t.Error("Grade(PHY) should be absent")
	}
}
