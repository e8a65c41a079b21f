package placement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// SubjectGrade is a single entered subject and its symbol. An empty grade means not sat.
type SubjectGrade struct {
	Subject string
	Grade   string
}

// GradeSet holds a candidate's grades keyed by subject code. Entry order is the
// order the subjects were entered and is used to break ties between equal points.
type GradeSet []SubjectGrade

// NewGradeSet builds a set from a map. Map order is random, so entries are
// sorted by subject code to keep results reproducible.
func NewGradeSet(grades map[string]string) GradeSet {
	codes := make([]string, 0, len(grades))
	for code := range grades {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	gs := make(GradeSet, 0, len(codes))
	for _, code := range codes {
		gs = append(gs, SubjectGrade{Subject: code, Grade: grades[code]})
	}
	return gs
}

// Grade returns the symbol entered for subject; ok is false when the subject is absent.
func (gs GradeSet) Grade(subject string) (string, bool) {
	for _, sg := range gs {
		if sg.Subject == subject {
			return sg.Grade, true
		}
	}
	return "", false
}

// Set adds or replaces a subject, keeping its original position on replace.
func (gs *GradeSet) Set(subject, grade string) {
	for i := range *gs {
		if (*gs)[i].Subject == subject {
			(*gs)[i].Grade = grade
			return
		}
	}
	*gs = append(*gs, SubjectGrade{Subject: subject, Grade: grade})
}

// Map returns a plain copy of the set.
func (gs GradeSet) Map() map[string]string {
	out := make(map[string]string, len(gs))
	for _, sg := range gs {
		out[sg.Subject] = sg.Grade
	}
	return out
}

// SubjectCount counts subjects with a non-empty grade.
func (gs GradeSet) SubjectCount() int {
	n := 0
	for _, sg := range gs {
		if sg.Grade != "" {
			n++
		}
	}
	return n
}

// UnknownGrades lists the subjects whose non-empty symbol is not on the scale, in entry order.
func (gs GradeSet) UnknownGrades() []string {
	var out []string
	for _, sg := range gs {
		if Resolve(sg.Grade).Status == GradeUnknown {
			out = append(out, sg.Subject)
		}
	}
	return out
}

// MarshalJSON writes the set as a JSON object in entry order.
func (gs GradeSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sg := range gs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(sg.Subject)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(sg.Grade)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of subject code to grade symbol, keeping key
// order. null values are treated as not sat; a repeated key keeps its first
// position and takes the last value. Anything other than an object of strings is
// ErrInvalidInput.
func (gs *GradeSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: grades: %v", ErrInvalidInput, err)
	}
	if tok == nil {
		*gs = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: grades must be an object", ErrInvalidInput)
	}

	out := GradeSet{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: grades: %v", ErrInvalidInput, err)
		}
		subject, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: grades: unexpected key %v", ErrInvalidInput, keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: grades: %v", ErrInvalidInput, err)
		}

		var grade string
		switch v := valTok.(type) {
		case nil:
		case string:
			grade = v
		default:
			return fmt.Errorf("%w: grade for %q must be a string", ErrInvalidInput, subject)
		}
		out.Set(subject, grade)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: grades: %v", ErrInvalidInput, err)
	}

	*gs = out
	return nil
}
