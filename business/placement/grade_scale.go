package placement

// KCSE grade symbols, highest first.
const (
	GradeA      = "A"
	GradeAMinus = "A-"
	GradeBPlus  = "B+"
	GradeB      = "B"
	GradeBMinus = "B-"
	GradeCPlus  = "C+"
	GradeC      = "C"
	GradeCMinus = "C-"
	GradeDPlus  = "D+"
	GradeD      = "D"
	GradeDMinus = "D-"
	GradeE      = "E"
)

// MaxPoints is the value of an A.
const MaxPoints = 12

var gradePoints = map[string]int{
	GradeA:      12,
	GradeAMinus: 11,
	GradeBPlus:  10,
	GradeB:      9,
	GradeBMinus: 8,
	GradeCPlus:  7,
	GradeC:      6,
	GradeCMinus: 5,
	GradeDPlus:  4,
	GradeD:      3,
	GradeDMinus: 2,
	GradeE:      1,
}

// indexed by points, 0 is "no grade"
var pointsGrade = [MaxPoints + 1]string{
	"",
	GradeE,
	GradeDMinus,
	GradeD,
	GradeDPlus,
	GradeCMinus,
	GradeC,
	GradeCPlus,
	GradeBMinus,
	GradeB,
	GradeBPlus,
	GradeAMinus,
	GradeA,
}

// GradeStatus tells how a grade symbol was resolved.
type GradeStatus int

const (
	// GradeResolved is one of the 12 valid symbols.
	GradeResolved GradeStatus = iota
	// GradeNotSat is an empty symbol.
	GradeNotSat
	// GradeUnknown is a non-empty symbol outside the scale; it scores 0.
	GradeUnknown
)

func (s GradeStatus) String() string {
	switch s {
	case GradeResolved:
		return "resolved"
	case GradeNotSat:
		return "not_sat"
	default:
		return "unknown"
	}
}

// Resolution is the tagged result of looking up a grade symbol.
type Resolution struct {
	Symbol string
	Points int
	Status GradeStatus
}

// Resolve looks a symbol up on the scale without hiding whether it was defaulted.
func Resolve(symbol string) Resolution {
	if symbol == "" {
		return Resolution{Symbol: symbol, Status: GradeNotSat}
	}
	p, ok := gradePoints[symbol]
	if !ok {
		return Resolution{Symbol: symbol, Status: GradeUnknown}
	}
	return Resolution{Symbol: symbol, Points: p, Status: GradeResolved}
}

// PointsOf returns the points for a symbol; empty or unrecognized symbols are 0.
func PointsOf(grade string) int {
	return gradePoints[grade]
}

// GradeOf maps points back to a symbol. Points outside 1..12 have no grade.
func GradeOf(points int) string {
	if points < 1 || points > MaxPoints {
		return ""
	}
	return pointsGrade[points]
}

// IsValidGrade reports whether grade is one of the 12 scale symbols.
func IsValidGrade(grade string) bool {
	_, ok := gradePoints[grade]
	return ok
}

// ValidGrades lists the scale from A down to E.
func ValidGrades() []string {
	out := make([]string, 0, MaxPoints)
	for p := MaxPoints; p >= 1; p-- {
		out = append(out, pointsGrade[p])
	}
	return out
}
