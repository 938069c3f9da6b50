// Package audience defines the advisor-client demographic segments and the
// topic vocabularies used to judge article relevance. The registry is static
// configuration data, not mutable state.
package audience

// Type identifies an audience segment.
type Type string

const (
	YoungProfessionals Type = "young-professionals"
	YoungFamilies      Type = "young-families"
	PreRetirees        Type = "pre-retirees"
	Retirees           Type = "retirees"
	Custom             Type = "custom"
)

// Segment is a named audience with its display label and ordered topic list.
type Segment struct {
	Label  string
	Topics []string
}

var segments = map[Type]Segment{
	YoungProfessionals: {
		Label: "Young Professionals",
		Topics: []string{
			"student loan repayment",
			"401k contributions",
			"first time home buying",
			"budgeting basics",
			"emergency fund",
			"career growth income",
			"investing for beginners",
			"credit score building",
		},
	},
	YoungFamilies: {
		Label: "Young Families",
		Topics: []string{
			"college savings 529",
			"life insurance coverage",
			"family budgeting",
			"childcare costs",
			"home ownership",
			"estate planning basics",
			"education savings",
			"dual income planning",
		},
	},
	PreRetirees: {
		Label: "Pre-Retirees",
		Topics: []string{
			"retirement planning",
			"catch up contributions",
			"social security timing",
			"401k rollover",
			"healthcare costs retirement",
			"downsizing home",
			"tax optimization",
			"pension decisions",
		},
	},
	Retirees: {
		Label: "Retirees",
		Topics: []string{
			"retirement income",
			"required minimum distributions",
			"medicare coverage",
			"estate planning",
			"social security benefits",
			"long term care",
			"charitable giving",
			"legacy planning",
		},
	},
	Custom: {
		Label: "Custom Audience",
	},
}

// Default is the segment assumed when none is configured.
const Default = YoungProfessionals

// TopicsFor resolves the effective topic list for a segment. For Custom the
// caller-supplied topics are used; for unknown segments the default
// segment's topics apply.
func TopicsFor(t Type, customTopics []string) []string {
	if t == Custom {
		return customTopics
	}
	if seg, ok := segments[t]; ok {
		return seg.Topics
	}
	return segments[Default].Topics
}

// LabelFor returns the display label for a segment, or the raw value when
// the segment is unknown.
func LabelFor(t Type) string {
	if seg, ok := segments[t]; ok {
		return seg.Label
	}
	return string(t)
}

// Valid reports whether t names a known segment.
func Valid(t Type) bool {
	_, ok := segments[t]
	return ok
}
