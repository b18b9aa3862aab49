package prompt

// Input is the superset of preformatted blocks any record-type template might
// need. Empty fields drop their section entirely so the model never sees an
// empty heading.
type Input struct {
	Preamble string

	// Header holds the 교과/학년/단원 lines.
	Header string

	Standards         string
	Criteria          string
	Survey            string
	Observations      string
	Notes             string
	Context           string
	EvaluationResults string

	// CoreValues is the fixed allowed-label line for 행동특성 records.
	CoreValues string

	BehaviorContext string

	Example string
}
