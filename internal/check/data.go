package check

// Result is the finalized aggregate for one named check. SuccessRate is a
// one-decimal percentage string ("75.0").
type Result struct {
	Name        string
	Total       int64
	Passed      int64
	Failed      int64
	SuccessRate string
}
