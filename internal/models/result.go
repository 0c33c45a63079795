package models

import "encoding/json"

// CandidateResult is one scored resume as returned by the model.
// JSON keys follow the wire format the comparison prompt asks for.
type CandidateResult struct {
	FullName    string `json:"fullName"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// ComparisonOutcome is the tagged result of interpreting the model's
// response: either a structured candidate list, or the raw text when the
// response did not parse as the expected JSON array.
type ComparisonOutcome struct {
	Candidates []CandidateResult
	Raw        string
	Structured bool
}

// MarshalJSON emits the candidate array when structured, the raw text
// otherwise, matching the `result` field of the compare endpoint.
func (o ComparisonOutcome) MarshalJSON() ([]byte, error) {
	if o.Structured {
		return json.Marshal(o.Candidates)
	}
	return json.Marshal(o.Raw)
}

// UnmarshalJSON accepts both shapes the server may produce.
func (o *ComparisonOutcome) UnmarshalJSON(data []byte) error {
	var candidates []CandidateResult
	if err := json.Unmarshal(data, &candidates); err == nil {
		o.Candidates = candidates
		o.Structured = true
		o.Raw = ""
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Raw = raw
	o.Structured = false
	o.Candidates = nil
	return nil
}

type CompareResponse struct {
	Message string            `json:"message"`
	Result  ComparisonOutcome `json:"result"`
}

type SearchResponse struct {
	Message string `json:"message"`
	Search  string `json:"search"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
