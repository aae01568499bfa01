package session

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/lepinkainen/fakecheck/predict"
)

// Result is either a classification outcome or whatever diagnostic payload a failure produced
type Result struct {
	Outcome *predict.Outcome
	// Detail holds a structured error body from the endpoint
	Detail json.RawMessage
	// Text holds a plain-text error body or the stringified failure
	Text string
}

// IsOutcome reports whether the result is a classification
func (r *Result) IsOutcome() bool {
	return r != nil && r.Outcome != nil
}

// PayloadText renders an error payload: JSON indented by two spaces, text verbatim
func (r *Result) PayloadText() string {
	if r == nil {
		return ""
	}
	if len(r.Detail) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, r.Detail, "", "  "); err == nil {
			return buf.String()
		}
		return string(r.Detail)
	}
	return r.Text
}

// MarshalJSON emits the outcome, the structured detail or the text, whichever is set
func (r *Result) MarshalJSON() ([]byte, error) {
	switch {
	case r.Outcome != nil:
		return json.Marshal(r.Outcome)
	case len(r.Detail) > 0:
		return r.Detail, nil
	default:
		return json.Marshal(r.Text)
	}
}

var errEmptyResponse = errors.New("empty response")

// resultFromFailure keeps the server's body when there is one, otherwise the error text
func resultFromFailure(body []byte, err error) *Result {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return &Result{Text: err.Error()}
	case json.Valid(trimmed):
		return &Result{Detail: json.RawMessage(bytes.Clone(trimmed))}
	default:
		return &Result{Text: string(body)}
	}
}

// interpret maps an upload reply onto the final status and result
func interpret(resp *predict.Response, err error) (Status, *Result, error) {
	if err != nil {
		var statusErr *predict.StatusError
		if errors.As(err, &statusErr) {
			return Status{Phase: PhaseError}, resultFromFailure(statusErr.Body, err), err
		}
		return Status{Phase: PhaseError}, &Result{Text: err.Error()}, err
	}

	if resp == nil {
		err := errEmptyResponse
		return Status{Phase: PhaseError}, &Result{Text: err.Error()}, err
	}

	outcome, err := predict.DecodeOutcome(resp.Body)
	if err != nil {
		return Status{Phase: PhaseError}, resultFromFailure(resp.Body, err), err
	}
	return Status{Phase: PhaseCompleted}, &Result{Outcome: outcome}, nil
}
