package predict

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Label is the classification returned by the prediction endpoint
type Label string

const (
	LabelReal Label = "REAL"
	LabelFake Label = "FAKE"
)

// ErrMalformedResponse is returned when a 2xx body is not a usable prediction
var ErrMalformedResponse = errors.New("malformed prediction response")

// Outcome is a successful classification
type Outcome struct {
	Prediction Label   `json:"prediction"`
	Score      float64 `json:"score"`
}

// Confidence renders the score with three decimals
func (o Outcome) Confidence() string {
	return fmt.Sprintf("%.3f", o.Score)
}

// Response is a raw reply from the endpoint
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// StatusError is returned for non-2xx replies, carrying whatever body the server sent
type StatusError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// DecodeOutcome validates a success body
func DecodeOutcome(body []byte) (*Outcome, error) {
	var raw struct {
		Prediction *string  `json:"prediction"`
		Score      *float64 `json:"score"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.Prediction == nil || raw.Score == nil {
		return nil, fmt.Errorf("%w: missing prediction or score", ErrMalformedResponse)
	}

	label := Label(*raw.Prediction)
	if label != LabelReal && label != LabelFake {
		return nil, fmt.Errorf("%w: unknown prediction %q", ErrMalformedResponse, *raw.Prediction)
	}
	if *raw.Score < 0 || *raw.Score > 1 {
		return nil, fmt.Errorf("%w: score %v outside [0,1]", ErrMalformedResponse, *raw.Score)
	}

	return &Outcome{Prediction: label, Score: *raw.Score}, nil
}
