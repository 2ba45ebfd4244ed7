package prediction

import (
	"strconv"
	"strings"
)

// InputMode selects which set of user inputs feeds a submission.
type InputMode string

const (
	// ModeByID resolves features server-side from a catalog identifier.
	ModeByID InputMode = "id"
	// ModeManual sends the six classifier features as entered.
	ModeManual InputMode = "manual"
)

// ParseInputMode validates a mode coming from an outer surface.
func ParseInputMode(value string) (InputMode, error) {
	switch mode := InputMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case ModeByID, ModeManual:
		return mode, nil
	default:
		return "", validationError(CodeUnknownMode, "input mode must be \"id\" or \"manual\"")
	}
}

// Field names a manual input.
type Field string

const (
	FieldAbsoluteMagnitude    Field = "absoluteMagnitude"
	FieldEstimatedDiameterMin Field = "estimatedDiameterMin"
	FieldEstimatedDiameterMax Field = "estimatedDiameterMax"
	FieldOrbitingBody         Field = "orbitingBody"
	FieldRelativeVelocity     Field = "relativeVelocity"
	FieldMissDistance         Field = "missDistance"
)

// DefaultOrbitingBody is sent when the user leaves the orbiting body blank.
const DefaultOrbitingBody = "Earth"

// ManualFeatures holds raw manual inputs as typed by the user.
type ManualFeatures struct {
	AbsoluteMagnitude    string `json:"absoluteMagnitude"`
	EstimatedDiameterMin string `json:"estimatedDiameterMin"`
	EstimatedDiameterMax string `json:"estimatedDiameterMax"`
	OrbitingBody         string `json:"orbitingBody"`
	RelativeVelocity     string `json:"relativeVelocity"`
	MissDistance         string `json:"missDistance"`
}

// Features is the parsed manual feature vector.
type Features struct {
	AbsoluteMagnitude    float64
	EstimatedDiameterMin float64
	EstimatedDiameterMax float64
	OrbitingBody         string
	RelativeVelocity     float64
	MissDistance         float64
}

// Vector returns the features in the classifier's fixed positional order.
func (f Features) Vector() []any {
	return []any{
		f.AbsoluteMagnitude,
		f.EstimatedDiameterMin,
		f.EstimatedDiameterMax,
		f.OrbitingBody,
		f.RelativeVelocity,
		f.MissDistance,
	}
}

// Request is the normalized submission. Exactly one of ID or Features is set.
type Request struct {
	ID       string
	Features *Features
}

// ByID reports whether the request is identifier based.
func (r Request) ByID() bool {
	return r.Features == nil
}

// Key identifies equivalent requests for caching.
func (r Request) Key() string {
	if r.ByID() {
		return "id:" + r.ID
	}
	parts := make([]string, 0, 6)
	for _, v := range r.Features.Vector() {
		switch typed := v.(type) {
		case float64:
			parts = append(parts, strconv.FormatFloat(typed, 'g', -1, 64))
		case string:
			parts = append(parts, typed)
		}
	}
	return "manual:" + strings.Join(parts, "|")
}

// Result is a successful classification.
type Result struct {
	IsHazardous      bool    `json:"isHazardous"`
	FalseProbability float64 `json:"falseProbability"`
	TrueProbability  float64 `json:"trueProbability"`
	ObservationStart string  `json:"observationStart,omitempty"`
	ObservationEnd   string  `json:"observationEnd,omitempty"`
}

// FailureReason enumerates remote failure kinds surfaced to users.
type FailureReason string

const (
	FailureCapacityExceeded FailureReason = CodeCapacityExceeded
	FailureInvalidInput     FailureReason = CodeInvalidInput
	FailureTransport        FailureReason = CodeTransportFailure
)

// Message is the user facing text for the failure.
func (r FailureReason) Message() string {
	switch r {
	case FailureCapacityExceeded:
		return "This deployment cannot be processed because it exceeds the allocated capacity unit hours (CUH). Please try again later."
	case FailureInvalidInput:
		return "Invalid Input Data"
	default:
		return "An error occurred while processing your request. Please check the asteroid ID and try again."
	}
}

// Status is the tag of a SessionState.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// SessionState is the observable outcome of the latest submission.
// Result is set only when Status is succeeded, Failure only when failed.
type SessionState struct {
	Status  Status        `json:"status"`
	Result  *Result       `json:"result,omitempty"`
	Failure FailureReason `json:"failure,omitempty"`
}

// Terminal reports whether the state is succeeded or failed.
func (s SessionState) Terminal() bool {
	return s.Status == StatusSucceeded || s.Status == StatusFailed
}

func (s SessionState) clone() SessionState {
	if s.Result != nil {
		res := *s.Result
		s.Result = &res
	}
	return s
}
