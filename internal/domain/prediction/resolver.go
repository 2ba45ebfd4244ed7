package prediction

import (
	"math"
	"strconv"
	"strings"
	"sync"
)

// Inputs is a point-in-time copy of everything the user has entered.
type Inputs struct {
	Mode   InputMode      `json:"mode"`
	ID     string         `json:"id"`
	Manual ManualFeatures `json:"manual"`
}

// Resolver holds per-mode user input and turns it into a Request.
// Values for the inactive mode are retained across mode switches.
type Resolver struct {
	mu     sync.RWMutex
	mode   InputMode
	id     string
	manual ManualFeatures
}

// NewResolver starts in identifier mode with the default orbiting body.
func NewResolver() *Resolver {
	return &Resolver{
		mode:   ModeByID,
		manual: ManualFeatures{OrbitingBody: DefaultOrbitingBody},
	}
}

// SetMode switches the active mode without touching stored values.
func (r *Resolver) SetMode(mode InputMode) error {
	if mode != ModeByID && mode != ModeManual {
		return validationError(CodeUnknownMode, "input mode must be \"id\" or \"manual\"")
	}
	r.mu.Lock()
	r.mode = mode
	r.mu.Unlock()
	return nil
}

// Mode returns the active input mode.
func (r *Resolver) Mode() InputMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// SetIDField stores the raw identifier.
func (r *Resolver) SetIDField(value string) {
	r.mu.Lock()
	r.id = value
	r.mu.Unlock()
}

// ClearID empties the identifier.
func (r *Resolver) ClearID() {
	r.SetIDField("")
}

// SetManualField stores one raw manual input.
func (r *Resolver) SetManualField(name Field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch name {
	case FieldAbsoluteMagnitude:
		r.manual.AbsoluteMagnitude = value
	case FieldEstimatedDiameterMin:
		r.manual.EstimatedDiameterMin = value
	case FieldEstimatedDiameterMax:
		r.manual.EstimatedDiameterMax = value
	case FieldOrbitingBody:
		r.manual.OrbitingBody = value
	case FieldRelativeVelocity:
		r.manual.RelativeVelocity = value
	case FieldMissDistance:
		r.manual.MissDistance = value
	default:
		return validationError(CodeUnknownField, "unknown manual field "+strconv.Quote(string(name)))
	}
	return nil
}

// Snapshot copies the current inputs.
func (r *Resolver) Snapshot() Inputs {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Inputs{Mode: r.mode, ID: r.id, Manual: r.manual}
}

// Resolve validates the active mode and builds a fresh Request.
func (r *Resolver) Resolve() (Request, error) {
	return r.Snapshot().Resolve()
}

// Resolve validates the active mode of the copy and builds a Request.
func (in Inputs) Resolve() (Request, error) {
	if in.Mode == ModeManual {
		features, ok := in.Manual.parse()
		if !ok {
			return Request{}, validationError(CodeMissingFields, "Please fill in all manual input fields")
		}
		return Request{Features: &features}, nil
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		return Request{}, validationError(CodeMissingID, "Please enter a valid Asteroid ID")
	}
	return Request{ID: id}, nil
}

func (m ManualFeatures) parse() (Features, bool) {
	raw := []string{
		m.AbsoluteMagnitude,
		m.EstimatedDiameterMin,
		m.EstimatedDiameterMax,
		m.RelativeVelocity,
		m.MissDistance,
	}
	values := make([]float64, len(raw))
	for i, s := range raw {
		v, ok := parseMeasurement(s)
		if !ok {
			return Features{}, false
		}
		values[i] = v
	}

	body := strings.TrimSpace(m.OrbitingBody)
	if body == "" {
		body = DefaultOrbitingBody
	}
	return Features{
		AbsoluteMagnitude:    values[0],
		EstimatedDiameterMin: values[1],
		EstimatedDiameterMax: values[2],
		OrbitingBody:         body,
		RelativeVelocity:     values[3],
		MissDistance:         values[4],
	}, true
}

// parseMeasurement treats zero as unset.
func parseMeasurement(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
