package http

import (
	"github.com/yanqian/neo-hazard/internal/domain/prediction"
	"github.com/yanqian/neo-hazard/internal/domain/session"
)

type sessionView struct {
	ID      string               `json:"id"`
	Mode    prediction.InputMode `json:"mode"`
	Inputs  inputsView           `json:"inputs"`
	Status  prediction.Status    `json:"status"`
	Loading bool                 `json:"loading"`
	Result  *resultView          `json:"result,omitempty"`
	Failure *failureView         `json:"failure,omitempty"`
}

type inputsView struct {
	ID     string                    `json:"id"`
	Manual prediction.ManualFeatures `json:"manual"`
}

type resultView struct {
	Output               string  `json:"output"`
	IsHazardous          bool    `json:"isHazardous"`
	FalseProbability     float64 `json:"falseProbability"`
	TrueProbability      float64 `json:"trueProbability"`
	NonHazardousPercent  string  `json:"nonHazardousPercent"`
	HazardousPercent     string  `json:"hazardousPercent"`
	FirstObservationDate string  `json:"firstObservationDate,omitempty"`
	LastObservationDate  string  `json:"lastObservationDate,omitempty"`
}

type failureView struct {
	Reason  prediction.FailureReason `json:"reason"`
	Message string                   `json:"message"`
}

// newSessionView shapes a snapshot for display. Observation dates only show in identifier mode.
func newSessionView(snap session.Snapshot) sessionView {
	view := sessionView{
		ID:   snap.ID,
		Mode: snap.Inputs.Mode,
		Inputs: inputsView{
			ID:     snap.Inputs.ID,
			Manual: snap.Inputs.Manual,
		},
		Status:  snap.State.Status,
		Loading: snap.State.Status == prediction.StatusLoading,
	}

	switch snap.State.Status {
	case prediction.StatusSucceeded:
		if res := snap.State.Result; res != nil {
			rv := &resultView{
				Output:              res.Label(),
				IsHazardous:         res.IsHazardous,
				FalseProbability:    res.FalseProbability,
				TrueProbability:     res.TrueProbability,
				NonHazardousPercent: prediction.Percent(res.FalseProbability),
				HazardousPercent:    prediction.Percent(res.TrueProbability),
			}
			if snap.Inputs.Mode == prediction.ModeByID {
				rv.FirstObservationDate = res.ObservationStart
				rv.LastObservationDate = res.ObservationEnd
			}
			view.Result = rv
		}
	case prediction.StatusFailed:
		view.Failure = &failureView{
			Reason:  snap.State.Failure,
			Message: snap.State.Failure.Message(),
		}
	}
	return view
}
