package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
	"github.com/yanqian/neo-hazard/internal/infra/neoapi"
	"github.com/yanqian/neo-hazard/pkg/logger"
)

var manualFlags = []struct {
	flag  string
	field prediction.Field
	usage string
}{
	{"absolute-magnitude", prediction.FieldAbsoluteMagnitude, "Absolute magnitude"},
	{"diameter-min", prediction.FieldEstimatedDiameterMin, "Estimated diameter min (km)"},
	{"diameter-max", prediction.FieldEstimatedDiameterMax, "Estimated diameter max (km)"},
	{"relative-velocity", prediction.FieldRelativeVelocity, "Relative velocity (km/h)"},
	{"miss-distance", prediction.FieldMissDistance, "Miss distance (km)"},
}

func predictCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "Asteroid ID; features are looked up by the classifier",
		},
		&cli.StringFlag{
			Name:  "orbiting-body",
			Value: prediction.DefaultOrbitingBody,
			Usage: "Orbiting body for manual input",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "text",
			Usage:   "Output format (text, json)",
		},
	}
	for _, mf := range manualFlags {
		flags = append(flags, &cli.StringFlag{Name: mf.flag, Usage: mf.usage})
	}

	return &cli.Command{
		Name:   "predict",
		Usage:  "Submit one prediction and wait for the outcome",
		Flags:  flags,
		Action: runPredict,
	}
}

func runPredict(c *cli.Context) error {
	log := logger.NewWithWriter(os.Stderr, c.String("log-level"))
	client := neoapi.NewClient(c.String("base-url"), c.Duration("timeout"))

	resolver, err := resolverFromFlags(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctrl := prediction.NewController(client, log)
	if err := ctrl.Submit(c.Context, resolver); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	state, err := ctrl.Wait(c.Context)
	if err != nil {
		return err
	}
	return render(c.App.Writer, c.String("output"), resolver.Mode(), state)
}

func resolverFromFlags(c *cli.Context) (*prediction.Resolver, error) {
	r := prediction.NewResolver()
	if c.IsSet("id") {
		r.SetIDField(c.String("id"))
		return r, nil
	}
	if err := r.SetMode(prediction.ModeManual); err != nil {
		return nil, err
	}
	if err := r.SetManualField(prediction.FieldOrbitingBody, c.String("orbiting-body")); err != nil {
		return nil, err
	}
	for _, mf := range manualFlags {
		if err := r.SetManualField(mf.field, c.String(mf.flag)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type jsonOutput struct {
	Status              prediction.Status        `json:"status"`
	Output              string                   `json:"output,omitempty"`
	NonHazardousPercent string                   `json:"nonHazardousPercent,omitempty"`
	HazardousPercent    string                   `json:"hazardousPercent,omitempty"`
	FirstObservation    string                   `json:"firstObservationDate,omitempty"`
	LastObservation     string                   `json:"lastObservationDate,omitempty"`
	Failure             prediction.FailureReason `json:"failure,omitempty"`
	Message             string                   `json:"message,omitempty"`
}

func render(w io.Writer, format string, mode prediction.InputMode, state prediction.SessionState) error {
	out := jsonOutput{Status: state.Status}
	if res := state.Result; state.Status == prediction.StatusSucceeded && res != nil {
		out.Output = res.Label()
		out.NonHazardousPercent = prediction.Percent(res.FalseProbability)
		out.HazardousPercent = prediction.Percent(res.TrueProbability)
		if mode == prediction.ModeByID {
			out.FirstObservation = res.ObservationStart
			out.LastObservation = res.ObservationEnd
		}
	}
	if state.Status == prediction.StatusFailed {
		out.Failure = state.Failure
		out.Message = state.Failure.Message()
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	default:
		if out.Failure != "" {
			fmt.Fprintln(w, out.Message)
			break
		}
		fmt.Fprintf(w, "Output: %s\n", out.Output)
		fmt.Fprintf(w, "Non-Hazardous Prediction: %s%%\n", out.NonHazardousPercent)
		fmt.Fprintf(w, "Hazardous Prediction: %s%%\n", out.HazardousPercent)
		if mode == prediction.ModeByID {
			fmt.Fprintf(w, "First Observation Date: %s\n", out.FirstObservation)
			fmt.Fprintf(w, "Last Observation Date: %s\n", out.LastObservation)
		}
	}

	if out.Failure != "" {
		return cli.Exit("", 1)
	}
	return nil
}
