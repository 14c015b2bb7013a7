// Command churn-cli collects customer attributes and asks the churn service for a prediction
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"churnserve/internal/adapters/churnapi"
	"churnserve/internal/core/features"
	"churnserve/internal/platform/config"

	"churnserve/internal/services/churn/domain"
)

const (
	exitOK        = 0
	exitRejected  = 1
	exitTransport = 2
	exitUsage     = 64
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.New().Prefix("CHURN_CLI_")

	fs := flag.NewFlagSet("churn-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		fURL     = fs.String("api", cfg.MayString("API_URL", "http://localhost:8000"), "churn service base url")
		fTimeout = fs.Duration("timeout", cfg.MayDuration("TIMEOUT", 20*time.Second), "request timeout")
		fTenure  = fs.Int("tenure", 12, "tenure in months (1-72)")
		fPlan    = fs.String("plan", string(features.Basic), "subscription type: Basic | Standard | Premium")
		fCharges = fs.Float64("charges", 50, "monthly charges (20-120)")
		fCalls   = fs.Int("calls", 1, "support calls (0-10)")
		fHealth  = fs.Bool("health", false, "only check that the service is up")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	c := churnapi.New(churnapi.Options{BaseURL: *fURL, Timeout: *fTimeout})

	if *fHealth {
		h, err := c.Health(ctx)
		if err != nil {
			return report(stderr, *fURL, err)
		}
		_, _ = fmt.Fprintf(stdout, "%s (model %s)\n", h.Message, h.State)
		return exitOK
	}

	if err := checkForm(*fTenure, *fPlan, *fCharges, *fCalls); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}

	res, err := c.Predict(ctx, domain.NewInput(*fTenure, *fPlan, *fCharges, *fCalls))
	if err != nil {
		return report(stderr, *fURL, err)
	}
	_, _ = fmt.Fprintf(stdout, "Prediction: %s\nProbability of churn: %s\n", res.Prediction, res.ProbabilityOfChurn)
	return exitOK
}

// checkForm applies the same ranges the input form offers
func checkForm(tenure int, plan string, charges float64, calls int) error {
	if !features.Subscription(plan).Valid() {
		return fmt.Errorf("plan must be one of Basic, Standard, Premium, got %q", plan)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"TenureMonths", float64(tenure)},
		{"MonthlyCharges", charges},
		{"SupportCalls", float64(calls)},
	} {
		if b := features.UIBounds[f.name]; !b.Contains(f.v) {
			return fmt.Errorf("%s must be between %g and %g, got %g", f.name, b.Min, b.Max, f.v)
		}
	}
	return nil
}

// report prints transport and service failures as different messages
func report(w io.Writer, url string, err error) int {
	var te *churnapi.TransportError
	if errors.As(err, &te) {
		_, _ = fmt.Fprintf(w, "could not reach the churn service at %s: %v\n", url, te.Err)
		return exitTransport
	}
	var se *churnapi.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = se.Body
		}
		switch {
		case se.Retryable():
			_, _ = fmt.Fprintf(w, "the churn service is not ready (%d), try again shortly: %s\n", se.StatusCode, msg)
		case se.Field != "":
			_, _ = fmt.Fprintf(w, "the churn service rejected %s: %s\n", se.Field, msg)
		default:
			_, _ = fmt.Fprintf(w, "the churn service returned %d: %s\n", se.StatusCode, msg)
		}
		return exitRejected
	}
	_, _ = fmt.Fprintf(w, "unexpected error: %v\n", err)
	return exitRejected
}
