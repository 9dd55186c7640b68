// Package analyzer wires the Safe Browsing gateway and the heuristic scorer
// together behind the single Analyze entry point used by the HTTP front end,
// the history store and the batch runner.
package analyzer

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"

	"linksafety/riskscore"
	"linksafety/safebrowse"
	"linksafety/verdict"
)

// InvalidInputError is the only failure Analyze propagates: the URL is so
// malformed that neither lookup nor score is meaningful.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "analyze: " + e.Reason
}

// Analyzer runs independent, stateless URL analyses.
type Analyzer struct {
	Client     *safebrowse.Client
	Scorer     *riskscore.Scorer
	Thresholds verdict.Thresholds
}

func New(client *safebrowse.Client, scorer *riskscore.Scorer) *Analyzer {
	return &Analyzer{
		Client:     client,
		Scorer:     scorer,
		Thresholds: verdict.DefaultThresholds(),
	}
}

// Analyze classifies one URL. The remote lookup and the local scorer run
// concurrently; the combiner joins both. Every gateway failure is absorbed:
// the lookup is marked unavailable and classification proceeds on the score
// alone. Only an empty URL fails.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (verdict.FinalVerdict, error) {
	target := FormatURL(rawURL)
	if target == "" {
		return verdict.FinalVerdict{}, &InvalidInputError{Reason: "URL cannot be empty"}
	}

	var (
		lookup    *safebrowse.Result
		breakdown riskscore.Breakdown
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := a.Client.Lookup(gctx, target)
		if err != nil {
			log.Printf("[analyze] lookup unavailable (%s) for %s: %v", failureKind(err), target, err)
			return nil
		}
		lookup = res
		return nil
	})
	g.Go(func() error {
		breakdown = a.Scorer.Score(target)
		return nil
	})
	_ = g.Wait()

	var outcome *verdict.LookupOutcome
	if lookup != nil {
		outcome = &verdict.LookupOutcome{
			Classification: lookup.Classification,
			ThreatTypes:    lookup.ThreatTypes,
		}
	}
	return verdict.CombineWithThresholds(target, outcome, breakdown, a.Thresholds), nil
}

// failureKind names the gateway failure for log lines so configuration
// problems stay distinguishable from transient ones.
func failureKind(err error) string {
	var (
		cfgErr       *safebrowse.ConfigError
		authErr      *safebrowse.AuthError
		quotaErr     *safebrowse.QuotaError
		transportErr *safebrowse.TransportError
		protoErr     *safebrowse.ProtocolError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &authErr):
		return "authorization"
	case errors.As(err, &quotaErr):
		return "quota"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &protoErr):
		return "protocol"
	default:
		return "unknown"
	}
}
