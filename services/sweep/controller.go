package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/sweep")

type Options struct {
	// Laufzeiten to process, in order
	Plan []int
	// constant loan/household inputs for the whole session
	Params RunParameters
	// Fixierung slider step in years, defaults to 5
	FixierungStep int
	// attempts to reach the results screen per Laufzeit, defaults to 3
	BaseAttempts int
	// attempts per Fixierung step, defaults to 3
	StepAttempts int
	// bounded wait for the results screen to reflect a slider change,
	// defaults to 15s
	StepWait time.Duration
	// how often to re-read the results screen while waiting, defaults to 500ms
	PollInterval time.Duration
	// free-form note stored with every run
	Notes string
}

func (o Options) withDefaults() Options {
	if o.FixierungStep == 0 {
		o.FixierungStep = 5
	}
	if o.BaseAttempts == 0 {
		o.BaseAttempts = 3
	}
	if o.StepAttempts == 0 {
		o.StepAttempts = 3
	}
	if o.StepWait == 0 {
		o.StepWait = time.Second * 15
	}
	if o.PollInterval == 0 {
		o.PollInterval = time.Millisecond * 500
	}
	return o
}

// Controller owns one sequential sweep session. It is not safe for
// concurrent use, the FormDriver behind it holds a single stateful session.
type Controller struct {
	driver FormDriver
	store  Store
	opts   Options
}

func NewController(driver FormDriver, store Store, opts Options) (*Controller, error) {
	opts = opts.withDefaults()
	if len(opts.Plan) == 0 {
		return nil, fmt.Errorf("%w: empty session plan", ErrInvalidArgument)
	}
	for _, laufzeit := range opts.Plan {
		// validates both plan entries and the step up front so the run
		// can fail fast on programmer error
		_, err := FixierungValues(laufzeit, opts.FixierungStep)
		if err != nil {
			return nil, err
		}
	}
	return &Controller{
		driver: driver,
		store:  store,
		opts:   opts,
	}, nil
}

// Run processes the whole session plan, one Laufzeit at a time. Failures
// are absorbed at their own scope: an unparsable field degrades inside the
// record, a failed step is retried then skipped, a Laufzeit whose base
// navigation fails is aborted, a storage failure is surfaced in the
// summary. None of them stop the plan. The returned error is only
// non-nil when the context was cancelled before the plan finished.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var summary Summary
	for _, laufzeit := range c.opts.Plan {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "run cancelled")
			return summary, err
		}

		outcome, cancelled := c.processLaufzeit(ctx, laufzeit)
		summary.add(outcome)
		if cancelled {
			span.SetStatus(codes.Error, "run cancelled")
			return summary, ctx.Err()
		}
	}

	slog.InfoContext(
		ctx, "sweep session complete",
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"variations", summary.TotalVariations,
	)
	return summary, nil
}

// processLaufzeit runs one Laufzeit end to end: establish the form state,
// visit every Fixierung value in ascending order, persist whatever was
// collected. The second return value reports that the parent context was
// cancelled mid-sweep (the partial group is still persisted).
func (c *Controller) processLaufzeit(ctx context.Context, laufzeit int) (Outcome, bool) {
	ctx, span := tracer.Start(ctx, "processLaufzeit")
	defer span.End()
	span.SetAttributes(attribute.Int("laufzeit_jahre", laufzeit))

	outcome := Outcome{LaufzeitJahre: laufzeit}

	screen, err := c.establishBase(ctx, laufzeit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach results screen")
		slog.ErrorContext(
			ctx, "aborting laufzeit, results screen unreachable",
			"laufzeit_jahre", laufzeit,
			"err", err,
		)
		outcome.Kind = OutcomeAborted
		return outcome, ctx.Err() != nil
	}

	// plan entries were validated in NewController
	fixierungen, _ := FixierungValues(laufzeit, c.opts.FixierungStep)

	run := Run{
		LaufzeitJahre: laufzeit,
		Params:        c.opts.Params,
		ScrapeDate:    time.Now(),
		Notes:         c.opts.Notes,
	}

	cancelled := false
	for _, fixierung := range fixierungen {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		variation, err := c.captureStep(ctx, screen, fixierung)
		if err != nil {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			slog.WarnContext(
				ctx, "skipping fixierung step",
				"laufzeit_jahre", laufzeit,
				"fixierung_jahre", fixierung,
				"err", err,
			)
			outcome.SkippedFixierungen = append(outcome.SkippedFixierungen, fixierung)
			continue
		}

		run.Variations = append(run.Variations, variation)
		outcome.UnparsedFields += len(variation.UnparsedFields())
	}

	outcome.Variations = len(run.Variations)
	switch {
	case cancelled || len(outcome.SkippedFixierungen) > 0:
		outcome.Kind = OutcomePartiallyCompleted
	default:
		outcome.Kind = OutcomeCompleted
	}
	if cancelled {
		remaining := len(fixierungen) - len(run.Variations) - len(outcome.SkippedFixierungen)
		slog.WarnContext(
			ctx, "sweep cancelled mid-laufzeit, persisting partial group",
			"laufzeit_jahre", laufzeit,
			"remaining_steps", remaining,
		)
	}

	// an empty run is still persisted as a metadata-only record so a
	// fully-failed laufzeit is visible in the data, not silently dropped
	runId, err := c.store.SaveRun(context.WithoutCancel(ctx), run)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist run")
		slog.ErrorContext(
			ctx, "failed to persist run, collected data is lost",
			"laufzeit_jahre", laufzeit,
			"variations", len(run.Variations),
			"err", err,
		)
		outcome.StoreErr = err
	} else {
		outcome.RunId = runId
	}

	err = c.driver.Reset(context.WithoutCancel(ctx))
	if err != nil {
		slog.WarnContext(ctx, "failed to reset form driver", "err", err)
	}

	return outcome, cancelled
}

func (c *Controller) establishBase(ctx context.Context, laufzeit int) (ResultsScreen, error) {
	ctx, span := tracer.Start(ctx, "establishBase")
	defer span.End()

	var lastErr error
	for attempt := 1; attempt <= c.opts.BaseAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		screen, err := c.driver.EstablishBase(ctx, laufzeit, c.opts.Params)
		if err == nil {
			return screen, nil
		}
		lastErr = err
		slog.WarnContext(
			ctx, "failed to establish base form state",
			"laufzeit_jahre", laufzeit,
			"attempt", attempt,
			"err", err,
		)

		err = c.driver.Reset(ctx)
		if err != nil {
			slog.WarnContext(ctx, "failed to reset form driver", "err", err)
		}
	}
	return nil, lastErr
}

// captureStep moves the Fixierung slider and waits (bounded) for the
// results screen to reflect the new value before extracting it. Each
// attempt gets a fresh StepWait deadline.
func (c *Controller) captureStep(ctx context.Context, screen ResultsScreen, fixierung int) (Variation, error) {
	var lastErr error
	for attempt := 1; attempt <= c.opts.StepAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Variation{}, err
		}

		variation, err := c.captureStepOnce(ctx, screen, fixierung)
		if err == nil {
			return variation, nil
		}
		lastErr = err
	}
	return Variation{}, lastErr
}

func (c *Controller) captureStepOnce(parent context.Context, screen ResultsScreen, fixierung int) (Variation, error) {
	ctx, cancel := context.WithTimeout(parent, c.opts.StepWait)
	defer cancel()

	ctx, span := tracer.Start(ctx, "captureStep")
	defer span.End()
	span.SetAttributes(attribute.Int("fixierung_jahre", fixierung))

	err := screen.SetFixierung(ctx, fixierung)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set fixierung")
		return Variation{}, err
	}

	for {
		fields, err := screen.Fields(ctx)
		if err == nil {
			var variation Variation
			variation, err = ExtractVariation(fields)
			if err == nil && variation.FixierungJahre == fixierung {
				return variation, nil
			}
			if err == nil {
				err = fmt.Errorf(
					"results screen is stale: shows fixierung=%d, want %d",
					variation.FixierungJahre, fixierung,
				)
			}
		}

		// the screen may simply not have caught up with the slider yet
		select {
		case <-ctx.Done():
			span.RecordError(err)
			span.SetStatus(codes.Error, "step timed out")
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return Variation{}, err
			}
			return Variation{}, fmt.Errorf("fixierung=%d: %w", fixierung, ctx.Err())
		case <-time.After(c.opts.PollInterval):
		}
	}
}
