package sweep

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeScreen serves results for whatever fixierung value was last set,
// with scriptable per-value failures.
type fakeScreen struct {
	laufzeit  int
	fixierung int

	// fixierung -> remaining SetFixierung failures
	setFailures map[int]int
	// fixierung values whose fields never contain a Fixierung row
	brokenFields map[int]bool
	// receives every fixierung value as it is applied
	notify chan int
}

func (s *fakeScreen) SetFixierung(ctx context.Context, jahre int) error {
	if s.setFailures[jahre] > 0 {
		s.setFailures[jahre]--
		return fmt.Errorf("slider did not respond")
	}
	s.fixierung = jahre
	if s.notify != nil {
		// mimic a UI that takes a moment to recompute
		time.Sleep(time.Millisecond * 5)
		select {
		case s.notify <- jahre:
		default:
		}
	}
	return nil
}

func (s *fakeScreen) Fields(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.brokenFields[s.fixierung] {
		return map[string]string{"Zinssatz": "2,650 % p.a."}, nil
	}
	return map[string]string{
		"Fixierung":                 fmt.Sprintf("%d Jahre", s.fixierung),
		"Rate":                      "1.948,50 €",
		"Zinssatz":                  "2,650 % p.a. variabel",
		"Laufzeit":                  fmt.Sprintf("%d Jahre", s.laufzeit),
		"Effektiver Zinssatz":       "2,834 % p.a.",
		"Auszahlungsbetrag":         "400.000 €",
		"Einberechnete Kosten":      "12.345,67 €",
		"Kreditbetrag":              "412.345,67 €",
		"Zu zahlender Gesamtbetrag": "584.550,00 €",
		"Besicherung":               "hypothekarisch",
	}, nil
}

type fakeDriver struct {
	// laufzeit -> remaining EstablishBase failures
	baseFailures map[int]int
	setFailures  map[int]int
	brokenFields map[int]bool
	notify       chan int

	resets  int
	screens []*fakeScreen
}

func (d *fakeDriver) EstablishBase(ctx context.Context, laufzeit int, params RunParameters) (ResultsScreen, error) {
	if d.baseFailures[laufzeit] > 0 {
		d.baseFailures[laufzeit]--
		return nil, fmt.Errorf("results screen unreachable")
	}
	screen := &fakeScreen{
		laufzeit:     laufzeit,
		fixierung:    -1,
		setFailures:  d.setFailures,
		brokenFields: d.brokenFields,
		notify:       d.notify,
	}
	d.screens = append(d.screens, screen)
	return screen, nil
}

func (d *fakeDriver) Reset(ctx context.Context) error {
	d.resets++
	return nil
}

type fakeStore struct {
	mu   sync.Mutex
	runs []Run
	// remaining SaveRun failures
	failures int
}

func (s *fakeStore) SaveRun(ctx context.Context, run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return 0, fmt.Errorf("database is locked")
	}
	s.runs = append(s.runs, run)
	return int64(len(s.runs)), nil
}

func testOptions(plan ...int) Options {
	return Options{
		Plan:          plan,
		FixierungStep: 5,
		StepWait:      time.Millisecond * 200,
		PollInterval:  time.Millisecond * 5,
		Params: RunParameters{
			Kreditbetrag: 500000,
			Kaufpreis:    500000,
		},
	}
}

func fixierungenOf(run Run) []int {
	var out []int
	for _, v := range run.Variations {
		out = append(out, v.FixierungJahre)
	}
	return out
}

func TestRunFullPlan(t *testing.T) {
	driver := &fakeDriver{}
	store := &fakeStore{}
	controller, err := NewController(driver, store, testOptions(15, 20))
	require.NoError(t, err)

	summary, err := controller.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, summary.Attempted)
	require.Equal(t, 2, summary.Succeeded)
	require.Equal(t, 9, summary.TotalVariations)
	require.Zero(t, summary.UnparsedFields)
	require.Zero(t, summary.StorageFailures)

	require.Len(t, store.runs, 2)
	require.Equal(t, []int{0, 5, 10, 15}, fixierungenOf(store.runs[0]))
	require.Equal(t, []int{0, 5, 10, 15, 20}, fixierungenOf(store.runs[1]))
	require.Equal(t, 15, store.runs[0].LaufzeitJahre)
	require.Equal(t, 20, store.runs[1].LaufzeitJahre)
	require.Equal(t, 500000.0, store.runs[0].Params.Kreditbetrag)

	for _, o := range summary.Outcomes {
		require.Equal(t, OutcomeCompleted, o.Kind)
		require.NotZero(t, o.RunId)
	}
}

func TestStepRetrySucceeds(t *testing.T) {
	driver := &fakeDriver{
		setFailures: map[int]int{5: 2},
	}
	store := &fakeStore{}
	controller, err := NewController(driver, store, testOptions(15))
	require.NoError(t, err)

	summary, err := controller.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, OutcomeCompleted, summary.Outcomes[0].Kind)
	require.Equal(t, []int{0, 5, 10, 15}, fixierungenOf(store.runs[0]))
}

func TestStepPermanentFailureSkips(t *testing.T) {
	// fixierung=10 never produces an identifiable record
	driver := &fakeDriver{
		brokenFields: map[int]bool{10: true},
	}
	store := &fakeStore{}
	controller, err := NewController(driver, store, testOptions(15))
	require.NoError(t, err)

	summary, err := controller.Run(context.Background())
	require.NoError(t, err)

	outcome := summary.Outcomes[0]
	require.Equal(t, OutcomePartiallyCompleted, outcome.Kind)
	require.Equal(t, []int{10}, outcome.SkippedFixierungen)
	require.Equal(t, "PartiallyCompleted(1 skipped)", outcome.Describe())

	// records stay in ascending order around the hole
	require.Equal(t, []int{0, 5, 15}, fixierungenOf(store.runs[0]))
	require.Equal(t, 3, summary.TotalVariations)
}

func TestAbortedLaufzeitContinuesPlan(t *testing.T) {
	driver := &fakeDriver{
		baseFailures: map[int]int{20: 99},
	}
	store := &fakeStore{}
	controller, err := NewController(driver, store, testOptions(20, 15))
	require.NoError(t, err)

	summary, err := controller.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, summary.Attempted)
	require.Equal(t, 1, summary.Succeeded)

	require.Equal(t, OutcomeAborted, summary.Outcomes[0].Kind)
	require.Zero(t, summary.Outcomes[0].Variations)
	require.Equal(t, OutcomeCompleted, summary.Outcomes[1].Kind)

	// the aborted laufzeit never reached the results screen, only the
	// surviving one was persisted
	require.Len(t, store.runs, 1)
	require.Equal(t, 15, store.runs[0].LaufzeitJahre)

	// base navigation was retried with a driver reset in between
	require.GreaterOrEqual(t, driver.resets, 3)
}

func TestEmptyRunIsPersisted(t *testing.T) {
	// the results screen is reachable but every step fails
	driver := &fakeDriver{
		brokenFields: map[int]bool{0: true, 5: true},
	}
	store := &fakeStore{}
	controller, err := NewController(driver, store, testOptions(5))
	require.NoError(t, err)

	summary, err := controller.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.runs, 1)
	require.Empty(t, store.runs[0].Variations)
	require.Equal(t, 5, store.runs[0].LaufzeitJahre)

	outcome := summary.Outcomes[0]
	require.Equal(t, OutcomePartiallyCompleted, outcome.Kind)
	require.Equal(t, []int{0, 5}, outcome.SkippedFixierungen)
}

func TestStorageFailureDoesNotStopPlan(t *testing.T) {
	driver := &fakeDriver{}
	store := &fakeStore{failures: 1}
	controller, err := NewController(driver, store, testOptions(15, 20))
	require.NoError(t, err)

	summary, err := controller.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, summary.StorageFailures)
	require.Equal(t, 1, summary.Succeeded)
	require.Error(t, summary.Outcomes[0].StoreErr)
	require.NoError(t, summary.Outcomes[1].StoreErr)

	// the second laufzeit still made it into storage
	require.Len(t, store.runs, 1)
	require.Equal(t, 20, store.runs[0].LaufzeitJahre)
}

func TestIdempotentSweep(t *testing.T) {
	driver := &fakeDriver{}
	store := &fakeStore{}
	controller, err := NewController(driver, store, testOptions(10))
	require.NoError(t, err)

	_, err = controller.Run(context.Background())
	require.NoError(t, err)
	_, err = controller.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.runs, 2)
	require.Equal(t, fixierungenOf(store.runs[0]), fixierungenOf(store.runs[1]))
	require.Equal(t, store.runs[0].Variations, store.runs[1].Variations)
}

func TestCancellationPersistsPartialRun(t *testing.T) {
	driver := &fakeDriver{notify: make(chan int, 16)}
	store := &fakeStore{}
	controller, err := NewController(driver, store, testOptions(35, 30))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	// let a couple of steps finish, then stop the run
	go func() {
		for fixierung := range driver.notify {
			if fixierung >= 5 {
				cancel()
				return
			}
		}
	}()

	summary, err := controller.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// the in-progress group was persisted as partial, the second
	// laufzeit was never attempted
	require.Len(t, store.runs, 1)
	require.Equal(t, 35, store.runs[0].LaufzeitJahre)
	require.NotEmpty(t, store.runs[0].Variations)
	require.Less(t, len(store.runs[0].Variations), 8)
	require.Len(t, summary.Outcomes, 1)
	require.Equal(t, OutcomePartiallyCompleted, summary.Outcomes[0].Kind)
}

func TestInvalidPlanFailsFast(t *testing.T) {
	driver := &fakeDriver{}
	store := &fakeStore{}

	_, err := NewController(driver, store, Options{})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewController(driver, store, Options{Plan: []int{-3}})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewController(driver, store, Options{Plan: []int{20}, FixierungStep: -1})
	require.ErrorIs(t, err, ErrInvalidArgument)
}
