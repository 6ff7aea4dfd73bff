// Package install drives a winget install from request to verified result:
// privilege check, command execution, failure classification and
// post-install verification.
package install

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/pkghub/internal/notify"
	"github.com/blackwell-systems/pkghub/internal/store"
	"github.com/blackwell-systems/pkghub/internal/winget"
)

const (
	// Timeout bounds a single winget install.
	Timeout = 5 * time.Minute
	// SettleDelay is waited after a successful install before verifying.
	SettleDelay = 3 * time.Second
	// VerifyBackoff separates verification attempts.
	VerifyBackoff = time.Second
	// RelaunchGrace is waited after an elevated relaunch before exiting.
	RelaunchGrace = time.Second
)

// State is a step in the install workflow.
type State string

const (
	StateRequested      State = "requested"
	StatePrivilegeCheck State = "privilege-check"
	StateDenied         State = "denied"
	StateProceeding     State = "proceeding"
	StateExecuting      State = "executing"
	StateVerifying      State = "verifying"
	StateCompleted      State = "completed"
	StateFailed         State = "failed"
	StateUnverified     State = "unverified"
)

var storeIDPattern = regexp.MustCompile(`(?i)^[A-Z0-9]{9,12}$`)

// IsStoreID reports whether id looks like a Microsoft Store product id.
func IsStoreID(id string) bool {
	return storeIDPattern.MatchString(id)
}

var placeholderIDs = []string{"unknown", "undefined", "null"}

// ValidID reports whether id can be passed to winget.
func ValidID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	for _, p := range placeholderIDs {
		if strings.EqualFold(id, p) {
			return false
		}
	}
	return true
}

// Outcome is the result of one install request. It is not modified after
// Install returns.
type Outcome struct {
	RequestID        string
	ID               string
	Name             string
	State            State
	Transitions      []State
	Success          bool
	Source           string
	ExitCode         int64
	Err              error
	Failure          FailureKind
	Message          string
	IsStore          bool
	Verified         bool
	Unverified       bool
	RequiresAdmin    bool
	RestartConfirmed bool
	Attempts         int
	Version          string
}

// Recorder persists successful installs. *store.Store implements it.
type Recorder interface {
	RecordInstall(ctx context.Context, app store.InstalledApp) error
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Orchestrator runs install requests.
type Orchestrator struct {
	runner   winget.Runner
	elevator Elevator
	prompter Prompter
	sink     notify.Sink
	recorder Recorder
	registry *Registry
	logger   *log.Logger
	sleep    Sleeper
	exit     func(code int)
	now      func() time.Time
}

// NewOrchestrator creates an Orchestrator that runs winget through runner.
// It assumes elevation and declines relaunch prompts until configured
// otherwise.
func NewOrchestrator(runner winget.Runner, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{
		runner:   runner,
		elevator: AlwaysElevated{},
		prompter: Decline,
		sink:     notify.Discard,
		registry: NewRegistry(),
		logger:   logger,
		sleep:    sleepCtx,
		exit:     func(int) {},
		now:      time.Now,
	}
}

func (o *Orchestrator) SetElevator(e Elevator)       { o.elevator = e }
func (o *Orchestrator) SetPrompter(p Prompter)       { o.prompter = p }
func (o *Orchestrator) SetRecorder(r Recorder)       { o.recorder = r }
func (o *Orchestrator) SetSleeper(s Sleeper)         { o.sleep = s }
func (o *Orchestrator) SetExit(fn func(int))         { o.exit = fn }
func (o *Orchestrator) SetClock(fn func() time.Time) { o.now = fn }

// SetSink sets where status events go.
func (o *Orchestrator) SetSink(s notify.Sink) {
	if s == nil {
		s = notify.Discard
	}
	o.sink = s
}

// Registry returns the in-flight registry.
func (o *Orchestrator) Registry() *Registry { return o.registry }

type run struct {
	o   *Orchestrator
	out Outcome
}

func (r *run) to(s State) {
	r.out.State = s
	r.out.Transitions = append(r.out.Transitions, s)
	r.o.logger.Printf("install %s [%s]: %s", r.out.ID, r.out.RequestID, s)
}

func (r *run) notify(status notify.Status, msg string) {
	r.o.sink.Notify(notify.Event{
		RequestID: r.out.RequestID,
		PackageID: r.out.ID,
		Status:    status,
		Message:   msg,
		Time:      r.o.now(),
	})
}

func (r *run) fail(err error, msg string) (Outcome, error) {
	r.out.Err = err
	r.out.Message = msg
	if r.out.State != StateDenied && r.out.State != StateUnverified {
		r.to(StateFailed)
	}
	r.notify(notify.StatusFailed, msg)
	return r.out, err
}

// Install installs the package id. name is used for messages only. The
// returned error is the Outcome's Err and is nil only on verified (or store)
// success.
func (o *Orchestrator) Install(ctx context.Context, id, name string) (Outcome, error) {
	id = strings.TrimSpace(id)
	if name == "" {
		name = id
	}
	r := &run{o: o, out: Outcome{RequestID: uuid.NewString(), ID: id, Name: name}}
	r.to(StateRequested)

	if !ValidID(id) {
		return r.fail(fmt.Errorf("%w: %q", ErrInvalidIdentifier, id), fmt.Sprintf("invalid package id %q", id))
	}

	release, ok := o.registry.Acquire(id)
	if !ok {
		return r.fail(fmt.Errorf("%s: %w", id, ErrInstallInProgress), fmt.Sprintf("%s is already being installed", name))
	}
	defer release()

	r.notify(notify.StatusStarted, fmt.Sprintf("installing %s", name))

	r.to(StatePrivilegeCheck)
	elevated, err := o.elevator.IsElevated(ctx)
	if err != nil {
		o.logger.Printf("install %s: privilege check: %v", id, err)
	}
	if !elevated {
		return r.deny(ctx)
	}
	r.to(StateProceeding)

	r.out.IsStore = IsStoreID(id)
	r.out.Source = winget.DefaultSource
	if r.out.IsStore {
		r.out.Source = winget.StoreSource
	}

	r.to(StateExecuting)
	_, err = o.runner.Run(ctx, winget.InstallArgs(id, r.out.IsStore), winget.RunOptions{Timeout: Timeout})
	if err != nil {
		return r.failInstall(err)
	}

	if r.out.IsStore {
		// Store packages often do not appear in `winget list`.
		r.out.Success = true
		r.to(StateCompleted)
		r.out.Message = "installed from the Microsoft Store; it may not appear in winget list"
		r.record(ctx)
		r.notify(notify.StatusCompleted, r.out.Message)
		return r.out, nil
	}

	r.to(StateVerifying)
	if err := o.sleep(ctx, SettleDelay); err != nil {
		return r.fail(err, "install interrupted before verification")
	}
	pkg, attempts, found := o.verify(ctx, id)
	r.out.Attempts = attempts
	if !found {
		r.out.Unverified = true
		r.to(StateUnverified)
		return r.fail(ErrVerificationInconclusive,
			"winget reported success but the package was not found; a restart or manual check may be needed")
	}

	r.out.Success = true
	r.out.Verified = true
	r.out.Version = pkg.Version
	r.to(StateCompleted)
	r.out.Message = fmt.Sprintf("%s installed", name)
	r.record(ctx)
	r.notify(notify.StatusCompleted, r.out.Message)
	return r.out, nil
}

func (r *run) deny(ctx context.Context) (Outcome, error) {
	o := r.o
	r.to(StateDenied)
	r.out.RequiresAdmin = true
	r.out.Failure = FailureElevation
	msg := "administrator privileges required; run pkghub as administrator"
	r.notify(notify.StatusFailed, msg)

	if o.prompter.ConfirmElevation(ctx, r.out.ID, r.out.Name) {
		if err := o.elevator.Relaunch(ctx); err != nil {
			o.logger.Printf("install %s: relaunch: %v", r.out.ID, err)
			msg = fmt.Sprintf("%s (relaunch failed: %v)", msg, err)
		} else {
			r.out.RestartConfirmed = true
			go func() {
				_ = o.sleep(context.Background(), RelaunchGrace)
				o.exit(0)
			}()
		}
	}

	r.out.Err = ErrElevationRequired
	r.out.Message = msg
	return r.out, r.out.Err
}

func (r *run) failInstall(err error) (Outcome, error) {
	kind, msg := Classify(err)
	r.out.Failure = kind
	if code, ok := winget.ExitCodeOf(err); ok {
		r.out.ExitCode = code
	}
	if kind.NeedsAdmin() {
		r.out.RequiresAdmin = true
		err = fmt.Errorf("%w: %w", ErrElevationRequired, err)
	}
	return r.fail(err, msg)
}

func (r *run) record(ctx context.Context) {
	if r.o.recorder == nil {
		return
	}
	app := store.InstalledApp{
		ID:          r.out.ID,
		Name:        r.out.Name,
		Version:     r.out.Version,
		Source:      r.out.Source,
		InstalledAt: r.o.now(),
	}
	if err := r.o.recorder.RecordInstall(ctx, app); err != nil {
		r.o.logger.Printf("install %s: record: %v", r.out.ID, err)
	}
}

