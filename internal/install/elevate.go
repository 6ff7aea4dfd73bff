package install

import "context"

// Elevator checks for and obtains administrator rights.
type Elevator interface {
	// IsElevated reports whether the current process has administrator
	// rights.
	IsElevated(ctx context.Context) (bool, error)
	// Relaunch starts a new elevated copy of the current process.
	Relaunch(ctx context.Context) error
}

// Prompter asks the user whether to restart elevated.
type Prompter interface {
	ConfirmElevation(ctx context.Context, id, name string) bool
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(ctx context.Context, id, name string) bool

func (f PromptFunc) ConfirmElevation(ctx context.Context, id, name string) bool {
	return f(ctx, id, name)
}

// Decline is a Prompter that always refuses.
var Decline Prompter = PromptFunc(func(context.Context, string, string) bool { return false })

// AlwaysElevated is an Elevator for environments where privileges are not a
// concern.
type AlwaysElevated struct{}

func (AlwaysElevated) IsElevated(context.Context) (bool, error) { return true, nil }
func (AlwaysElevated) Relaunch(context.Context) error           { return ErrRelaunchUnsupported }
