package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/pkghub/internal/install"
)

// terminalPrompter asks on the terminal before restarting elevated.
type terminalPrompter struct {
	in     io.Reader
	out    io.Writer
	assume bool
}

// newPrompter returns a prompter for the command's streams. With assumeYes
// it confirms without asking. When stdin is not a terminal and assumeYes is
// false it always declines.
func newPrompter(in io.Reader, out io.Writer, assumeYes bool) install.Prompter {
	if !assumeYes {
		f, ok := in.(*os.File)
		if !ok || !isatty.IsTerminal(f.Fd()) {
			return install.Decline
		}
	}
	return &terminalPrompter{in: in, out: out, assume: assumeYes}
}

func (p *terminalPrompter) ConfirmElevation(_ context.Context, id, name string) bool {
	if p.assume {
		return true
	}
	fmt.Fprintf(p.out, "Installing %s needs administrator rights.\n", name)
	fmt.Fprint(p.out, "Restart pkghub as administrator? [y/N]: ")
	return readYes(p.in)
}

// readYes reads one line and accepts "y" or "yes".
func readYes(in io.Reader) bool {
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
