package winget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// ProbeTimeout bounds the lightweight commands used for health checks.
const ProbeTimeout = 10 * time.Second

// Client wraps a Runner with the handful of winget commands pkghub issues.
type Client struct {
	runner Runner
	logger *log.Logger
}

// NewClient creates a Client that issues commands through runner.
func NewClient(runner Runner, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{runner: runner, logger: logger}
}

// Runner returns the underlying command runner.
func (c *Client) Runner() Runner {
	return c.runner
}

// SearchArgs builds `winget search <query>`.
func SearchArgs(query string) []string {
	return []string{"search", query}
}

// ListArgs builds `winget list`, filtered to an exact id when id is set.
func ListArgs(id string) []string {
	if id == "" {
		return []string{"list"}
	}
	return []string{"list", "--id", id}
}

// VersionArgs builds `winget --version`.
func VersionArgs() []string {
	return []string{"--version"}
}

// InstallArgs builds a non-interactive install command. Agreements are always
// accepted and the installer always runs silently; store packages are pinned
// to the msstore source.
func InstallArgs(id string, fromStore bool) []string {
	args := []string{
		"install",
		"--id", id,
		"--accept-package-agreements",
		"--accept-source-agreements",
		"--silent",
	}
	if fromStore {
		args = append(args, "--source", StoreSource)
	}
	return args
}

// Search runs `winget search` and parses the result table. When winget
// rejects the arguments (it does so intermittently for some locales and
// network states) the search is retried once with an explicit --query flag.
func (c *Client) Search(ctx context.Context, query, source string) ([]Package, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Package{}, nil
	}

	res, err := c.runner.Run(ctx, SearchArgs(query), RunOptions{Source: source})
	if code, ok := ExitCodeOf(err); ok && code == CodeInvalidArguments {
		c.logger.Printf("search %q: invalid arguments, retrying with --query", query)
		res, err = c.runner.Run(ctx, []string{"search", "--query", query}, RunOptions{Source: source})
	}
	if err != nil {
		// "No package found" is an empty result, not a failure.
		if code, ok := ExitCodeOf(err); ok && code == CodeNoPackageFound {
			return []Package{}, nil
		}
		return nil, fmt.Errorf("winget search %q failed: %w", query, err)
	}

	return ParseListing(res.Output()), nil
}

// List runs `winget list`, optionally restricted to an exact id, and returns
// the decoded output.
func (c *Client) List(ctx context.Context, id string) (string, error) {
	res, err := c.runner.Run(ctx, ListArgs(id), RunOptions{Timeout: ProbeTimeout})
	if err != nil {
		return "", fmt.Errorf("winget list failed: %w", err)
	}
	return res.Output(), nil
}

// Version returns the output of `winget --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.runner.Run(ctx, VersionArgs(), RunOptions{Timeout: ProbeTimeout})
	if err != nil {
		if errors.Is(err, ErrToolNotFound) {
			return "", err
		}
		return "", fmt.Errorf("winget --version failed: %w", err)
	}
	return strings.TrimSpace(res.Output()), nil
}
