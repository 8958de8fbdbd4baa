package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agentx-labs/labext/internal/logging"
)

var (
	// ErrNoSubcommand is returned when the command line names no subcommand.
	ErrNoSubcommand = errors.New("please supply at least one subcommand")

	// ErrUnknownSubcommand is returned by Run for a Subcommand outside the table.
	ErrUnknownSubcommand = errors.New("unknown subcommand")
)

// Manager is the extension manager the dispatcher drives. Implementations log
// through logging.FromContext(ctx).
type Manager interface {
	Install(ctx context.Context, id, appDir string) error
	Uninstall(ctx context.Context, id, appDir string) (changed bool, err error)
	Link(ctx context.Context, id, appDir string) error
	Unlink(ctx context.Context, id, appDir string) (changed bool, err error)
	Enable(ctx context.Context, id, appDir string) error
	Disable(ctx context.Context, id, appDir string) error
	ListInstalled(ctx context.Context, appDir string) error
	Build(ctx context.Context, appDir string, cleanStaging bool) error
}

// Invocation is the state of a single command-line run. AppDir and WorkDir
// are resolved once at startup by the caller.
type Invocation struct {
	AppDir  string
	WorkDir string
	Args    []string
	NoBuild bool
	Clean   bool
}

// shouldBuild reports whether the post-action build is enabled.
func (inv Invocation) shouldBuild() bool {
	return !inv.NoBuild
}

// idsOrWorkDir returns the positional identifiers, defaulting to WorkDir.
func (inv Invocation) idsOrWorkDir() []string {
	if len(inv.Args) == 0 {
		return []string{inv.WorkDir}
	}
	return inv.Args
}

type handler func(ctx context.Context, m Manager, inv Invocation) error

var handlers = map[Subcommand]handler{
	Install:   runInstall,
	Uninstall: runUninstall,
	List:      runList,
	Link:      runLink,
	Unlink:    runUnlink,
	Enable:    runEnable,
	Disable:   runDisable,
}

// Run performs sub against m.
func Run(ctx context.Context, m Manager, sub Subcommand, inv Invocation) error {
	h, ok := handlers[sub]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSubcommand, int(sub))
	}
	logging.FromContext(ctx).WithField("app_dir", inv.AppDir).Debugf("running %s", sub)
	return h(ctx, m, inv)
}

// NoSubcommandError returns the error reported when no subcommand is given.
func NoSubcommandError() error {
	return fmt.Errorf("%w: %s", ErrNoSubcommand, strings.Join(Names(), ", "))
}

func runInstall(ctx context.Context, m Manager, inv Invocation) error {
	return applyThenBuild(ctx, m, inv, m.Install, m.Uninstall)
}

func runLink(ctx context.Context, m Manager, inv Invocation) error {
	return applyThenBuild(ctx, m, inv, m.Link, m.Unlink)
}

func runUninstall(ctx context.Context, m Manager, inv Invocation) error {
	return removeThenBuild(ctx, m, inv, m.Uninstall)
}

func runUnlink(ctx context.Context, m Manager, inv Invocation) error {
	return removeThenBuild(ctx, m, inv, m.Unlink)
}

func runList(ctx context.Context, m Manager, inv Invocation) error {
	return m.ListInstalled(ctx, inv.AppDir)
}

func runEnable(ctx context.Context, m Manager, inv Invocation) error {
	return each(ctx, inv, m.Enable)
}

func runDisable(ctx context.Context, m Manager, inv Invocation) error {
	return each(ctx, inv, m.Disable)
}

type applyFunc func(ctx context.Context, id, appDir string) error

type removeFunc func(ctx context.Context, id, appDir string) (bool, error)

// applyThenBuild applies every identifier, then builds. A failed build undoes
// each applied identifier once, in the order it was applied.
func applyThenBuild(ctx context.Context, m Manager, inv Invocation, apply applyFunc, undo removeFunc) error {
	ids := inv.idsOrWorkDir()
	for _, id := range ids {
		if err := apply(ctx, id, inv.AppDir); err != nil {
			return err
		}
	}

	if !inv.shouldBuild() {
		return nil
	}

	buildErr := m.Build(ctx, inv.AppDir, inv.Clean)
	if buildErr == nil {
		return nil
	}
	return rollback(ctx, inv.AppDir, ids, undo, buildErr)
}

// rollback undoes every identifier and returns buildErr joined with any
// rollback failures, buildErr first.
func rollback(ctx context.Context, appDir string, ids []string, undo removeFunc, buildErr error) error {
	log := logging.FromContext(ctx)
	log.Warnf("Build failed, rolling back %d extension(s)", len(ids))

	errs := []error{buildErr}
	for _, id := range ids {
		if _, err := undo(ctx, id, appDir); err != nil {
			log.WithField("id", id).Errorf("rollback failed: %v", err)
			errs = append(errs, fmt.Errorf("rolling back %s: %w", id, err))
		}
	}
	if len(errs) == 1 {
		return buildErr
	}
	return errors.Join(errs...)
}

// removeThenBuild removes every identifier, stopping at the first failure,
// and builds only when at least one removal changed something.
func removeThenBuild(ctx context.Context, m Manager, inv Invocation, remove removeFunc) error {
	changed := false
	for _, id := range inv.idsOrWorkDir() {
		c, err := remove(ctx, id, inv.AppDir)
		if err != nil {
			return err
		}
		changed = changed || c
	}

	if changed && inv.shouldBuild() {
		return m.Build(ctx, inv.AppDir, inv.Clean)
	}
	return nil
}

func each(ctx context.Context, inv Invocation, fn applyFunc) error {
	for _, id := range inv.Args {
		if err := fn(ctx, id, inv.AppDir); err != nil {
			return err
		}
	}
	return nil
}
