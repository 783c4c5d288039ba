// Package commands implements the marktree subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/gerunddev/marktree/internal/batch"
	"github.com/gerunddev/marktree/internal/config"
	"github.com/gerunddev/marktree/internal/diff"
	"github.com/gerunddev/marktree/internal/render"
	"github.com/gerunddev/marktree/internal/state"
	"github.com/gerunddev/marktree/internal/styles"
	"github.com/gerunddev/marktree/internal/tui"
)

// ErrCheckFailed is returned by Check when at least one document failed
// to parse
var ErrCheckFailed = errors.New("check failed")

// Parse prints the document tree of path in the given format. An empty
// format uses the configured default.
func Parse(env *Env, path, format string) error {
	if format == "" {
		format = env.Config.OutputFormat
	}

	_, doc, err := env.loadDocument(path)
	if err != nil {
		return err
	}

	return render.Encode(env.Stdout, doc, format)
}

// Outline prints a styled one-line-per-block outline of path
func Outline(env *Env, path string) error {
	_, doc, err := env.loadDocument(path)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(env.Stdout, render.Outline(doc))
	return err
}

// Fmt prints the normalized form of path, or writes it back in place
func Fmt(env *Env, path string, write bool) error {
	if write && path == "-" {
		return fmt.Errorf("cannot write back to stdin")
	}

	name, doc, err := env.loadDocument(path)
	if err != nil {
		return err
	}
	out, err := render.Format(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if !write {
		_, err = fmt.Fprint(env.Stdout, out)
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(env.Stdout, styles.SuccessStyle.Render(
		fmt.Sprintf("✓ Formatted %s (%s)", path, humanize.Bytes(uint64(len(out))))))
	return nil
}

// Export prints path converted to org-mode
func Export(env *Env, path string) error {
	_, doc, err := env.loadDocument(path)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(env.Stdout, render.Org(doc))
	return err
}

// Diff shows how fmt would change path. Plain output skips glamour.
func Diff(env *Env, path string, plain bool) error {
	name, content, err := env.readInput(path)
	if err != nil {
		return err
	}

	out, err := diff.Generate(name, string(content), diff.Options{
		Pretty:   !plain,
		Style:    env.Config.GlamourStyle,
		WordWrap: env.Config.WordWrap,
	})
	if err != nil {
		env.Logger.ParseFailed(name, err)
		return err
	}

	if out == "" {
		fmt.Fprintln(env.Stdout, styles.DimStyle.Render(name+" is already normalized"))
		return nil
	}

	_, err = fmt.Fprint(env.Stdout, out)
	return err
}

// Check parses every document under dir and reports failures. The state
// file is updated so unchanged files are skipped next time unless force
// is set.
func Check(ctx context.Context, env *Env, dir string, force bool) (*batch.Result, error) {
	statePath := config.StateFilePath()
	st, err := state.Load(statePath)
	if err != nil {
		env.Logger.StateError("load", err)
		st = state.NewState()
	}

	checker := batch.NewChecker(env.Config, st)
	checker.SetLogger(env.Logger)
	checker.SetForce(force)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := func() (*batch.Result, error) {
		return checker.Check(ctx, dir)
	}

	var result *batch.Result
	if env.Interactive {
		result, err = tui.RunCheck(dir, cancel, run)
	} else {
		result, err = run()
		if result != nil {
			fmt.Fprintln(env.Stdout, result.String())
		}
	}
	if err != nil {
		return result, err
	}

	if err := st.Save(statePath); err != nil {
		env.Logger.StateError("save", err)
	}

	if len(result.Failures) == 0 {
		return result, nil
	}

	fmt.Fprintln(env.Stdout)
	for _, path := range result.FailedPaths() {
		fmt.Fprintf(env.Stdout, "%s %s\n",
			styles.ErrorStyle.Render("✗ "+path),
			styles.DimStyle.Render(result.Failures[path].Error()))
	}

	return result, fmt.Errorf("%w: %d of %d files", ErrCheckFailed, len(result.Failures), result.Files)
}

// View opens the interactive block viewer for path
func View(env *Env, path string) error {
	name, doc, err := env.loadDocument(path)
	if err != nil {
		return err
	}

	return tui.RunViewer(name, doc, tui.ViewerOptions{
		GlamourStyle: env.Config.GlamourStyle,
		WordWrap:     env.Config.WordWrap,
	})
}

// ConfigShow prints the effective configuration
func ConfigShow(env *Env) error {
	data, err := env.Config.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, styles.DimStyle.Render("# "+env.ConfigPath))
	_, err = env.Stdout.Write(data)
	return err
}

// ConfigInit writes the default configuration to the config path. An
// existing file is only replaced when force is set.
func ConfigInit(env *Env, force bool) error {
	if _, err := os.Stat(env.ConfigPath); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", env.ConfigPath)
	}

	cfg := config.DefaultConfig()
	if err := cfg.SaveTo(env.ConfigPath); err != nil {
		return err
	}

	env.Logger.ConfigWritten(env.ConfigPath)
	fmt.Fprintln(env.Stdout, styles.SuccessStyle.Render("✓ Wrote "+env.ConfigPath))
	return nil
}

// Version prints version information
func Version(env *Env, version string) {
	fmt.Fprintf(env.Stdout, "marktree v%s\n", version)
}
