// Command marktree parses, formats and inspects documents written in the
// marktree markdown dialect.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/gerunddev/marktree/internal/commands"
	"github.com/gerunddev/marktree/internal/config"
)

const version = "0.1.0"

// CLI defines the command-line interface for marktree.
var CLI struct {
	// Global flags
	ConfigFile string `name:"config" short:"c" help:"Config file path" type:"path"`
	Verbose    bool   `short:"v" help:"Log debug output to stderr"`

	Parse   ParseCmd   `cmd:"" help:"Print the document tree"`
	Outline OutlineCmd `cmd:"" help:"Print a one-line-per-block outline"`
	Fmt     FmtCmd     `cmd:"" help:"Print or rewrite a document in normalized form"`
	Diff    DiffCmd    `cmd:"" help:"Show what fmt would change"`
	Export  ExportCmd  `cmd:"" help:"Convert a document to org-mode"`
	Check   CheckCmd   `cmd:"" help:"Parse every document under a directory"`
	Status  StatusCmd  `cmd:"" help:"Show what the last check recorded for each file"`
	View    ViewCmd    `cmd:"" help:"Browse the blocks of a document interactively"`
	Config  ConfigCmd  `cmd:"" help:"Configuration management"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ParseCmd prints the parsed tree.
type ParseCmd struct {
	File   string `arg:"" help:"Document to parse, or - for stdin"`
	Format string `short:"f" help:"Output format (yaml, json, pp); defaults to output_format from config"`
}

func (c *ParseCmd) Run(env *commands.Env) error {
	return commands.Parse(env, c.File, c.Format)
}

// OutlineCmd prints a styled outline.
type OutlineCmd struct {
	File string `arg:"" help:"Document to outline, or - for stdin"`
}

func (c *OutlineCmd) Run(env *commands.Env) error {
	return commands.Outline(env, c.File)
}

// FmtCmd normalizes a document.
type FmtCmd struct {
	File  string `arg:"" help:"Document to format, or - for stdin"`
	Write bool   `short:"w" help:"Write the result back to the file"`
}

func (c *FmtCmd) Run(env *commands.Env) error {
	return commands.Fmt(env, c.File, c.Write)
}

// DiffCmd shows the normalization diff.
type DiffCmd struct {
	File  string `arg:"" help:"Document to diff, or - for stdin"`
	Plain bool   `help:"Print the raw unified diff without rendering"`
}

func (c *DiffCmd) Run(env *commands.Env) error {
	return commands.Diff(env, c.File, c.Plain)
}

// ExportCmd converts a document to org-mode.
type ExportCmd struct {
	File string `arg:"" help:"Document to export, or - for stdin"`
}

func (c *ExportCmd) Run(env *commands.Env) error {
	return commands.Export(env, c.File)
}

// CheckCmd parses a directory tree.
type CheckCmd struct {
	Dir   string `arg:"" help:"Directory to check" type:"existingdir"`
	Force bool   `help:"Parse files even if unchanged since the last check"`
}

func (c *CheckCmd) Run(env *commands.Env) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err := commands.Check(ctx, env, c.Dir, c.Force)
	return err
}

// StatusCmd prints the recorded check state.
type StatusCmd struct{}

func (c *StatusCmd) Run(env *commands.Env) error {
	return commands.Status(env)
}

// ViewCmd opens the interactive viewer.
type ViewCmd struct {
	File string `arg:"" help:"Document to view, or - for stdin"`
}

func (c *ViewCmd) Run(env *commands.Env) error {
	return commands.View(env, c.File)
}

// ConfigCmd groups configuration subcommands.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration"`
	Init ConfigInitCmd `cmd:"" help:"Write the default configuration file"`
}

// ConfigShowCmd prints the configuration.
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(env *commands.Env) error {
	return commands.ConfigShow(env)
}

// ConfigInitCmd writes a default configuration.
type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file"`
}

func (c *ConfigInitCmd) Run(env *commands.Env) error {
	return commands.ConfigInit(env, c.Force)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(env *commands.Env) error {
	commands.Version(env, version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("marktree"),
		kong.Description(fmt.Sprintf("Parse and inspect marktree documents\n\nConfig file: %s\nState file:  %s",
			config.ConfigPath(), config.StateFilePath())),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	env, err := commands.NewEnv(CLI.ConfigFile)
	ctx.FatalIfErrorf(err)

	log, cleanup, err := commands.SetupLogger(env.Config, CLI.Verbose)
	ctx.FatalIfErrorf(err)
	defer cleanup()
	env.Logger = log
	env.Logger.ConfigLoaded(env.ConfigPath, env.Config.Workers)

	err = ctx.Run(env)
	if err != nil {
		cleanup()
	}
	ctx.FatalIfErrorf(err)
}
