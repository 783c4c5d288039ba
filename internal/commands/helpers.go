package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/gerunddev/marktree/internal/config"
	"github.com/gerunddev/marktree/internal/logger"
	"github.com/gerunddev/marktree/parser"
)

// Env carries what every command needs
type Env struct {
	Config     *config.Config
	ConfigPath string
	Logger     *logger.Logger
	Stdin      io.Reader
	Stdout     io.Writer
	// Interactive enables terminal UIs such as the check spinner
	Interactive bool
}

// NewEnv loads configuration from configPath (or the default location when
// empty) and wires standard input and output
func NewEnv(configPath string) (*Env, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath == "" {
		configPath = config.ConfigPath()
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &Env{
		Config:      cfg,
		ConfigPath:  configPath,
		Logger:      logger.Discard(),
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Interactive: isatty.IsTerminal(os.Stdout.Fd()),
	}, nil
}

// SetupLogger builds the logger from config. Verbose mode logs at debug
// level to stderr, in addition to the configured log file if any.
func SetupLogger(cfg *config.Config, verbose bool) (*logger.Logger, func(), error) {
	noop := func() {}
	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = log.DebugLevel
	}

	if cfg.LogFile == "" {
		if verbose {
			return logger.NewWithLevel(os.Stderr, level), noop, nil
		}
		return logger.Discard(), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if !verbose {
		return logger.NewFileLogger(cfg.LogFile, level)
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewMultiLogger(level, os.Stderr, f), func() { f.Close() }, nil
}

// readInput reads path, or standard input when path is "-"
func (e *Env) readInput(path string) (name string, content []byte, err error) {
	if path == "-" {
		content, err = io.ReadAll(e.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return "stdin", content, nil
	}

	content, err = os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return path, content, nil
}

// loadDocument reads and parses a single input, logging the outcome
func (e *Env) loadDocument(path string) (string, *parser.Document, error) {
	name, content, err := e.readInput(path)
	if err != nil {
		return "", nil, err
	}

	start := time.Now()
	doc, err := parser.Parse(string(content))
	if err != nil {
		e.Logger.ParseFailed(name, err)
		return name, nil, fmt.Errorf("%s: %w", name, err)
	}
	e.Logger.DocumentParsed(name, int64(len(content)), len(doc.Blocks), time.Since(start))

	return name, doc, nil
}
