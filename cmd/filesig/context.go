package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gobeaver/filesig"
)

// commandContext carries what every subcommand needs: the loaded
// configuration, a logger and the identifier built from both.
type commandContext struct {
	jsonOutput     bool
	logLevel       string
	signaturesOnly bool

	cfg        *filesig.Config
	logger     *slog.Logger
	identifier *filesig.Identifier
}

func (c *commandContext) load(cmd *cobra.Command) error {
	cfg, err := filesig.GetConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level := strings.TrimSpace(c.logLevel); level != "" {
		cfg.LogLevel = level
	}
	if c.signaturesOnly {
		cfg.DisabledDetectors = strings.Join(append(cfg.Disabled(), filesig.TextDetectorName), ",")
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	identifier, err := filesig.NewIdentifierFromConfig(cfg, filesig.WithLogger(logger))
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	c.identifier = identifier
	return nil
}

// isTerminal reports whether w is an interactive terminal, in which case
// results are drawn as tables instead of tab separated lines.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
