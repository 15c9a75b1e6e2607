package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/italypaleale/actorgen/generator"
	"github.com/italypaleale/actorgen/internal/config"
	"github.com/italypaleale/actorgen/internal/logging"
)

// options defines the flags for the command.
type options struct {
	flags      *config.Config
	configPath string
	outPath    string
	dryRun     bool

	// Set by complete
	cfg   *config.Config
	input string
	log   *slog.Logger
	level slog.Level
}

func newOptions() *options {
	return &options{
		flags: config.Default(),
	}
}

func newCommand() *cobra.Command {
	o := newOptions()

	cmd := &cobra.Command{
		Use:   "actorgen [flags] [file.actors.go]",
		Short: "Synthesize actors from message sets and states",
		Long: `actorgen reads the message sets and states declared in a Go source file and writes
the actor handles, constructors, and dispatch loops to a new file.

When no file is given, the file that contains the go:generate directive is used.
Configuration is read from the defaults, then the config file, then the ACTORGEN_*
environment variables, then the flags.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := o.complete(cmd, args)
			if err != nil {
				return err
			}
			return o.run(cmd)
		},
	}
	o.addFlags(cmd)

	return cmd
}

// addFlags binds the flags to the command.
func (o *options) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.outPath, "out", "o", "", "Path of the generated file (default: the input's name, with _actors_gen.go replacing .actors.go)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "Path of the TOML configuration file")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Print the generated code to stdout instead of writing it")

	cmd.Flags().StringVar(&o.flags.MessageSuffix, "suffix", o.flags.MessageSuffix, "Suffix of the names of message-set interfaces")
	cmd.Flags().StringVar(&o.flags.ReplyField, "reply-field", o.flags.ReplyField, "Name of the field that carries the reply in request variants")
	cmd.Flags().StringVar(&o.flags.HandlePrefix, "handle-prefix", o.flags.HandlePrefix, "Prefix of the names of handle types")
	cmd.Flags().StringVar(&o.flags.NoWaitSuffix, "no-wait-suffix", o.flags.NoWaitSuffix, "Suffix of the names of fire-and-forget methods")
	cmd.Flags().StringVar(&o.flags.HandlerName, "handler", o.flags.HandlerName, "Name of the method on the state that handles messages")
	cmd.Flags().StringVar(&o.flags.ReceiverField, "receiver-field", o.flags.ReceiverField, "Name of the field added to the state to hold the mailbox")
	cmd.Flags().StringVar(&o.flags.RuntimePackage, "runtime", o.flags.RuntimePackage, "Import path of the runtime package used by the generated code")
	cmd.Flags().StringVar(&o.flags.BuildTag, "build-tag", o.flags.BuildTag, "Build tag whose constraint is removed from the generated file")
	cmd.Flags().BoolVar(&o.flags.Strict, "strict", o.flags.Strict, "Fail on warnings too")
	cmd.Flags().StringVar(&o.flags.LogLevel, "log-level", o.flags.LogLevel, "Log level (debug|info|warn|error)")
}

// complete merges the config file, the environment, and the flags that were set, and resolves the input file.
func (o *options) complete(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	if o.configPath != "" {
		err := cfg.LoadFile(o.configPath)
		if err != nil {
			return err
		}
	}

	err := cfg.LoadEnv(nil)
	if err != nil {
		return err
	}

	var flagErr error
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "suffix":
			cfg.MessageSuffix = o.flags.MessageSuffix
		case "reply-field":
			cfg.ReplyField = o.flags.ReplyField
		case "handle-prefix":
			cfg.HandlePrefix = o.flags.HandlePrefix
		case "no-wait-suffix":
			cfg.NoWaitSuffix = o.flags.NoWaitSuffix
		case "handler":
			cfg.HandlerName = o.flags.HandlerName
		case "receiver-field":
			cfg.ReceiverField = o.flags.ReceiverField
		case "runtime":
			cfg.RuntimePackage = o.flags.RuntimePackage
		case "build-tag":
			cfg.BuildTag = o.flags.BuildTag
		case "strict":
			cfg.Strict = o.flags.Strict
		case "log-level":
			cfg.LogLevel = o.flags.LogLevel
		case "out", "config", "dry-run":
			// Not part of the config
		default:
			flagErr = fmt.Errorf("unknown flag '%s'", flag.Name)
		}
	})
	if flagErr != nil {
		return flagErr
	}
	o.cfg = cfg

	o.level, err = cfg.Level()
	if err != nil {
		return err
	}
	o.log = logging.New(cmd.ErrOrStderr(), o.level)

	switch {
	case len(args) == 1:
		o.input = args[0]
	case os.Getenv("GOFILE") != "":
		// Invoked by go generate
		o.input = os.Getenv("GOFILE")
	default:
		return errors.New("no input file")
	}

	if o.outPath == "" {
		o.outPath = generator.OutputPath(o.input)
	}

	return nil
}

// run synthesizes the actors and writes the output.
func (o *options) run(cmd *cobra.Command) error {
	gen, err := generator.New(o.cfg.GeneratorOptions(o.log)...)
	if err != nil {
		return err
	}

	var res *generator.Result
	if o.dryRun {
		var src []byte
		src, err = os.ReadFile(o.input)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		res, err = gen.Generate(o.input, src)
	} else {
		res, err = gen.GenerateFile(o.input, o.outPath)
	}

	if res != nil {
		o.printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)
	}
	if errors.Is(err, generator.ErrSynthesisFailed) {
		// The diagnostics were already printed
		return generator.ErrSynthesisFailed
	} else if err != nil {
		return err
	}

	if o.dryRun {
		_, err = cmd.OutOrStdout().Write(res.Source)
		return err
	}

	o.log.Info("Wrote generated file",
		slog.String("out", o.outPath),
		slog.Int("actors", len(res.Actors)),
	)
	return nil
}

// printDiagnostics writes one line per diagnostic; info diagnostics are only written at debug level.
func (o *options) printDiagnostics(w io.Writer, diags generator.Diagnostics) {
	min := generator.SeverityWarning
	if o.level <= slog.LevelDebug {
		min = generator.SeverityInfo
	}
	for _, d := range diags.Filter(min) {
		fmt.Fprintln(w, d.Error())
	}
}
