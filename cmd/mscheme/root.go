package main

import (
	"fmt"
	"os"

	"github.com/dtonhofer/micro-scheme-interpreter/cmd/mscheme/logger"
	"github.com/dtonhofer/micro-scheme-interpreter/interp"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	gcstat     bool
	noSynCheck bool
	quiet      bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mscheme [file...]",
	Short: "A small Scheme interpreter",
	Long: `mscheme evaluates each file argument in order, then reads and
evaluates forms from standard input. A syntax or evaluation error on one
top-level form is reported and the session continues with the next form;
an internal error is fatal.`,
	Version: "0.1.0",
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMscheme(args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&gcstat, "gcstat", false, "Print heap and stack statistics on exit")
	rootCmd.PersistentFlags().BoolVar(&noSynCheck, "no-syntax-check", false, "Disable syntax checking of special forms")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the --gcstat banner's leading label")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug-level) logging")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMscheme(paths []string) error {
	logger.Init(logger.Options{Verbose: verbose})

	opts := interp.DefaultOptions()
	opts.SyntaxCheck = !noSynCheck

	in, err := interp.New(opts, os.Stdout)
	if err != nil {
		return fmt.Errorf("initializing interpreter: %w", err)
	}
	logger.Debug("interpreter initialized", "pair-cells", opts.PairCells, "block-bytes", opts.BlockBytes)

	for _, path := range paths {
		logger.Info("evaluating file", "path", path)
		if err := in.RunFile(path, os.Stderr); err != nil {
			logger.Error("fatal error evaluating file", "path", path, "err", err)
			printGCStatIfRequested(in)
			os.Exit(1)
		}
	}

	logger.Info("reading from standard input")
	if err := in.RunStdin(os.Stdin, os.Stderr); err != nil {
		logger.Error("fatal error evaluating standard input", "err", err)
		printGCStatIfRequested(in)
		os.Exit(1)
	}

	printGCStatIfRequested(in)
	return nil
}

func printGCStatIfRequested(in *interp.Interpreter) {
	if !gcstat {
		return
	}
	pairFree, blockFree, pointerFree, labelFree := in.GCStat()
	if !quiet {
		fmt.Fprint(os.Stdout, "gcstat: ")
	}
	fmt.Fprintf(os.Stdout, "pair-free=%d block-free=%d stack-free=%d label-stack-free=%d\n",
		pairFree, blockFree, pointerFree, labelFree)
}
