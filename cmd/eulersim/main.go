package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/eulersim/internal/config"
	"github.com/san-kum/eulersim/internal/dynamo"
	"github.com/san-kum/eulersim/internal/equations"
	"github.com/san-kum/eulersim/internal/integrators"
)

const (
	exitOK               = 0
	exitError            = 1
	exitInvalidParameter = 2
	exitNumerical        = 3
)

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	dataDir string
	verbose bool
}

// problemOptions holds the flags that describe a single initial value problem.
type problemOptions struct {
	t0, y0, h, rate  float64
	steps            int
	equation, method string
	configFile       string
	preset           string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		a.reportError(err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch dynamo.Kind(err) {
	case "":
		return exitOK
	case dynamo.KindInvalidParameter:
		return exitInvalidParameter
	case dynamo.KindNumerical:
		return exitNumerical
	default:
		return exitError
	}
}

func (a *app) reportError(err error) {
	kind := lipgloss.NewRenderer(a.stderr).NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
	fmt.Fprintf(a.stderr, "%s %v\n", kind.Render(dynamo.Kind(err)+":"), err)
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

func (a *app) newRootCmd() *cobra.Command {
	var (
		opts    problemOptions
		printN  int
		save    bool
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "eulersim",
		Short: "explicit Euler integration of scalar ODEs",
		Long: "Integrates dy/dt = f(t, y) with fixed steps and prints the first samples.\n" +
			"The default problem is dy/dt = -2y, y(0) = 1, h = 0.01, 1000 steps.",
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runIntegration(cmd, &opts, printN, save, timeout)
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return dynamo.InvalidParameter("%v", err)
	})

	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data", ".eulersim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	bindProblemFlags(rootCmd, &opts)
	rootCmd.Flags().IntVar(&printN, "print", config.DefaultPrint, "number of leading samples to print")
	rootCmd.Flags().BoolVar(&save, "save", false, "persist the run under --data")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "abort integration after this long (0 = no limit)")

	rootCmd.AddCommand(
		a.newListCmd(),
		a.newPlotCmd(),
		a.newExportJSONCmd(),
		a.newExportCSVCmd(),
		a.newExportSVGCmd(),
		a.newCompareCmd(),
		a.newConvergeCmd(),
		a.newLiveCmd(),
		a.newPresetsCmd(),
		a.newEquationsCmd(),
	)

	return rootCmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return dynamo.InvalidParameter("unexpected argument %q for %s", args[0], cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return dynamo.InvalidParameter("%s takes %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func bindProblemFlags(cmd *cobra.Command, o *problemOptions) {
	cmd.Flags().Float64Var(&o.t0, "t0", config.DefaultT0, "initial time")
	cmd.Flags().Float64Var(&o.y0, "y0", config.DefaultY0, "initial value")
	cmd.Flags().Float64Var(&o.h, "h", config.DefaultH, "step size")
	cmd.Flags().IntVar(&o.steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&o.equation, "equation", config.DefaultEquation, "right-hand side (see 'equations')")
	cmd.Flags().Float64Var(&o.rate, "rate", 0, "equation rate parameter (default: the equation's own rate)")
	cmd.Flags().StringVar(&o.method, "method", config.DefaultMethod, "integration method (euler, heun, rk4)")
	cmd.Flags().StringVar(&o.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&o.preset, "preset", "", "use preset configuration for --equation")
}

// resolveConfig layers defaults, then a preset, then a config file, then any
// flag set explicitly on the command line.
func resolveConfig(cmd *cobra.Command, o *problemOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if o.preset != "" {
		p := config.GetPreset(o.equation, o.preset)
		if p == nil {
			return nil, dynamo.InvalidParameter("unknown preset: %s (available for %s: %v)", o.preset, o.equation, config.ListPresets(o.equation))
		}
		cfg = p
	}

	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, dynamo.InvalidParameter("config file not found: %s", o.configFile)
			}
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("t0") {
		cfg.T0 = o.t0
	}
	if flags.Changed("y0") {
		cfg.Y0 = o.y0
	}
	if flags.Changed("h") {
		cfg.H = o.h
	}
	if flags.Changed("steps") {
		cfg.Steps = o.steps
	}
	if flags.Changed("equation") {
		cfg.Equation = o.equation
	}
	if flags.Changed("rate") {
		cfg.Rate = config.RateOf(o.rate)
	}
	if flags.Changed("method") {
		cfg.Method = o.method
	}

	return cfg, nil
}

func (a *app) solverFor(method string) (*dynamo.Solver, error) {
	stepper, err := integrators.Lookup(method)
	if err != nil {
		return nil, err
	}
	return dynamo.New(stepper).WithLogger(a.logger()), nil
}

func (a *app) runIntegration(cmd *cobra.Command, o *problemOptions, printN int, save bool, timeout time.Duration) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("print") {
		cfg.Print = printN
	}
	if cfg.Print < 0 {
		return dynamo.InvalidParameter("print: must be non-negative, got %d", cfg.Print)
	}

	problem, eq, err := cfg.Problem()
	if err != nil {
		return err
	}
	solver, err := a.solverFor(cfg.Method)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tr, err := solver.Integrate(ctx, problem)
	if err != nil && (tr == nil || !tr.Incomplete) {
		return err
	}

	out := cmd.OutOrStdout()
	for _, pt := range tr.Head(cfg.Print) {
		fmt.Fprintf(out, "y(%s) = %s\n", formatFloat(pt.T), formatFloat(pt.Y))
	}

	if tr.Incomplete {
		return fmt.Errorf("integration stopped after %d of %d points: %w", tr.Len(), problem.Steps+1, err)
	}

	if save {
		id, err := a.saveRun(cfg, eq, tr)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", id)
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func exactFor(eq equations.Equation, rate float64, p dynamo.Problem) equations.Solution {
	if !eq.HasExact() {
		return nil
	}
	return eq.Exact(rate, p.T0, p.Y0)
}
