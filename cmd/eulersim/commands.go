package main

import (
	"fmt"
	"math"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/eulersim/internal/analysis"
	"github.com/san-kum/eulersim/internal/compute"
	"github.com/san-kum/eulersim/internal/config"
	"github.com/san-kum/eulersim/internal/dynamo"
	"github.com/san-kum/eulersim/internal/equations"
	"github.com/san-kum/eulersim/internal/export"
	"github.com/san-kum/eulersim/internal/integrators"
	"github.com/san-kum/eulersim/internal/storage"
	"github.com/san-kum/eulersim/internal/tui"
)

func (a *app) store() *storage.Store {
	return storage.New(a.dataDir)
}

func (a *app) saveRun(cfg *config.Config, eq equations.Equation, tr *dynamo.Trajectory) (string, error) {
	rate := cfg.EffectiveRate(eq)
	p := eq.Problem(rate, cfg.T0, cfg.Y0, cfg.H, cfg.Steps)

	meta := storage.RunMetadata{
		Equation: eq.Name,
		Rate:     rate,
		T0:       cfg.T0,
		Y0:       cfg.Y0,
		H:        cfg.H,
		Steps:    cfg.Steps,
		Summary:  analysis.Summarize(tr, exactFor(eq, rate, p)),
	}
	return a.store().Save(meta, tr)
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.store().List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEQUATION\tMETHOD\tH\tSTEPS\tFINAL\tTIMESTAMP")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%.6g\t%s\n",
					r.ID, r.Equation, r.Method, r.H, r.Steps, r.Summary.Final,
					r.Timestamp.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func (a *app) newPlotCmd() *cobra.Command {
	var height, width int
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := a.store().Load(args[0])
			if err != nil {
				return err
			}
			tr, err := a.store().LoadTrajectory(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\n", meta.ID)
			fmt.Fprintf(out, "equation: %s (%s, h=%g)\n", meta.Equation, meta.Method, meta.H)
			fmt.Fprintf(out, "samples: %d\n\n", tr.Len())
			if tr.Len() == 0 {
				return nil
			}

			caption := fmt.Sprintf("y(t), t in [%g, %g]", tr.Points[0].T, tr.Final().T)
			graph := asciigraph.Plot(downsample(tr.Values(), width),
				asciigraph.Height(height),
				asciigraph.Width(width),
				asciigraph.Caption(caption),
			)
			fmt.Fprintln(out, graph)
			return nil
		},
	}
	cmd.Flags().IntVar(&height, "height", 12, "plot height in rows")
	cmd.Flags().IntVar(&width, "width", 80, "plot width in columns")
	return cmd
}

// downsample keeps at most n evenly spaced values, always including the last.
func downsample(ys []float64, n int) []float64 {
	if n <= 0 || len(ys) <= n {
		return ys
	}
	out := make([]float64, 0, n)
	step := float64(len(ys)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, ys[int(math.Round(float64(i)*step))])
	}
	return out
}

func (a *app) newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run as JSON",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := a.store().Load(args[0])
			if err != nil {
				return err
			}
			tr, err := a.store().LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(cmd.OutOrStdout(), *meta, tr)
		},
	}
}

func (a *app) newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved run as CSV",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.store().LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			return storage.ExportCSV(cmd.OutOrStdout(), tr)
		},
	}
}

func (a *app) newExportSVGCmd() *cobra.Command {
	var (
		width, height int
		stroke        string
	)
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a saved run as an SVG line plot",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.store().LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			return export.TrajectorySVG(cmd.OutOrStdout(), tr, width, height, stroke)
		},
	}
	cmd.Flags().IntVar(&width, "width", 800, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 400, "image height in pixels")
	cmd.Flags().StringVar(&stroke, "stroke", export.DefaultStroke, "line color")
	return cmd
}

func (a *app) newCompareCmd() *cobra.Command {
	var opts problemOptions
	cmd := &cobra.Command{
		Use:   "compare [method1] [method2] ...",
		Short: "run the same problem with several methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}
			problem, eq, err := cfg.Problem()
			if err != nil {
				return err
			}
			exact := exactFor(eq, cfg.EffectiveRate(eq), problem)

			methods := args
			if len(methods) == 0 {
				methods = integrators.Names()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "comparing methods for %s (h=%g, steps=%d)\n\n", eq.Name, problem.H, problem.Steps)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tFINAL\tFINAL_ERR\tMAX_ERR\tEVALS\tTIME_MS")
			for _, name := range methods {
				solver, err := a.solverFor(name)
				if err != nil {
					return err
				}
				start := time.Now()
				tr, err := solver.Integrate(cmd.Context(), problem)
				elapsed := time.Since(start)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", name, err)
					continue
				}

				s := analysis.Summarize(tr, exact)
				finalErr, maxErr := "-", "-"
				if s.HasExact {
					finalErr = fmt.Sprintf("%.3e", s.FinalError)
					maxErr = fmt.Sprintf("%.3e", s.MaxAbsError)
				}
				fmt.Fprintf(w, "%s\t%.10g\t%s\t%s\t%d\t%.3f\n",
					name, s.Final, finalErr, maxErr, tr.Stats.Evaluations,
					float64(elapsed.Microseconds())/1000)
			}
			return w.Flush()
		},
	}
	bindProblemFlags(cmd, &opts)
	return cmd
}

func (a *app) newConvergeCmd() *cobra.Command {
	var (
		opts   problemOptions
		levels int
	)
	cmd := &cobra.Command{
		Use:   "converge",
		Short: "measure the observed order of accuracy by halving h",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if levels < 2 || levels > 16 {
				return dynamo.InvalidParameter("levels: must be in [2, 16], got %d", levels)
			}
			cfg, err := resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}
			base, eq, err := cfg.Problem()
			if err != nil {
				return err
			}
			if !eq.HasExact() {
				return dynamo.InvalidParameter("equation %s has no closed-form solution", eq.Name)
			}
			if base.Steps == 0 {
				return dynamo.InvalidParameter("steps: need at least 1 for a convergence study")
			}
			solver, err := a.solverFor(cfg.Method)
			if err != nil {
				return err
			}

			rate := cfg.EffectiveRate(eq)
			exact := eq.Exact(rate, base.T0, base.Y0)
			problems := make([]dynamo.Problem, levels)
			hs := make([]float64, levels)
			for k := range problems {
				scale := 1 << k
				hs[k] = base.H / float64(scale)
				problems[k] = eq.Problem(rate, base.T0, base.Y0, hs[k], base.Steps*scale)
			}

			backend := compute.Select(len(problems))
			a.logger().Debug("convergence study", "backend", backend.Name(), "levels", levels)
			results := backend.FinalBatch(cmd.Context(), solver, problems)
			if err := compute.FirstError(results); err != nil {
				return err
			}

			errs := make([]float64, levels)
			for k, r := range results {
				final := r.Final
				errs[k] = math.Abs(final.Y - exact(final.T))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %s, t in [%g, %g]\n\n", solver.Method(), eq.Name, base.T0, base.End())
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "H\tSTEPS\tFINAL_ERR\tORDER")
			orders, orderErr := analysis.PairwiseOrders(hs, errs)
			for k := range problems {
				order := "-"
				if k > 0 && orderErr == nil {
					order = fmt.Sprintf("%.3f", orders[k-1])
				}
				fmt.Fprintf(w, "%g\t%d\t%.3e\t%s\n", hs[k], problems[k].Steps, errs[k], order)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fit, err := analysis.ConvergenceOrder(hs, errs)
			if err != nil {
				return fmt.Errorf("cannot fit order: %w", err)
			}
			fmt.Fprintf(out, "\nfitted order: %.3f\n", fit)
			return nil
		},
	}
	bindProblemFlags(cmd, &opts)
	cmd.Flags().IntVar(&levels, "levels", 5, "number of step sizes, each half the previous")
	return cmd
}

func (a *app) newLiveCmd() *cobra.Command {
	var (
		opts    problemOptions
		fps     int
		perTick int
	)
	cmd := &cobra.Command{
		Use:   "live",
		Short: "watch a trajectory being integrated",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps <= 0 || perTick <= 0 {
				return dynamo.InvalidParameter("fps and per-tick must be positive")
			}
			cfg, err := resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}
			problem, eq, err := cfg.Problem()
			if err != nil {
				return err
			}
			stepper, err := integrators.Lookup(cfg.Method)
			if err != nil {
				return err
			}
			// the TUI owns the terminal; keep the logger quiet
			solver := dynamo.New(stepper)
			title := fmt.Sprintf("%s · %s", eq.Name, stepper.Name())
			return tui.Run(cmd.Context(), solver, problem, title, fps, perTick)
		},
	}
	bindProblemFlags(cmd, &opts)
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	cmd.Flags().IntVar(&perTick, "per-tick", 5, "steps per frame")
	return cmd
}

func (a *app) newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [equation]",
		Short: "list preset configurations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := equations.Names()
			if len(args) == 1 {
				if _, err := equations.Lookup(args[0]); err != nil {
					return err
				}
				names = args
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "EQUATION\tPRESET\tH\tSTEPS\tY0")
			for _, eq := range names {
				for _, name := range config.ListPresets(eq) {
					p := config.GetPreset(eq, name)
					fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%g\n", eq, name, p.H, p.Steps, p.Y0)
				}
			}
			return w.Flush()
		},
	}
}

func (a *app) newEquationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equations",
		Short: "list available right-hand sides",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRATE\tEXACT\tDESCRIPTION")
			for _, name := range equations.Names() {
				eq, _ := equations.Lookup(name)
				exact := "no"
				if eq.HasExact() {
					exact = "yes"
				}
				fmt.Fprintf(w, "%s\t%g\t%s\t%s\n", eq.Name, eq.DefaultRate, exact, eq.Description)
			}
			return w.Flush()
		},
	}
}
