package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvdepth/builder"
	"github.com/katalvlaran/lvdepth/config"
	"github.com/katalvlaran/lvdepth/recon"
)

type solveOpts struct {
	configPath string
	views      int
	out        string
	metrics    bool
}

func newSolveCmd() *cobra.Command {
	var o solveOpts

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the synthetic box scene and print a per-patch summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, o)
		},
	}
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "TOML or YAML configuration file")
	cmd.Flags().IntVar(&o.views, "views", 2, "number of box views")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write solved planes and line depths as YAML")
	cmd.Flags().BoolVar(&o.metrics, "metrics", false, "print run counters after the summary")

	return cmd
}

func runSolve(cmd *cobra.Command, o solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
		logger.Debug("config loaded", "path", o.configPath)
	}

	scene, err := builder.BoxScene(o.views)
	if err != nil {
		return err
	}
	built, err := builder.BuildMixedGraph(scene, cfg.BuilderOptions()...)
	if err != nil {
		return err
	}
	logger.Info("graph built",
		"regions", built.Report.Regions,
		"lines", built.Report.Lines,
		"binaries", built.Graph.BinaryCount(),
		"skipped", len(built.Report.Skipped))

	s, err := recon.NewSession(built)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	m, err := recon.NewMetrics(reg)
	if err != nil {
		return err
	}
	res, runErr := s.Run(ctx, cfg, recon.WithLogger(logger), recon.WithMetrics(m))
	if res != nil {
		printSummary(cmd.OutOrStdout(), res)
	}
	if runErr != nil {
		return runErr
	}
	if o.metrics {
		if err := printMetrics(cmd.OutOrStdout(), reg); err != nil {
			return err
		}
	}
	if o.out != "" {
		if err := writeSolution(o.out, built, s); err != nil {
			return err
		}
		logger.Info("solution written", "path", o.out)
	}

	return res.Failures()
}

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleFailed = styleCell.Foreground(lipgloss.Color("167"))
)

func printSummary(w io.Writer, res *recon.Result) {
	rows := make([][]string, 0, len(res.Patches))
	for _, p := range res.Patches {
		rows = append(rows, []string{
			p.ID.String()[:8],
			string(p.Outcome),
			fmt.Sprint(p.Unaries),
			fmt.Sprint(p.Report.Equations),
			fmt.Sprintf("%.3g", p.Report.Residual),
			fmt.Sprintf("%.3g", p.MeanDistance),
			fmt.Sprintf("%.3f", p.MeanDepth),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PATCH", "OUTCOME", "UNARIES", "EQUATIONS", "RESIDUAL", "MEAN DIST", "MEAN DEPTH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case res.Patches[row].Outcome == recon.OutcomeFailed:
				return styleFailed
			default:
				return styleCell
			}
		})
	fmt.Fprintln(w, t.Render())
}

// printMetrics prints counter and histogram sample counts from reg.
func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s_count %d\n%s_sum %g\n", mf.GetName(), h.GetSampleCount(), mf.GetName(), h.GetSampleSum())
			}
		}
	}

	return nil
}

type regionPlane struct {
	View  int       `yaml:"view"`
	Index int       `yaml:"index"`
	Plane []float64 `yaml:"plane,flow"`
	Fixed bool      `yaml:"fixed,omitempty"`
}

type lineDepth struct {
	View  int     `yaml:"view"`
	Index int     `yaml:"index"`
	Depth float64 `yaml:"center_depth"`
}

type solution struct {
	Regions []regionPlane `yaml:"regions"`
	Lines   []lineDepth   `yaml:"lines"`
}

func writeSolution(path string, built *builder.Result, s *recon.Session) error {
	var sol solution
	for ref, h := range built.Regions {
		v := s.Unaries[h]
		sol.Regions = append(sol.Regions, regionPlane{View: ref.View, Index: ref.Index, Plane: v.Variables, Fixed: v.Fixed})
	}
	vps := s.Graph.VanishingPoints()
	for ref, h := range built.Lines {
		u, err := s.Graph.UnaryAt(h)
		if err != nil {
			return err
		}
		v := s.Unaries[h]
		d, err := v.DepthAtCenter(u, vps)
		if err != nil {
			return fmt.Errorf("line %d/%d: %w", ref.View, ref.Index, err)
		}
		sol.Lines = append(sol.Lines, lineDepth{View: ref.View, Index: ref.Index, Depth: d})
	}
	sort.Slice(sol.Regions, func(i, j int) bool {
		a, b := sol.Regions[i], sol.Regions[j]
		return a.View < b.View || (a.View == b.View && a.Index < b.Index)
	})
	sort.Slice(sol.Lines, func(i, j int) bool {
		a, b := sol.Lines[i], sol.Lines[j]
		return a.View < b.View || (a.View == b.View && a.Index < b.Index)
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(sol); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
