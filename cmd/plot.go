package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iljabvh/firstserve/internal/chart"
)

var (
	plotMetric     string
	plotMinSamples int
	plotLabels     bool
	plotOut        string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a PNG scatter of one metric against sample size",
	Long: `Plot every player of a run as one dot: matches played (or observations of
--metric) on the x axis, the win rate (or running average) on the y axis.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{configOptional: "true"},
	RunE:        runPlot,
}

func init() {
	addRunFlag(plotCmd)
	plotCmd.Flags().StringVar(&plotMetric, "metric", chart.WinRate, "WinRate or a statistic name")
	plotCmd.Flags().IntVar(&plotMinSamples, "min-samples", -1, "minimum matches/observations (default: report.minMatches)")
	plotCmd.Flags().BoolVar(&plotLabels, "labels", false, "annotate each dot with the player name")
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "winrate.png", "output PNG path")
}

func runPlot(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := resolveRun(db)
	if err != nil {
		return err
	}
	players, err := db.GetPlayers(run.RunID)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}

	minSamples := plotMinSamples
	if minSamples < 0 {
		minSamples = minMatchesDefault()
	}
	points := chart.Points(players, plotMetric, minSamples)
	png, err := chart.Scatter(points, plotMetric, plotLabels)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(plotOut, png, 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d players)\n", plotOut, len(points))
	return nil
}
