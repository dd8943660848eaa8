package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/beeplan-api/internal/dto"
	"github.com/noah-isme/beeplan-api/internal/models"
	"github.com/noah-isme/beeplan-api/internal/timetable"
	"github.com/noah-isme/beeplan-api/pkg/export"
)

var (
	inputPath  string
	outputPath string
	format     string
	stepLimit  int
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "beeplanctl",
		Short: "Weekly university timetable generator",
		Long: "Generates a weekly course timetable from a JSON configuration,\n" +
			"reporting constraint violations when the instance is infeasible.",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "generate a timetable from a configuration file",
		RunE:  runGenerate,
	}
	generate.Flags().StringVarP(&inputPath, "input", "i", "config.json", "configuration file to load")
	generate.Flags().StringVarP(&outputPath, "output", "o", "", "output file (stdout when omitted)")
	generate.Flags().StringVarP(&format, "format", "f", "json", "output format: json, csv or pdf")
	generate.Flags().IntVar(&stepLimit, "step-limit", 0, "backtracking step limit (0 uses the configuration's stepLimit, else the default)")
	generate.Flags().BoolVarP(&verbose, "verbose", "v", false, "log search progress")
	root.AddCommand(generate)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	payload, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read configuration: %w", err)
	}

	var req dto.GenerateTimetableRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("parse configuration: %w", err)
	}
	cfg, err := req.ToConfig(timetable.DefaultCommonSchedule())
	if err != nil {
		return fmt.Errorf("normalize configuration: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}

	limit := stepLimit
	if limit == 0 && req.StepLimit > 0 {
		limit = req.StepLimit
	}
	result, err := timetable.Generate(context.Background(), cfg, timetable.Options{StepLimit: limit, Logger: logger})
	if err != nil {
		return err
	}

	content, err := render(cfg, *result)
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err = os.Stdout.Write(content)
		return err
	}
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	status := "complete"
	if !result.Complete {
		status = "incomplete"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s schedule: %d placements, %d violations, %d steps -> %s\n",
		status, len(result.Schedule.Placements), len(result.Violations), result.Attempts, outputPath)
	return nil
}

func render(cfg models.Config, result models.ScheduleResult) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(result, "", "  ")

	case "csv":
		headers := []string{"day", "slot", "course", "session", "instructor", "room"}
		rows := make([]map[string]string, 0, len(result.Schedule.Placements))
		for _, p := range result.Schedule.Placements {
			rows = append(rows, map[string]string{
				"day":        string(p.Slot.Day),
				"slot":       fmt.Sprintf("%d", p.Slot.Index),
				"course":     p.Atom.CourseID,
				"session":    string(p.Atom.SessionType),
				"instructor": p.Atom.InstructorID,
				"room":       p.RoomID,
			})
		}
		return export.NewCSVExporter().Render(export.Dataset{Headers: headers, Rows: rows})

	case "pdf":
		grid := export.Grid{}
		for _, day := range cfg.Common.Days {
			grid.DayHeaders = append(grid.DayHeaders, string(day))
		}
		cells := make([][]string, cfg.Common.SlotsPerDay)
		for index := 1; index <= cfg.Common.SlotsPerDay; index++ {
			label := fmt.Sprintf("slot %d", index)
			if st, ok := timetable.SlotTimeFor(index); ok {
				label = fmt.Sprintf("%02d:%02d-%02d:%02d", st.Start/60, st.Start%60, st.End/60, st.End%60)
			}
			grid.SlotLabels = append(grid.SlotLabels, label)
			cells[index-1] = make([]string, len(cfg.Common.Days))
		}
		column := make(map[models.Day]int, len(cfg.Common.Days))
		for col, day := range cfg.Common.Days {
			column[day] = col
		}
		for _, p := range result.Schedule.Placements {
			col, ok := column[p.Slot.Day]
			if !ok || p.Slot.Index < 1 || p.Slot.Index > cfg.Common.SlotsPerDay {
				continue
			}
			cell := &cells[p.Slot.Index-1][col]
			if *cell != "" {
				*cell += " / "
			}
			label := p.Atom.CourseID
			if p.Atom.SessionType == models.SessionLab {
				label += " lab"
			}
			*cell += fmt.Sprintf("%s (%s)", label, p.RoomID)
		}
		grid.Cells = cells
		return export.NewPDFExporter().RenderGrid(grid, "weekly timetable")

	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
