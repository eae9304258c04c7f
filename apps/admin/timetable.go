package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/facsched/backend/core/timetable"
	"github.com/facsched/backend/services/exporter"
)

const dateLayout = "2006-01-02"

func (cli *commandLine) parseCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a timetable and print it as JSON or YAML",
		Long:  "Parse a timetable and print it as JSON or YAML. Use - to read pasted text from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tt, err := cli.loadTimetable(cmd, args[0])
			if err != nil {
				return err
			}
			switch strings.ToLower(output) {
			case "json":
				return exporter.WriteJSON(cmd.OutOrStdout(), tt)
			case "yaml", "yml":
				return exporter.WriteYAML(cmd.OutOrStdout(), tt)
			}
			return errors.Errorf("unknown output %q", output)
		},
	}
	cli.addInputFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func (cli *commandLine) renderCmd() *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a timetable as theory and lab grids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tt, err := cli.loadTimetable(cmd, args[0])
			if err != nil {
				return err
			}
			return exporter.RenderGrid(cmd.OutOrStdout(), tt, exporter.GridOptions{Color: !noColor && cli.colorOutput()})
		},
	}
	cli.addInputFlags(cmd)
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored cells")
	return cmd
}

func (cli *commandLine) classesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes FILE",
		Short: "List the distinct classes of a timetable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tt, err := cli.loadTimetable(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range timetable.Classes(tt).All() {
				if _, err = fmt.Fprintf(w, "%-6s %s\n", c.Type, c.Code); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cli.addInputFlags(cmd)
	return cmd
}

func (cli *commandLine) exportICSCmd() *cobra.Command {
	var (
		termStart string
		weeks     int
		tz        string
		owner     string
		outPath   string
	)
	cmd := &cobra.Command{
		Use:   "export-ics FILE",
		Short: "Export a timetable as weekly recurring calendar events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tt, err := cli.loadTimetable(cmd, args[0])
			if err != nil {
				return err
			}

			conf := *cli.conf
			if termStart != "" {
				start, err := time.Parse(dateLayout, termStart)
				if err != nil {
					return errors.Wrap(err, "--term-start")
				}
				conf.Calendar.TermStart = start
			}
			if cmd.Flags().Changed("weeks") {
				conf.Calendar.Weeks = weeks
			}
			if tz != "" {
				conf.Calendar.Timezone = tz
			}

			exp, err := exporter.NewICSExporter(&conf)
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				return exp.WriteICS(cmd.OutOrStdout(), owner, tt)
			}
			f, err := createFileFunc(outPath)
			if err != nil {
				return err
			}
			if err = exp.WriteICS(f, owner, tt); err != nil {
				_ = f.Close()
				return err
			}
			return errors.Wrapf(f.Close(), "closing %s", outPath)
		},
	}
	cli.addInputFlags(cmd)
	cmd.Flags().StringVar(&termStart, "term-start", "", "first day of the term, YYYY-MM-DD (default: calendar.termStart or this week)")
	cmd.Flags().IntVar(&weeks, "weeks", cli.conf.Calendar.Weeks, "number of weekly occurrences")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone of the timetable (default: calendar.timezone)")
	cmd.Flags().StringVar(&owner, "owner", "local", "owner id used to derive stable event UIDs")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	return cmd
}
