package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/facsched/backend/core"
	"github.com/facsched/backend/core/timetable"
	"github.com/facsched/backend/services/importer"
)

var (
	isTerminalFunc = term.IsTerminal // mockable
	createFileFunc = func(name string) (io.WriteCloser, error) { return os.Create(name) }
)

type commandLine struct {
	conf   *core.Config
	out    io.Writer
	logger *log.Logger

	// shared input flags
	format    string
	sheet     string
	checkRows bool
}

func newRootCmd(cli *commandLine) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "facschedctl",
		Short:         "Faculty timetable admin tool",
		Long:          "facschedctl parses pasted or exported faculty timetables, renders and exports them,\nand manages the database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(cli.out)

	rootCmd.AddCommand(
		cli.parseCmd(),
		cli.renderCmd(),
		cli.classesCmd(),
		cli.exportICSCmd(),
		cli.migrateCmd(),
		cli.tokenCmd(),
		cli.versionCmd(),
	)
	return rootCmd
}

// addInputFlags registers the flags of the commands reading a timetable file.
func (cli *commandLine) addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cli.format, "format", "f", "", "input format: text, xlsx, docx or html (default: from the file extension)")
	cmd.Flags().StringVar(&cli.sheet, "sheet", "", "xlsx sheet name (default: the first sheet)")
	cmd.Flags().BoolVar(&cli.checkRows, "check-row-labels", cli.conf.Timetable.CheckRowLabels, "reject day rows not labelled THEORY / LAB")
}

// loadTimetable reads and parses the file at path; "-" reads stdin as text.
func (cli *commandLine) loadTimetable(cmd *cobra.Command, path string) (*timetable.Timetable, error) {
	var format importer.Format
	if cli.format != "" {
		f, err := importer.ParseFormat(cli.format)
		if err != nil {
			return nil, err
		}
		format = f
	}

	var opts []timetable.Option
	if cli.checkRows {
		opts = append(opts, timetable.WithRowLabelCheck())
	}

	if path == "-" {
		return importer.Parse(cmd.InOrStdin(), format, importer.Options{Sheet: cli.sheet}, opts...)
	}
	text, err := importer.ReadFile(path, format, importer.Options{Sheet: cli.sheet})
	if err != nil {
		return nil, err
	}
	return timetable.Parse(text, opts...)
}

// colorOutput reports whether the output is a terminal.
func (cli *commandLine) colorOutput() bool {
	f, ok := cli.out.(*os.File)
	return ok && isTerminalFunc(int(f.Fd()))
}

func (cli *commandLine) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", cli.conf.AppName, cli.conf.Build, cli.conf.Env)
			return err
		},
	}
}
