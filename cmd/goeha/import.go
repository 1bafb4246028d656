package main

import (
	"fmt"

	"goeha/internal/importer"

	"github.com/spf13/cobra"
)

var (
	importSheet    string
	importNoHeader bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import words from an xlsx or csv file",
	Long:  "Import words from an xlsx or csv file with the columns word, meaning, example, hardness. Words already stored are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := importer.DefaultConfig(args[0])
		cfg.SheetName = importSheet
		cfg.SkipHeader = !importNoHeader

		result, err := importer.New(cli.words, cli.logger).Import(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "processed %d, created %d, skipped %d, errors %d\n",
			result.Processed, result.Created, result.Skipped, len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintln(out, e)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "sheet to import, the first one by default")
	importCmd.Flags().BoolVar(&importNoHeader, "no-header", false, "the first row holds a word")
}
