package main

import (
	"fmt"
	"io"
	"strconv"

	"goeha/internal/domain"

	"github.com/spf13/cobra"
)

var (
	addExample string
	addHard    bool
	listHard   bool

	editWord     string
	editMeaning  string
	editExample  string
	editHardness int
)

var addCmd = &cobra.Command{
	Use:   "add <word> <meaning>",
	Short: "Add a word, separate alternative meanings with commas",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := domain.WordFields{Word: args[0], Meaning: args[1], Example: addExample}
		if addHard {
			fields.Hardness = domain.HardnessHard
		}

		id, err := cli.words.AddWord(cmd.Context(), fields)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added #%d\n", id)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored words",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := cli.words.DrillWords(cmd.Context(), listHard)
		if err != nil {
			return err
		}
		printWords(cmd.OutOrStdout(), words)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		var patch domain.WordPatch
		flags := cmd.Flags()
		if flags.Changed("word") {
			patch.Word = &editWord
		}
		if flags.Changed("meaning") {
			patch.Meaning = &editMeaning
		}
		if flags.Changed("example") {
			patch.Example = &editExample
		}
		if flags.Changed("hardness") {
			patch.Hardness = &editHardness
		}

		if err := cli.words.EditWord(cmd.Context(), id, patch); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated #%d\n", id)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		if err := cli.words.DeleteWord(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d\n", id)
		return nil
	},
}

var hardCmd = &cobra.Command{
	Use:   "hard <id>",
	Short: "Toggle the hard flag of a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		hardness, err := cli.words.ToggleHard(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "#%d hardness %d\n", id, hardness)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show word counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := cli.stats.Summary(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "total %d\nhard %d\nnormal %d\n", summary.Total, summary.Hard, summary.Normal())
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addExample, "example", "e", "", "usage example")
	addCmd.Flags().BoolVar(&addHard, "hard", false, "mark the word as hard")

	listCmd.Flags().BoolVar(&listHard, "hard", false, "only hard words")

	editCmd.Flags().StringVar(&editWord, "word", "", "new word")
	editCmd.Flags().StringVar(&editMeaning, "meaning", "", "new meaning")
	editCmd.Flags().StringVar(&editExample, "example", "", "new example")
	editCmd.Flags().IntVar(&editHardness, "hardness", 0, "new hardness, 0 or 1")
}

func parseIDArg(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid word id %q", s)
	}
	return id, nil
}

func printWords(w io.Writer, words []domain.Word) {
	for _, word := range words {
		hard := ""
		if word.IsHard() {
			hard = " [hard]"
		}
		fmt.Fprintf(w, "%4d  %s: %s%s\n", word.ID, word.Word, word.Meaning, hard)
		if word.Example != "" {
			fmt.Fprintf(w, "      %s\n", word.Example)
		}
	}
}
