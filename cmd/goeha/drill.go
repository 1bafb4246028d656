package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"goeha/internal/drill"
	"goeha/internal/service"

	"github.com/spf13/cobra"
)

var drillHard bool

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Drill words in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTerminalDrill(cmd.Context(), cli.drills, drillHard, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	drillCmd.Flags().BoolVar(&drillHard, "hard", false, "only hard words")
}

// runTerminalDrill drives a session from lines of in until it completes or
// in runs out
func runTerminalDrill(ctx context.Context, drills *service.DrillService, hardOnly bool, in io.Reader, out io.Writer) error {
	words, err := drills.LoadWords(ctx, hardOnly)
	if err != nil {
		return err
	}

	// one signal per card waiting for an answer
	ready := make(chan struct{}, 1)
	listener := func(e drill.Event) {
		fmt.Fprint(out, renderTerminal(e))
		if e.Next != nil {
			ready <- struct{}{}
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d := drills.NewDriver(listener, drill.WithAutoAdvance())
	go d.Run(ctx)

	if err := d.Start(words); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		select {
		case <-d.Done():
			return nil
		case <-ready:
			if !scanner.Scan() {
				cancel()
				<-d.Done()
				fmt.Fprintln(out)
				return scanner.Err()
			}
			if err := d.Submit(scanner.Text()); err != nil {
				return err
			}
		}
	}
}

func renderTerminal(e drill.Event) string {
	var s string
	switch e.Type {
	case drill.EventStarted:
		s = fmt.Sprintf("%d words, answer with the Korean meaning\n", e.Total)
	case drill.EventNothingToDrill:
		s = "nothing to drill\n"
	case drill.EventCorrect:
		s = fmt.Sprintf("correct  %d/%d\n", e.Solved, e.Total)
		if e.Verdict.Feedback != "" {
			s += e.Verdict.Feedback + "\n"
		}
	case drill.EventIncorrect:
		s = fmt.Sprintf("wrong, %s = %s\n", e.Word.Word, e.Word.Meaning)
		if e.Word.Example != "" {
			s += "  " + e.Word.Example + "\n"
		}
	case drill.EventIgnored:
		s = "type an answer\n"
	case drill.EventGradingFailed:
		s = fmt.Sprintf("could not check the answer: %v\n", e.Err)
	case drill.EventComplete:
		s = fmt.Sprintf("done, %d words with %d mistakes\n", e.Total, e.Wrong)
	}
	if e.Next != nil {
		s += e.Next.Word + "? "
	}
	return s
}
