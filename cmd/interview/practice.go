package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tailored-agentic-units/interview/interview"
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func newPracticeCommand(opts *options) *cobra.Command {
	var (
		threadID  string
		seed      string
		materials []string
		events    bool
	)

	cmd := &cobra.Command{
		Use:   "practice <topic>",
		Short: "Run an interview session in the terminal, reviewing each assessment yourself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if len(materials) > 0 {
				cfg.Retrieval.Enabled = true
			}
			if !events && cfg.Graph.Observer == "slog" {
				cfg.Graph.Observer = "noop"
			}

			machine, err := interview.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to create interview machine: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := indexMaterials(ctx, machine, materials, cmd.OutOrStdout()); err != nil {
				return err
			}

			p := &practice{
				machine:     machine,
				in:          bufio.NewReader(cmd.InOrStdin()),
				out:         cmd.OutOrStdout(),
				interactive: term.IsTerminal(int(os.Stdin.Fd())),
			}
			return p.run(ctx, interview.StartRequest{
				ThreadID:     threadID,
				Topic:        args[0],
				Context:      seed,
				UseMaterials: len(materials) > 0,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&threadID, "thread", "", "Thread id (defaults to a new id)")
	flags.StringVar(&seed, "context", "", "Background for the first question")
	flags.StringSliceVarP(&materials, "materials", "m", nil, "Study material files (.txt, .md) to index and retrieve from")
	flags.BoolVar(&events, "events", false, "Log step events to stderr")
	return cmd
}

func indexMaterials(ctx context.Context, machine *interview.Machine, files []string, out io.Writer) error {
	lib := machine.Library()
	if lib == nil || len(files) == 0 {
		return nil
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read material: %w", err)
		}
		doc, err := lib.Index(ctx, filepath.Base(file), content)
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", file, err)
		}
		fmt.Fprintf(out, "%s %s (%d chunks)\n", gray("indexed"), doc.Filename, doc.ChunkCount)
	}
	return nil
}

// practice drives one session from a line-oriented input. Prompts are only
// written when a person is typing.
type practice struct {
	machine     *interview.Machine
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func (p *practice) run(ctx context.Context, req interview.StartRequest) error {
	turn, err := p.machine.Start(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "%s %s\n", bold("Session"), gray(turn.ThreadID))

	for !turn.Completed() {
		switch turn.Phase {
		case interview.PhaseAwaitingAnswer:
			turn, err = p.answer(ctx, turn)
		case interview.PhaseAwaitingApproval:
			turn, err = p.review(ctx, turn)
		default:
			err = fmt.Errorf("session stopped in phase %s", turn.Phase)
		}
		if err != nil {
			return err
		}
	}

	return p.report(ctx, turn.ThreadID)
}

func (p *practice) answer(ctx context.Context, turn *interview.Turn) (*interview.Turn, error) {
	label := fmt.Sprintf("Question %d", turn.QuestionNumber)
	if turn.IsFollowup {
		label = "Follow-up"
	}
	fmt.Fprintf(p.out, "\n%s %s\n", cyan(label+":"), turn.Question)
	p.prompt("Your answer (empty line ends the interview): ")

	answer, err := p.readLine()
	if err != nil {
		return nil, err
	}
	return p.machine.SubmitAnswer(ctx, turn.ThreadID, answer)
}

func (p *practice) review(ctx context.Context, turn *interview.Turn) (*interview.Turn, error) {
	if a := turn.Assessment; a != nil {
		fmt.Fprintf(p.out, "\n%s %d/100\n", yellow("Score:"), a.Score)
		if a.Feedback != "" {
			fmt.Fprintf(p.out, "%s %s\n", yellow("Feedback:"), a.Feedback)
		}
		if len(a.Strengths) > 0 {
			fmt.Fprintf(p.out, "%s %s\n", green("Strengths:"), strings.Join(a.Strengths, ", "))
		}
		if len(a.Weaknesses) > 0 {
			fmt.Fprintf(p.out, "%s %s\n", red("Weaknesses:"), strings.Join(a.Weaknesses, ", "))
		}
	}

	for {
		p.prompt("[a]pprove, [r]eject, [e]nd: ")
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}

		action, ok := map[string]interview.Action{
			"":  interview.ActionApprove,
			"a": interview.ActionApprove,
			"r": interview.ActionReject,
			"e": interview.ActionEndInterview,
		}[strings.ToLower(line)]
		if !ok {
			if parsed, err := interview.ParseAction(line); err == nil {
				action, ok = parsed, true
			}
		}
		if ok {
			return p.machine.Decide(ctx, turn.ThreadID, action)
		}
		fmt.Fprintln(p.out, red("unknown choice"))
	}
}

func (p *practice) report(ctx context.Context, threadID string) error {
	r, err := p.machine.Report(ctx, threadID)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "\n%s %s\n", bold("Report:"), r.Topic)
	fmt.Fprintf(p.out, "%s %d/100 over %d question(s)\n", yellow("Overall:"), r.OverallScore, r.TotalQuestions)
	fmt.Fprintln(p.out, r.Summary)
	printList(p.out, green("Strengths"), r.Strengths)
	printList(p.out, red("Weaknesses"), r.Weaknesses)
	printList(p.out, cyan("Recommendations"), r.Recommendations)
	return nil
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}

func (p *practice) prompt(text string) {
	if p.interactive {
		fmt.Fprint(p.out, gray(text))
	}
}

// readLine returns the next trimmed input line. EOF after partial input
// returns that input; EOF on an empty line reads as an empty answer.
func (p *practice) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
