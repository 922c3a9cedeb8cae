package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/hfledger/agent"
	"github.com/etnz/hfledger/logger"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask questions about the ledger to the AI assistant" }
func (*assistCmd) Usage() string {
	return `hfl assist [question]

  Starts an interactive session with the AI assistant, the question, if any,
  is asked first. The assistant reads the ledger but never changes it.
  It needs a Gemini API key in GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()
	ctx = logger.WithContext(ctx, s.log)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	assistant := agent.NewAssistant(s.cfg.Agent.Model, s.ledger)
	if err := assistant.Start(ctx, client); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, assistant)
	if err := a.Run(ctx, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
