// Package agent answers questions about the ledger with a Gemini model.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Asker answers a question.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Agent handles an interactive chat session.
type Agent struct {
	w     io.Writer
	r     *bufio.Reader
	asker Asker
}

// New creates a new Agent reading the user's input from r, writing answers
// to w (e.g. os.Stdin and os.Stdout).
func New(w io.Writer, r io.Reader, asker Asker) *Agent {
	return &Agent{
		w:     w,
		r:     bufio.NewReader(r),
		asker: asker,
	}
}

const prompt = "assist> "

// Run starts the interactive REPL session for the agent. The prompts are
// asked first, as if the user typed them.
func (a *Agent) Run(ctx context.Context, prompts ...string) error {
	fmt.Fprintln(a.w, "Welcome to hfl assist. Type 'bye' to exit.")

	// REPL loop
	for {
		// Print the prompt
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				fmt.Fprintln(a.w)
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					fmt.Fprintln(a.w)
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "bye":
			return nil
		}

		answer, err := a.asker.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
