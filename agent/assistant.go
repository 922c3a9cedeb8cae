package agent

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/etnz/hfledger"
	"github.com/etnz/hfledger/docs"
	"github.com/etnz/hfledger/renderer"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// reportSize is the number of recent transactions in the system instruction.
const reportSize = 20

// Assistant answers questions about a ledger.
//
// It only reads the ledger: its tools never mutate it.
type Assistant struct {
	expert *Expert
}

// NewAssistant creates an assistant over ledger l, using model (DefaultModel
// if empty). The current state of the ledger is part of its instructions, and
// its tools read the ledger when they are called.
func NewAssistant(model string, l *hfledger.Ledger) *Assistant {
	if model == "" {
		model = DefaultModel
	}
	tools := Tools(l)
	return &Assistant{
		expert: &Expert{
			Name:        "Accountant",
			Description: "Reads the household ledger to answer questions about balances, bills and spending.",
			ModelName:   model,
			Config: &genai.GenerateContentConfig{
				Tools: []*genai.Tool{
					{FunctionDeclarations: NewDeclaration(tools)},
				},
				SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction(l)}}},
			},
			Library: NewLibrary(tools),
		},
	}
}

// instruction returns the system instruction of the assistant.
func instruction(l *hfledger.Ledger) string {
	return `You are the accountant of a household budget kept in a ledger.
The ledger tracks three pools of money: primary is the checking account,
discretionary is a prepaid allowance and reserved holds money set aside.
Answer the user's questions about their budget, be short and precise, give
amounts in the ledger currency. You cannot change the ledger, tell the user
which hfl command would do it instead.

Use the Tools to get up to date balances, pending bills and history, and the
Topic tool to learn how hfl works.

Here is the ledger when the conversation started:

` + renderer.LedgerReport(l, reportSize)
}

// Start opens the chat session.
func (a *Assistant) Start(ctx context.Context, client *genai.Client) error {
	return a.expert.Start(ctx, client)
}

// Ask sends a question and returns the text of the answer.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	content, err := a.expert.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	return text(content), nil
}

// Tools returns the functions the assistant can call on ledger l.
func Tools(l *hfledger.Ledger) []*Func {
	return []*Func{
		balancesTool(l),
		pendingTool(l),
		historyTool(l),
		topicTool(),
	}
}

func balancesTool(l *hfledger.Ledger) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Balances",
			Description: "Balances returns the balance of each pool, the total of pending bills and the status of the ledger.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown document with a table of the pool balances.",
			},
		},
		Func: func(context.Context, map[string]any) (string, error) {
			return renderer.Summary(l), nil
		},
	}
}

func pendingTool(l *hfledger.Ledger) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Pending",
			Description: "Pending lists the bills that are not cleared yet, most recent first.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the pending bills.",
			},
		},
		Func: func(context.Context, map[string]any) (string, error) {
			var txs []hfledger.Transaction
			for _, tx := range l.Backward() {
				if tx.Pending() {
					txs = append(txs, tx)
				}
			}
			return renderer.History(txs), nil
		},
	}
}

func historyTool(l *hfledger.Ledger) *Func {
	var kinds []string
	for _, k := range hfledger.Kinds() {
		kinds = append(kinds, string(k))
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "History",
			Description: "History lists the transactions of the ledger, most recent first.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"kind": {
						Type:        genai.TypeString,
						Description: "Only list transactions of this kind.",
						Enum:        kinds,
					},
					"limit": {
						Type:        genai.TypeInteger,
						Description: "The maximum number of transactions to list. All by default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of transactions with their id, time, kind, amount, cleared flag and note.",
			},
		},
		Func: func(_ context.Context, args map[string]any) (string, error) {
			accept := func(hfledger.Transaction) bool { return true }
			if v, ok := args["kind"]; ok {
				s, ok := v.(string)
				if !ok {
					return "", fmt.Errorf("argument 'kind' is not a string as expected but %T", v)
				}
				kind, err := hfledger.ParseKind(s)
				if err != nil {
					return "", err
				}
				accept = hfledger.ByKind(kind)
			}
			limit, err := intArg(args, "limit")
			if err != nil {
				return "", err
			}

			var txs []hfledger.Transaction
			for _, tx := range l.Backward() {
				if limit > 0 && len(txs) >= limit {
					break
				}
				if accept(tx) {
					txs = append(txs, tx)
				}
			}
			return renderer.History(txs), nil
		},
	}
}

func topicTool() *Func {
	described := docs.Describe()
	var names []string
	for name := range described {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString("Topic returns the documentation of hfl about one of these topics:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  - %s: %s\n", name, described[name])
	}

	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Topic",
			Description: b.String(),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: "The name of the topic.",
						Enum:        names,
					},
				},
				Required: []string{"name"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The topic in markdown.",
			},
		},
		Func: func(_ context.Context, args map[string]any) (string, error) {
			name, ok := args["name"].(string)
			if !ok {
				return "", fmt.Errorf("argument 'name' is not a string as expected but %T", args["name"])
			}
			return docs.GetTopic(name)
		},
	}
}

// intArg reads an optional integer argument. Numbers decoded from JSON are
// float64.
func intArg(args map[string]any, name string) (int, error) {
	v, ok := args[name]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("argument '%s' must be an integer, got %v", name, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("argument '%s' is not a number as expected but %T", name, v)
	}
}
