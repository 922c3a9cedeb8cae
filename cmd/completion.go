package cmd

import (
	"flag"
	"slices"

	"github.com/etnz/hfledger"
	"github.com/etnz/hfledger/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of hfl.
//
// Install it with 'COMP_INSTALL=1 hfl', then the shell calls hfl back to
// complete a command line.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictFlags(flag.CommandLine),
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	for _, e := range Commands {
		f := flag.NewFlagSet(e.Command.Name(), flag.ContinueOnError)
		e.Command.SetFlags(f)
		root.Sub[e.Command.Name()] = &complete.Command{
			Flags: predictFlags(f),
			Args:  predictArgs(e.Command.Name()),
		}
	}
	return root
}

// predictFlags predicts the values of every flag in f.
func predictFlags(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		switch fl.Name {
		case "k":
			flags[fl.Name] = predictKinds
		case "config":
			flags[fl.Name] = predict.Files("*.yaml")
		case "ledger-file":
			flags[fl.Name] = predict.Files("*.jsonl")
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

// predictArgs predicts the positional arguments of a subcommand.
func predictArgs(name string) complete.Predictor {
	switch name {
	case "topic":
		return predictTopics
	case "reset":
		return predict.Set{string(hfledger.Discretionary), string(hfledger.Reserved)}
	case "import-legacy":
		return predict.Files("*.json")
	case "clear":
		return complete.PredictFunc(func(prefix string) []string { return predictIDs(hfledger.KindBill) })
	case "delete":
		return complete.PredictFunc(func(prefix string) []string { return predictIDs() })
	default:
		return nil
	}
}

var predictKinds = func() predict.Set {
	var kinds predict.Set
	for _, k := range hfledger.Kinds() {
		kinds = append(kinds, string(k))
	}
	return kinds
}()

var predictTopics = func() predict.Set {
	var topics predict.Set
	for name := range docs.Describe() {
		topics = append(topics, name)
	}
	slices.Sort(topics)
	return topics
}()

// predictIDs returns the ids of transactions of the given kinds (all if
// none). Errors are ignored, completion must stay silent.
func predictIDs(kinds ...hfledger.Kind) []string {
	s, err := newSession()
	if err != nil {
		return nil
	}
	defer s.Close()
	l, err := hfledger.Load(s.store, s.cfg.Currency)
	if l == nil || err != nil {
		return nil
	}
	var ids []string
	for _, tx := range l.Backward() {
		if len(kinds) == 0 || hfledger.ByKind(kinds...)(tx) {
			ids = append(ids, tx.ID)
		}
	}
	return ids
}
