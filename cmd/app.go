// Package cmd implements the hfl command line application.
package cmd

import (
	"flag"

	"github.com/etnz/hfledger"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "hfl.yaml", "Path to the configuration file (YAML). A missing file is ignored.")
var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file, overrides the configuration.")
var defaultCurrency = flag.String("currency", "", "Currency of a new ledger, overrides the configuration.")

// Verbose enables debug logs on stderr.
var Verbose = flag.Bool("v", false, "Verbose logging.")

// Commands lists every hfl subcommand with its group.
var Commands = []struct {
	Group   string
	Command subcommands.Command
}{
	{"transactions", &recordCmd{name: "deposit", kind: hfledger.KindDeposit}},
	{"transactions", &recordCmd{name: "bill", kind: hfledger.KindBill}},
	{"transactions", &recordCmd{name: "spend", kind: hfledger.KindDiscretionarySpend}},
	{"transactions", &recordCmd{name: "topup", kind: hfledger.KindDiscretionaryTopup}},
	{"transactions", &recordCmd{name: "reserve", kind: hfledger.KindReserveFund}},
	{"transactions", &recordCmd{name: "release", kind: hfledger.KindReserveRelease}},
	{"transactions", &recordCmd{name: "record"}},
	{"transactions", &clearCmd{}},
	{"transactions", &deleteCmd{}},

	{"pools", &setBalanceCmd{}},
	{"pools", &resetCmd{}},

	{"reports", &balanceCmd{}},
	{"reports", &statusCmd{}},
	{"reports", &pendingCmd{}},
	{"reports", &historyCmd{}},
	{"reports", &queryCmd{}},
	{"reports", &assistCmd{}},

	{"storage", &verifyCmd{}},
	{"storage", &fmtCmd{}},
	{"storage", &importLegacyCmd{}},
	{"storage", &exportLegacyCmd{}},
	{"storage", &serveCmd{}},

	{"help", &topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
	for _, e := range Commands {
		c.Register(e.Command, e.Group)
	}
}

// IsCommand reports whether name is a builtin subcommand.
func IsCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, e := range Commands {
		if e.Command.Name() == name {
			return true
		}
	}
	return false
}
