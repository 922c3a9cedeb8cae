package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/etnz/hfledger/config"
)

const (
	// EnvConfig tells extensions the configuration file in use.
	EnvConfig = "HFL_CONFIG"
	// EnvVerbose tells extensions whether -v was set.
	EnvVerbose = "HFL_VERBOSE"
)

// RunExtension attempts to find and execute an external hfl-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// The extension gets the resolved configuration in its environment, with the
// same HFL_* variables hfl reads.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "hfl-" + subcommand

	// Look for the external command in PATH
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		return false, 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return true, 1
	}

	// Found external command, execute it
	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = os.Environ() // Start with existing environment variables
	cmd.Env = append(cmd.Env,
		EnvConfig+"="+*configFile,
		config.EnvCurrency+"="+cfg.Currency,
		config.EnvDriver+"="+cfg.Store.Driver,
		config.EnvLedgerFile+"="+cfg.Store.Path,
		config.EnvSQLitePath+"="+cfg.Store.SQLitePath,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		// If it's not an ExitError or we can't get the status, report a generic error
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)

		return true, 1 // Indicate that an attempt was made, but it failed
	}

	return true, 0 // External command executed successfully with exit code 0
}
