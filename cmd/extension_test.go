package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/hfledger/config"
)

func TestExtensionMechanism(t *testing.T) {
	if testing.Short() {
		t.Skip("builds hfl and an extension")
	}
	// 1. Create a temporary directory
	tempDir := t.TempDir()

	// 2. Create hfl-hello executable
	helloCmdSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	for _, name := range []string{%q, %q, %q, %q} {
		fmt.Printf("%%s=%%s\n", name, os.Getenv(name))
	}
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, config.EnvLedgerFile, config.EnvCurrency, config.EnvDriver, EnvVerbose)

	helloCmdPath := filepath.Join(tempDir, "hfl-hello")

	// Write source to a temporary file
	srcFile := helloCmdPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloCmdSource), 0644); err != nil {
		t.Fatalf("Failed to write hfl-hello source: %v", err)
	}

	// Compile hfl-hello
	cmd := exec.Command("go", "build", "-o", helloCmdPath, srcFile)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to compile hfl-hello: %v", err)
	}

	// 3. Compile the main hfl binary
	hflBinaryPath := filepath.Join(tempDir, "hfl")
	cmd = exec.Command("go", "build", "-o", hflBinaryPath, "../hfl")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to compile hfl binary: %v", err)
	}

	// Define random values for global flags
	expectedLedgerFile := filepath.Join(tempDir, "random_ledger.jsonl")

	// 4. Call hfl binary with extension and global flags
	args := []string{
		"-ledger-file", expectedLedgerFile,
		"-currency", "eur",
		"-v",
		"hello", // The extension subcommand
		"world",
	}

	hflCmd := exec.Command(hflBinaryPath, args...)
	hflCmd.Dir = tempDir
	hflCmd.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH")}

	var stdout, stderr bytes.Buffer
	hflCmd.Stdout = &stdout
	hflCmd.Stderr = &stderr

	if err := hflCmd.Run(); err != nil {
		t.Fatalf("hfl command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	// 5. Verify output
	output := stdout.String()
	for _, expectedLine := range []string{
		config.EnvLedgerFile + "=" + expectedLedgerFile,
		config.EnvCurrency + "=EUR",
		config.EnvDriver + "=" + config.DriverJSONL,
		EnvVerbose + "=true",
		"args=[world]",
	} {
		if !strings.Contains(output, expectedLine) {
			t.Errorf("Expected output to contain %q, but got:\n%s", expectedLine, output)
		}
	}
}
