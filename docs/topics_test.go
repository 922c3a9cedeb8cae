package docs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
)

func TestTopics(t *testing.T) {
	// Every topic listed in the index can be loaded, and every topic file is
	// listed in the index.
	listed := Describe()
	if len(listed) == 0 {
		t.Fatal("no topic found in readme.md")
	}
	for topic, description := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if description == "" {
				t.Errorf("topic %q has no description", topic)
			}
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if _, ok := listed[topic]; !ok {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetTopics(All)
	if err != nil {
		t.Fatal(err)
	}
	topics, _ := GetAllTopics()
	for _, topic := range topics {
		content, _ := GetTopic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("%q does not include topic %q", All, topic)
		}
	}
	if strings.Contains(all, "Run `hfl topic <name>`") {
		t.Errorf("%q should not include the index", All)
	}

	if _, err := GetTopic("nope"); err == nil {
		t.Errorf("GetTopic(nope) should fail")
	}
}

func TestCodeBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs hfl")
	}
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	hfl := buildHfl(t, t.TempDir())
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			runBlocks(t, hfl, file)
		})
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// buildHfl builds the hfl executable into dir and returns its path.
func buildHfl(t *testing.T, dir string) string {
	t.Helper()

	output := filepath.Join(dir, "hfl")
	buildCmd := exec.Command("go", "build", "-o", output, "../hfl/")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build hfl command: %v\n%s", err, out)
	}
	return output
}

// parseMarkdown parses a markdown file and returns its testable blocks.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}

		lang := string(fcb.Info.Segment.Value(content))
		switch lang {
		case bashCheck, bashSetup, bashRun, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}

		var blockContent strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			blockContent.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    lang,
			Content: blockContent.String(),
			File:    file,
			Line:    lineNumber(content, fcb.Info.Segment.Start),
		})
		return ast.WalkContinue, nil
	})

	return blocks
}

// lineNumber returns the line of a byte offset in source.
func lineNumber(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

// blockRunner holds the state of a scenario across its blocks.
type blockRunner struct {
	env            []string
	previousOutput string
	tmpFolder      string
}

func (r *blockRunner) runBlock(t *testing.T, block *Block) {
	t.Helper()

	if block.Type == consoleCheck {
		want := strings.TrimSpace(block.Content)
		got := strings.TrimSpace(r.previousOutput)
		if want != got {
			t.Errorf("%s:%d: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q\n", block.File, block.Line, got, want, got, want)
		}
		return
	}
	// Each setup starts a new scenario, in a new folder.
	if block.Type == bashSetup {
		r.tmpFolder = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+block.Content)
	cmd.Dir = r.tmpFolder
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()

	if block.Type == bashRun {
		r.previousOutput = string(output)
	}

	if err != nil {
		switch block.Type {
		case bashSetup, bashRun:
			t.Fatalf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
		case bashCheck:
			t.Errorf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
		}
	}
}

// runBlocks executes the scenarios of a markdown file.
func runBlocks(t *testing.T, hfl, file string) {
	t.Helper()

	blocks := parseMarkdown(t, file)
	if len(blocks) == 0 {
		return
	}

	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "HFL_") {
			env = append(env, kv)
		}
	}
	env = append(env, fmt.Sprintf("PATH=%s%c%s", filepath.Dir(hfl), os.PathListSeparator, os.Getenv("PATH")))

	r := blockRunner{
		env:       env,
		tmpFolder: t.TempDir(),
	}
	for _, block := range blocks {
		r.runBlock(t, block)
	}
}
