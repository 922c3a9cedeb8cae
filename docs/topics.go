// Package docs holds the help topics of hfl, embedded in the binary.
package docs

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Index is the topic listing every other topic.
const Index = "readme"

// All expands to every topic in GetTopics.
const All = "*"

// GetTopic returns the content of a documentation topic.
func GetTopic(topic string) (string, error) {
	if topic == All {
		return GetTopics(All)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of multiple documentation topics concatenated
// together. "*" expands to all topics.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		names := []string{topic}
		if topic == All {
			var err error
			if names, err = GetAllTopics(); err != nil {
				return "", err
			}
		}
		for _, name := range names {
			content, err := GetTopic(name)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// GetAllTopics returns a sorted list of all available documentation topics,
// the index excluded.
func GetAllTopics() ([]string, error) {
	entries, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		if base := strings.TrimSuffix(e, ".md"); base != Index {
			topics = append(topics, base)
		}
	}
	slices.Sort(topics)
	return topics, nil
}

var topicLine = regexp.MustCompile(`^\*\s+([a-z-]+):\s*(.*)$`)

// Describe returns the one line description of each topic listed in the
// index.
func Describe() map[string]string {
	index, err := docs.Open(Index + ".md")
	if err != nil {
		return nil
	}
	defer index.Close()

	descriptions := make(map[string]string)
	scanner := bufio.NewScanner(index)
	for scanner.Scan() {
		if m := topicLine.FindStringSubmatch(scanner.Text()); m != nil {
			descriptions[m[1]] = m[2]
		}
	}
	return descriptions
}
