package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadInputFile reads a resource file, or stdin when filename is "-", and
// returns the documents it holds after template expansion.
func ReadInputFile(filename string, stdin io.Reader) ([]map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if filename == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data, err = PreprocessYAML(replaceTabsWithSpaces(data))
	if err != nil {
		return nil, err
	}

	return ParseMultiYAML(data)
}

// ParseMultiYAML splits data into its YAML documents. Empty documents, such as
// the one after a trailing ---, are skipped. Each document must be a mapping.
func ParseMultiYAML(data []byte) ([]map[string]any, error) {
	content := strings.TrimSpace(string(data))
	if len(content) == 0 || strings.Trim(content, "- \n\t") == "" {
		return []map[string]any{}, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	result := []map[string]any{}

	for i := 1; ; i++ {
		var doc map[string]any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML document %d: %w", i, err)
		}
		if len(doc) > 0 {
			result = append(result, doc)
		}
	}

	return result, nil
}

// replaceTabsWithSpaces converts leading tabs to two spaces each; YAML forbids
// tabs in indentation.
func replaceTabsWithSpaces(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		n := 0
		for n < len(line) && line[n] == '\t' {
			n++
		}
		if n > 0 {
			lines[i] = append(bytes.Repeat([]byte("  "), n), line[n:]...)
		}
	}
	return bytes.Join(lines, []byte("\n"))
}
