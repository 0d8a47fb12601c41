package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
)

// TemplateContext is the data visible to template expressions in input files.
type TemplateContext struct {
	ENV map[string]string
}

var missingKeyRegex = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// templateEnv merges the .env file of the working directory, if any, with the
// process environment. Variables already set in the process win.
func templateEnv() (map[string]string, error) {
	envMap, err := godotenv.Read(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading .env: %w", err)
		}
		envMap = map[string]string{}
	}
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			envMap[k] = v
		}
	}
	return envMap, nil
}

// PreprocessYAML replaces {{ .ENV.VAR }} placeholders with values from env or .env file.
// A placeholder naming an unset variable is an error.
func PreprocessYAML(input []byte) ([]byte, error) {
	envMap, err := templateEnv()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("yaml").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, TemplateContext{ENV: envMap}); err != nil {
		if matches := missingKeyRegex.FindStringSubmatch(err.Error()); len(matches) == 2 {
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or .env file)", matches[1])
		}
		return nil, fmt.Errorf("template error: %w", err)
	}

	return output.Bytes(), nil
}
