package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fwmon/fwmon/internal/apiclient"
	"github.com/fwmon/fwmon/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// sendFunc issues one create or update call for a document.
type sendFunc func(ctx context.Context, doc map[string]any) (any, error)

// parseID parses a numeric resource id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q, expected a positive integer", arg)
	}
	return id, nil
}

// addInputFlags registers -f and --set on a create or update command.
func addInputFlags(cmd *cobra.Command, fileRequired bool) {
	usage := "YAML file with one or more documents, - for stdin"
	cmd.Flags().StringP("filename", "f", "", usage)
	cmd.Flags().StringArray("set", nil, "Override a field, path=value (repeatable)")
	if fileRequired {
		cmd.MarkFlagRequired("filename")
	}
}

// loadDocuments reads the -f documents and applies --set overrides to each.
// Without -f a single empty document is used, so --set alone can describe a
// partial update.
func loadDocuments(cmd *cobra.Command) ([]map[string]any, error) {
	filename, _ := cmd.Flags().GetString("filename")
	overrides, _ := cmd.Flags().GetStringArray("set")

	docs := []map[string]any{{}}
	if filename != "" {
		var err error
		docs, err = ReadInputFile(filename, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("no documents found in %s", filename)
		}
	} else if len(overrides) == 0 {
		return nil, errors.New("nothing to send, use -f FILE or --set path=value")
	}

	for i, doc := range docs {
		out, err := applyOverrides(doc, overrides)
		if err != nil {
			return nil, err
		}
		docs[i] = out
	}
	return docs, nil
}

// checkDocument decodes doc into T and validates it, so malformed input is
// rejected before anything is sent.
func checkDocument[T any](doc map[string]any) error {
	v, err := apiclient.As[T](doc, nil)
	if err != nil {
		return err
	}
	return models.Validate(v)
}

// sendDocuments validates every document as T first and only then sends them
// in order. It stops at the first failed call.
func sendDocuments[T any](cmd *cobra.Command, kind string, docs []map[string]any, send sendFunc) error {
	for i, doc := range docs {
		if err := checkDocument[T](doc); err != nil {
			return fmt.Errorf("%s document %d: %w", kind, i+1, err)
		}
	}

	ctx := cmd.Context()
	results := make([]any, 0, len(docs))
	for i, doc := range docs {
		v, err := send(ctx, doc)
		if err != nil {
			return fmt.Errorf("%s document %d: %w", kind, i+1, err)
		}
		log.Ctx(ctx).Debug().Str("kind", kind).Int("document", i+1).Msg("sent")
		results = append(results, v)
	}

	if jsonOutput {
		var value any = results
		if len(results) == 1 {
			value = results[0]
		}
		return printResult(cmd, value)
	}
	for _, v := range results {
		if id, ok := resultID(v); ok {
			okLabel.Fprintf(cmd.OutOrStdout(), "✓ %s %d saved\n", kind, id)
		} else {
			okLabel.Fprintf(cmd.OutOrStdout(), "✓ %s saved\n", kind)
		}
	}
	return nil
}

// resultID extracts the id field of a returned object.
func resultID(v any) (int, bool) {
	obj, err := apiclient.As[struct {
		ID int `json:"id"`
	}](v, nil)
	if err != nil || obj.ID == 0 {
		return 0, false
	}
	return obj.ID, true
}

// getByIDCmd builds "<group> get ID".
func getByIDCmd(kind string, get func(context.Context, int) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: fmt.Sprintf("Show one %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v, err := get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResult(cmd, v)
		},
	}
}

// deleteByIDCmd builds "<group> delete ID".
func deleteByIDCmd(kind string, del func(context.Context, int) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := del(cmd.Context(), id); err != nil {
				return err
			}
			return printDone(cmd, "Deleted %s %d", kind, id)
		},
	}
}

// listCmd builds "<group> list" printing the raw list.
func listCmd(kind string, list func(context.Context) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss", kind),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := list(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, v)
		},
	}
}
