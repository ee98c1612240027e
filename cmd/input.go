package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/history"
)

// readSource reads the snippet named by args: a file path, or stdin when
// no path or "-" is given.
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// resolveDialect uses lang when given, otherwise classifies source.
func resolveDialect(lang, source string) (dialect.ID, error) {
	if lang == "" {
		return dialect.Detect(source).ID, nil
	}
	id, ok := dialect.Parse(lang)
	if !ok {
		return "", fmt.Errorf("unknown language %q", lang)
	}
	return id, nil
}

// langHelp is the --lang flag usage listing the executable dialects.
func langHelp() string {
	ids := dialect.All()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return "Language of the snippet (" + strings.Join(names, ", ") + "); detected when empty"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func saveReport(cmd *cobra.Command, r *history.Report) error {
	store := history.NewStore(cfg.HistoryDir)
	id, err := store.Save(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved report %s in %s\n", id, store.Dir())
	return nil
}
