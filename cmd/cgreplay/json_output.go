package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cgreplay/internal/fileutil"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	return encodeJSON(cmd.OutOrStdout(), v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// saveOutput writes rendered command output to path.
func saveOutput(path string, data []byte) error {
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("save output: %w", err)
	}
	return nil
}
