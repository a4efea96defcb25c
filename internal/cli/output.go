package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// printResult prints a value in the configured output format.
// In text mode the textFn callback renders the value; in json mode
// the value is marshalled directly.
func printResult(v any, textFn func()) error {
	switch cfg.Output {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
	default:
		textFn()
	}
	return nil
}

// printErr writes a message to stderr
func printErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
