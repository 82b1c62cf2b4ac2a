// Package display holds the output helpers shared by xlat commands.
package display

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/teranos/xlat/errors"
)

// EnvJSON forces JSON output for every command when set to a true value.
const EnvJSON = "XLAT_JSON"

// ShouldOutputJSON reports whether cmd should print JSON: an explicit
// --json flag wins, then the global flag, then XLAT_JSON.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd != nil {
		if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
			on, _ := cmd.Flags().GetBool("json")
			return on
		}
		if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil && f.Changed {
			on, _ := cmd.Root().PersistentFlags().GetBool("json")
			return on
		}
	}
	on, _ := strconv.ParseBool(os.Getenv(EnvJSON))
	return on
}

// OutputJSON writes v to w as indented JSON followed by a newline.
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
