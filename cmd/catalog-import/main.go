// Command catalog-import runs product catalog imports from the command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

const (
	exitFailure = 1
	exitUsage   = 2
	exitPartial = 3
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-import",
		Short:         "Import products and categories from a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCmd(),
		newMigrateCmd(),
		newTemplateCmd(),
		newResetCmd(),
	)
	return root
}

func main() {
	_ = godotenv.Overload()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err and returns the process exit code. Errors
// without a specific user message also print the underlying cause.
func reportError(w io.Writer, err error) int {
	fmt.Fprintln(w, "error:", err)

	var ue *core.UserError
	if errors.As(err, &ue) && !core.IsUserFacing(ue.Technical) {
		fmt.Fprintln(w, "detail:", ue.Technical)
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}
