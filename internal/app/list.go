package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/isctransform/internal/functions"
)

// ListFunctions prints the transform functions with their signatures,
// followed by the plain helper functions.
func (a *App) ListFunctions(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tKIND\tDESCRIPTION")
	for _, fn := range a.registry.Functions() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", fn.Signature(), fn.Kind, fn.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nHelper functions: %s\n", strings.Join(functions.ScalarNames(), ", "))
	return err
}
