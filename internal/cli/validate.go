package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/blimu-dev/api-typegen/pkg/generator"
)

// RunValidate parses the document and reports its diagnostics to w. Fatal
// parse errors are returned; when strict is set diagnostics fail too.
func RunValidate(ctx context.Context, logger *slog.Logger, w io.Writer, spec string, strict bool) error {
	plan, err := generator.NewService().WithLogger(logger).BuildPlan(ctx, spec)
	if err != nil {
		return err
	}
	for _, d := range plan.Diagnostics {
		fmt.Fprintln(w, d.String())
	}
	if strict && len(plan.Diagnostics) > 0 {
		return fmt.Errorf("%s: %d diagnostics", spec, len(plan.Diagnostics))
	}
	fmt.Fprintf(w, "%s: %d operations, %d definitions\n", spec, len(plan.API), len(plan.Definitions))
	return nil
}
