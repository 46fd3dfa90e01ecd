package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"go.trai.ch/sdnode/internal/core/domain"
)

func writeSchemas(w io.Writer, schemas []domain.NodeSchema) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, s := range schemas {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t%s\n", s.ID, s.Name)
		fmt.Fprintf(tw, "  %s / %s\n", s.Category, s.SubCategory)
		fmt.Fprintf(tw, "  %s\n", s.Description)
		fmt.Fprintln(tw, "  inputs:")
		for _, in := range s.Inputs {
			fmt.Fprintf(tw, "    %s\t%s\t%s\n", in.Key, in.Kind, describeInput(in))
		}
		fmt.Fprintln(tw, "  outputs:")
		for _, out := range s.Outputs {
			fmt.Fprintf(tw, "    %s\t%s\t%d channels\n", out.Label, out.Kind, out.Channels)
		}
	}
	return tw.Flush()
}

func describeInput(in domain.InputSpec) string {
	switch {
	case in.Optional:
		return "optional"
	case in.Kind == domain.InputSlider:
		return fmt.Sprintf("default %v, range %v..%v", in.Default, in.Min, in.Max)
	case in.Kind == domain.InputEnum:
		return fmt.Sprintf("default %v, %d options", in.Default, len(in.Options))
	case in.Default != nil:
		return fmt.Sprintf("default %v", in.Default)
	default:
		return "required"
	}
}
