package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/scoreplot"
)

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

// OutputJSON writes v as indented JSON.
func OutputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// OutputYAML writes v as YAML.
func OutputYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// writeResult renders a plot result in the requested format.
func writeResult(w io.Writer, format string, res *scoreplot.Result) error {
	switch format {
	case "", "json":
		return OutputJSON(w, res)
	case "yaml":
		return OutputYAML(w, res)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"x", "y"}); err != nil {
			return err
		}
		for _, p := range res.Samples.Points {
			if err := cw.Write([]string{formatFloat(p.X), formatFloat(p.Y)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case "table":
		fmt.Fprintf(w, "formula: %s\n", res.Formula)
		fmt.Fprintf(w, "range:   [%s, %s] (%s)\n", formatFloat(res.Start), formatFloat(res.End), res.Label)
		fmt.Fprintf(w, "y:       [%s, %s]\n\n", formatFloat(res.Samples.MinY), formatFloat(res.Samples.MaxY))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "%s\tscore\t\n", res.Label)
		for _, p := range res.Samples.Points {
			fmt.Fprintf(tw, "%s\t%s\t\n", formatFloat(p.X), formatFloat(p.Y))
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q", format)
}
