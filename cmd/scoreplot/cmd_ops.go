package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// =============================================================================
// OPS COMMAND
// =============================================================================

// OperationInfo describes one registered operation in machine-readable output.
type OperationInfo struct {
	Name      string `json:"name" yaml:"name"`
	Arity     string `json:"arity" yaml:"arity"`
	Signature string `json:"signature" yaml:"signature"`
}

func newOpsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List the operations formulas may call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.cfg.plotter(a.logger)
			if err != nil {
				return withExitCode(CLIExitError, err)
			}
			reg := p.Evaluator().Registry()

			infos := make([]OperationInfo, 0, reg.Len())
			for _, name := range reg.Names() {
				op, _ := reg.Lookup(name)
				infos = append(infos, OperationInfo{
					Name:      op.Name,
					Arity:     op.Arity.String(),
					Signature: op.Signature(),
				})
			}

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				return OutputJSON(w, infos)
			case "yaml":
				return OutputYAML(w, infos)
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tARITY\tSIGNATURE")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Arity, info.Signature)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table, json, yaml")
	return cmd
}
