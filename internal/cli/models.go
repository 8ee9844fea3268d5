package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modelcfg/internal/backend"
)

func (a *app) modelsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "models [family]",
		Short:   "List model families or show one",
		Example: "  modelcfg models\n  modelcfg models dolly-v2 --json",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService(cmd.Context(), false)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				m, err := svc.Model(args[0])
				if err != nil {
					return err
				}
				return a.printJSON(m)
			}
			models := svc.ListModels()
			if asJSON {
				return a.printJSON(models)
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, color.CyanString("NAME\tARCHITECTURE\tDEFAULT_ID\tMODEL_IDS"))
			for _, m := range models {
				name := m.Name
				if m.Name == svc.DefaultFamily() {
					name = color.GreenString(m.Name)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, m.Architecture, m.DefaultID, strings.Join(m.ModelIDs, ","))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func (a *app) backendsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "backends",
		Short: "Probe optional quantisation backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService(cmd.Context(), true)
			if err != nil {
				return err
			}
			rep := svc.Backends()
			if asJSON {
				return a.printJSON(rep)
			}
			if rep.Python != "" {
				fmt.Fprintf(a.out, "python: %s\n", rep.Python)
			}
			if rep.Error != "" {
				fmt.Fprintln(a.out, color.YellowString("probe: %s", rep.Error))
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, color.CyanString("BACKEND\tMODULE\tAVAILABLE\tFORCED"))
			for _, b := range rep.Backends {
				state := color.RedString("no")
				if b.Available {
					state = color.GreenString("yes")
				}
				forced := ""
				if b.Forced {
					forced = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name, b.Module, state, forced)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			cuda, _ := svc.Availability().Get(backend.CUDA)
			fmt.Fprintf(a.out, "cuda: %t\nmodes: %s\n", cuda, strings.Join(svc.Modes(), ","))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
