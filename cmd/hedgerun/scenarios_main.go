package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/hedgerun/internal/market"
)

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the preset stress scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%-24s %5s %8s %8s %8s %9s\n",
				"NAME", "DAYS", "SPOT", "VOLMULT", "dSOFR", "dSPREAD")
			for _, p := range market.Presets() {
				fmt.Printf("%-24s %5d %7.1f%% %8.1f %7.2f%% %8.2f%%\n",
					p.Name, p.Shock.Days, p.Shock.SpotReturn*100, p.Shock.VolMult,
					p.Shock.DSOFR*100, p.Shock.DSpread*100)
			}
			fmt.Println()
			for _, p := range market.Presets() {
				fmt.Printf("%s: %s\n", p.Name, p.Narrative)
			}
		},
	}
}
