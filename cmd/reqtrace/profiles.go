package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reqtrace/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the built-in keyword profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range profile.Names() {
			p, err := profile.Builtin(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-12s  %s\n", name, strings.Join(p.Terms, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
