package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/IvanShishkin/hashhound/internal/hashdb"
	"github.com/IvanShishkin/hashhound/pkg/models"
)

// hashdbCmd creates the hashdb command group
func hashdbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hashdb",
		Short: "Work with known-hash databases",
	}
	cmd.AddCommand(hashdbInspectCmd())
	return cmd
}

func hashdbInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PATH",
		Short: "Load a hash database and print its hash counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			format, compression, err := hashdb.DetectFormat(args[0])
			if err != nil {
				return err
			}
			known, err := hashdb.NewLoader(logger).Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", mutedStyle.Render("Format:"), format)
			if compression != "" {
				fmt.Fprintf(out, " (%s)", compression)
			}
			fmt.Fprintln(out)

			table := tablewriter.NewWriter(out)
			table.Header("Algorithm", "Hashes")
			for _, a := range models.Algorithms {
				if err := table.Append([]string{a.DisplayName(), fmt.Sprint(known.CountByAlgorithm(a))}); err != nil {
					return err
				}
			}
			if err := table.Append([]string{"Total", fmt.Sprint(known.Len())}); err != nil {
				return err
			}
			return table.Render()
		},
	}
}
