package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sierra/internal/version"
)

const versionTagline = "every branch accounted for"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show sierra build fingerprints",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v := strings.TrimSpace(version.Version)
		if v == "" {
			v = "dev"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sierra %s — %s\n", v, versionTagline)
		if commit := strings.TrimSpace(version.GitCommit); commit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", commit)
		}
		if date := strings.TrimSpace(version.BuildDate); date != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", date)
		}
		return nil
	},
}
