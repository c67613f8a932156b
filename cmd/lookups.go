package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var publicationsListCmd = &cobra.Command{
	Use:   "publications:list <store-name> <access-token>",
	Short: "List sales channel publications (ids for product definitions)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()

		listing := s.fetcher().FetchPublications(cmd.Context())
		if err := listing.Failure(); err != nil {
			return fmt.Errorf("fetch publications: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, p := range listing.Items {
			fmt.Fprintf(out, "%-45s %s\n", p.ID, p.Name)
		}
		fmt.Fprintf(out, "Total publications: %d\n", len(listing.Items))
		return nil
	},
}

var locationsListCmd = &cobra.Command{
	Use:   "locations:list <store-name> <access-token>",
	Short: "List inventory locations (ids for product definitions)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()

		listing := s.fetcher().FetchLocations(cmd.Context())
		if err := listing.Failure(); err != nil {
			return fmt.Errorf("fetch locations: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, l := range listing.Items {
			fmt.Fprintf(out, "%-45s %s\n", l.ID, l.Name)
		}
		fmt.Fprintf(out, "Total locations: %d\n", len(listing.Items))
		return nil
	},
}

func init() {
	Register(publicationsListCmd)
	Register(locationsListCmd)
}
