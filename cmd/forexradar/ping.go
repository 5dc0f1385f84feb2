package main

import (
	"errors"
	"fmt"

	"forexradar/internal/records"
	"github.com/spf13/cobra"
)

func newPingCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the records API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer log.Sync()

			client := records.NewClient(&cfg.Records, log)
			if !client.Ping(cmd.Context()) {
				return errors.New("records API is not reachable")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "records API at %s is reachable\n", cfg.Records.BaseURL)
			return nil
		},
	}
}
