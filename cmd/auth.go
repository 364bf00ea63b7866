package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthURLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "auth-url",
		Short: "Print the Google consent URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), a.services.Import.AuthorizationURL())
			return nil
		},
	}
}

func newExchangeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exchange [code]",
		Short: "Exchange an authorization code for an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.Close()

			token, err := a.services.Import.ExchangeCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token.String())
			return nil
		},
	}
}
