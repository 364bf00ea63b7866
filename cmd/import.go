package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blogem/contact-importer/contacts"
	"github.com/blogem/contact-importer/models"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		token  string
		code   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import and normalize the contacts of an authorized user",
		Long: `Import fetches the user's contacts feed and prints the normalized contacts as JSON.

Either --token (an access token) or --code (an authorization code to exchange first) is required.
With --db or DB_PATH set, a snapshot of the import is stored in SQLite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (token == "") == (code == "") {
				return errors.New("exactly one of --token or --code is required")
			}

			a, err := opts.newApp(cmd, dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if code != "" {
				exchanged, err := a.services.Import.ExchangeCode(cmd.Context(), code)
				if err != nil {
					return err
				}
				token = exchanged.String()
			}

			result, err := a.services.Import.Import(cmd.Context(), models.AccessToken(token))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token from a previous exchange")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the consent redirect")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file for the import snapshot; overrides DB_PATH")

	return cmd
}

func newNormalizeCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize a saved contacts feed",
		Long:  "Normalize reads a contacts feed document from a file, or stdin when the file is \"-\", and prints the contacts as JSON. No configuration is needed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			result, err := contacts.Normalize(string(raw))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
