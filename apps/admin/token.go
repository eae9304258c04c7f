package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	echoapi "github.com/facsched/backend/apps/api/echo"
	"github.com/facsched/backend/core"
)

func (cli *commandLine) tokenCmd() *cobra.Command {
	var prn core.Principal
	cmd := &cobra.Command{
		Use:   "token USER_ID",
		Short: "Mint an API token for USER_ID (development only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cli.conf.Env == "PROD" {
				return errors.New("tokens are not minted in PROD")
			}
			prn.ID = args[0]
			token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, prn))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&prn.Name, "name", "", "display name claim")
	cmd.Flags().StringVar(&prn.Email, "email", "", "email claim")
	return cmd
}
