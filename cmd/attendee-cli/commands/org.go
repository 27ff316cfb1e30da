package commands

import (
	"fmt"
	"log/slog"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/database/repositories"
	"github.com/attendee-dev/attendee/shared"
	"github.com/spf13/cobra"
)

func NewOrgCommand() *cobra.Command {
	org := cobra.Command{
		Use:   "org",
		Short: "Manage organizations",
	}

	org.AddCommand(newOrgCreateCommand())
	return &org
}

func newOrgCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			db, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				return err
			}

			org := models.Org{Name: args[0]}
			if err := repositories.NewOrgRepository(db).Create(nil, &org); err != nil {
				slog.Error("could not create organization", "err", err)
				return err
			}

			fmt.Printf("created organization %s (slug: %s)\n", org.ID, org.Slug)
			return nil
		},
	}
}
