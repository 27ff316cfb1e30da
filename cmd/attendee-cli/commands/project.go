package commands

import (
	"fmt"
	"log/slog"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/database/repositories"
	"github.com/attendee-dev/attendee/shared"
	"github.com/spf13/cobra"
)

func NewProjectCommand() *cobra.Command {
	project := cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	project.AddCommand(newProjectCreateCommand())
	return &project
}

func newProjectCreateCommand() *cobra.Command {
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project inside an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			orgSlug, err := cmd.Flags().GetString("org")
			if err != nil {
				return err
			}

			db, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				return err
			}

			org, err := repositories.NewOrgRepository(db).ReadBySlug(orgSlug)
			if err != nil {
				slog.Error("could not find organization", "slug", orgSlug, "err", err)
				return err
			}

			project := models.Project{
				OrganizationID: org.ID,
				Name:           args[0],
			}
			if err := repositories.NewProjectRepository(db).Create(nil, &project); err != nil {
				slog.Error("could not create project", "err", err)
				return err
			}

			fmt.Printf("created project %s (slug: %s)\n", project.ObjectID, project.Slug)
			return nil
		},
	}

	create.Flags().StringP("org", "o", "", "Slug of the organization the project belongs to")
	create.MarkFlagRequired("org") // nolint: errcheck

	return create
}
