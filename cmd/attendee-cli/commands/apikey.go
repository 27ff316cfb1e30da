package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/database/repositories"
	"github.com/attendee-dev/attendee/shared"
	"github.com/spf13/cobra"
)

func NewAPIKeyCommand() *cobra.Command {
	apikey := cobra.Command{
		Use:   "apikey",
		Short: "Manage project api keys",
	}

	apikey.AddCommand(newAPIKeyCreateCommand())
	apikey.AddCommand(newAPIKeyListCommand())
	return &apikey
}

func newAPIKeyCreateCommand() *cobra.Command {
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an api key for a project and print it once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			projectObjectID, err := cmd.Flags().GetString("project")
			if err != nil {
				return err
			}

			db, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				return err
			}

			project, err := repositories.NewProjectRepository(db).ReadByObjectID(projectObjectID)
			if err != nil {
				slog.Error("could not find project", "objectID", projectObjectID, "err", err)
				return err
			}

			token := models.NewAPIKeyToken()
			apiKey := models.APIKey{
				ProjectID: project.ID,
				Name:      args[0],
				KeyHash:   models.HashToken(token),
			}
			if err := repositories.NewAPIKeyRepository(db).Create(nil, &apiKey); err != nil {
				slog.Error("could not create api key", "err", err)
				return err
			}

			// only the hash is stored, so this is the single chance to copy it
			fmt.Printf("created api key %s for project %s\n", apiKey.ObjectID, project.ObjectID)
			fmt.Printf("plaintext key (shown only once): %s\n", token)
			return nil
		},
	}

	create.Flags().StringP("project", "p", "", "Object id of the project the key belongs to")
	create.MarkFlagRequired("project") // nolint: errcheck

	return create
}

func newAPIKeyListCommand() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List the api keys of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			shared.LoadConfig() // nolint
			projectObjectID, err := cmd.Flags().GetString("project")
			if err != nil {
				return err
			}

			db, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				return err
			}

			project, err := repositories.NewProjectRepository(db).ReadByObjectID(projectObjectID)
			if err != nil {
				slog.Error("could not find project", "objectID", projectObjectID, "err", err)
				return err
			}

			keys, err := repositories.NewAPIKeyRepository(db).ListByProjectID(project.ID)
			if err != nil {
				slog.Error("could not list api keys", "err", err)
				return err
			}

			fmt.Printf("%-32s %-24s %-10s %s\n", "OBJECT ID", "NAME", "DISABLED", "LAST USED")
			for _, key := range keys {
				lastUsed := "never"
				if key.LastUsedAt != nil {
					lastUsed = key.LastUsedAt.Format(time.RFC3339)
				}
				fmt.Printf("%-32s %-24s %-10t %s\n", key.ObjectID, key.Name, key.DisabledAt != nil, lastUsed)
			}
			return nil
		},
	}

	list.Flags().StringP("project", "p", "", "Object id of the project the key belongs to")
	list.MarkFlagRequired("project") // nolint: errcheck

	return list
}
