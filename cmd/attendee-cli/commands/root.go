// Copyright (C) 2025 Attendee Labs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultConfigFilename = ".attendee"

var rootCmd = &cobra.Command{
	Use:   "attendee-cli",
	Short: "Management cli",
	Long: `The attendee cli manages a running attendee instance: database
migrations, tenancy bootstrap (organizations, projects, api keys) and
one-shot draining of the background task queue. Configuration can be
provided via a ./.attendee config file or environment variables (prefix
ATTENDEE_).`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func initializeConfig(cmd *cobra.Command) error {
	viper.SetConfigName(defaultConfigFilename)
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/attendee/")

	// a missing config file is fine, a broken one is not
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		slog.Debug("no config file found")
	}

	viper.SetEnvPrefix("ATTENDEE")
	// Environment variables can't have dashes in them, so bind them to their equivalent
	// keys with underscores, e.g. --favorite-color to ATTENDEE_FAVORITE_COLOR
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	bindFlags(cmd)
	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := f.Name

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)) // nolint: errcheck
		}

		if err := viper.BindPFlag(configName, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}
