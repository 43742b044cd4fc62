package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dnsval/resolver/log"
)

// NewValidateCommand creates new command instance
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Args:  cobra.NoArgs,
		Short: "Validates the configuration file",
		RunE:  validateConfiguration,
	}
}

func validateConfiguration(_ *cobra.Command, _ []string) error {
	log.Log().Infof("Validating configuration file: %s", configPath)

	if _, err := os.Stat(configPath); err != nil && errors.Is(err, os.ErrNotExist) {
		return errors.New("configuration path does not exist")
	}

	if err := initConfig(); err != nil {
		return err
	}

	cfg.LogConfig(log.PrefixedLog("config"))
	log.Log().Info("Configuration is valid")

	return nil
}
