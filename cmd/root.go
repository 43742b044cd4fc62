package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dnsval/resolver/config"
	"github.com/dnsval/resolver/log"
)

//nolint:gochecknoglobals
var (
	version   = "undefined"
	buildTime = "undefined"

	configPath string
	cfg        *config.Config
)

const defaultConfigPath = "./config.yml"

// NewRootCommand creates the root cobra command: a plain validate/query
// CLI, grounded on the teacher's cmd/root.go but stripped of the
// blocking/cache/lists/serve subcommands that belonged to its recursive
// proxy (this module has no long-running server mode, per spec.md's
// stub-resolver scope).
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dnsval",
		Short: "dnsval validates DNS responses against DNSSEC",
		Long: `dnsval is a DNSSEC-validating stub resolver.

It sends a query to an upstream resolver with the DO bit set, verifies
the RRSIG/DNSKEY/DS/NSEC(3) chain against a trust anchor, and reports
SECURE/INSECURE/BOGUS/INDETERMINATE.`,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")

	root.AddCommand(NewValidateCommand())
	root.AddCommand(NewQueryCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func initConfig() error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	cfg = loaded
	log.ConfigureLogger(cfg.Log)

	return nil
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
