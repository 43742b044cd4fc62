package cmd

import (
	"context"
	"fmt"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"

	"github.com/dnsval/resolver/log"
)

// NewQueryCommand creates new command instance
func NewQueryCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "query <domain>",
		Args:  cobra.ExactArgs(1),
		Short: "sends a query through the validating facade and prints the verdict",
		RunE:  query,
	}

	c.Flags().StringP("type", "t", "A", "query type (A, AAAA, ...)")

	return c
}

func query(cmd *cobra.Command, args []string) error {
	typeFlag, _ := cmd.Flags().GetString("type")

	qType, ok := dns.StringToType[typeFlag]
	if !ok {
		return fmt.Errorf("unknown query type '%s'", typeFlag)
	}

	if err := initConfig(); err != nil {
		return fmt.Errorf("can't load configuration: %w", err)
	}

	f, err := cfg.BuildFacade()
	if err != nil {
		return fmt.Errorf("can't build facade: %w", err)
	}

	qmsg := new(dns.Msg)
	qmsg.SetQuestion(dns.Fqdn(args[0]), qType)
	qmsg.SetEdns0(4096, false)

	resp, outcome, err := f.Send(context.Background(), qmsg)
	if err != nil {
		return fmt.Errorf("can't execute query: %w", err)
	}

	logger := log.Log()
	logger.Infof("Query result for '%s' (%s):", args[0], typeFlag)
	logger.Infof("\tverdict:     %20s", outcome.Verdict.String())

	if outcome.Reason != "" {
		logger.Infof("\treason:      %20s", outcome.Reason.String())
	}

	logger.Infof("\tAD flag:     %20t", resp.AuthenticatedData)
	logger.Infof("\treturn code: %20s", dns.RcodeToString[resp.Rcode])

	for _, rr := range resp.Answer {
		logger.Infof("\t%s", rr.String())
	}

	return nil
}
