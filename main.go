// Command dnsval is a DNSSEC-validating stub resolver. See cmd/root.go
// for the validate/query subcommands; version/buildTime are injected at
// link time via -X github.com/dnsval/resolver/cmd.version=... .
package main

import (
	"github.com/dnsval/resolver/cmd"
)

func main() {
	cmd.Execute()
}
