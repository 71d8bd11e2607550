package main

import (
	"os"

	"xmtpcore/cmd/xmtpctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
