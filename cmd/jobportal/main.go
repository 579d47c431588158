package main

import (
	"os"

	"github.com/iam-santhosh777/jobportal-client/pkg/cli"
)

func main() {
	if err := cli.Command().Execute(); err != nil {
		os.Exit(1)
	}
}
