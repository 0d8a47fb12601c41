package main

import (
	"github.com/fwmon/fwmon/internal/cli"
	"github.com/fwmon/fwmon/internal/common/logtrace"
)

func init() {
	// replaced once the configured level is known
	_ = logtrace.InitLogger("warn", true)
}

func main() {
	cli.Execute()
}
