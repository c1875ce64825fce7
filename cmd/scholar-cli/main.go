package main

import (
	"scholarcite/cmd/scholar-cli/commands"
	"scholarcite/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
