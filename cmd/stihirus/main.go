package main

import (
	"stihirus-reader/cmd/stihirus/commands"
	"stihirus-reader/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
