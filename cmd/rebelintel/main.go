package main

import (
	"rebelintel/cmd/rebelintel/commands"
	"rebelintel/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
