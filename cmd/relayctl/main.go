package main

import "github.com/GriffinCanCode/relay/cmd/relayctl/cmd"

func main() {
	cmd.Execute()
}
