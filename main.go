package main

import "github.com/mfgkeeper/manufacturer-maintenance/cmd"

func main() {
	cmd.Execute()
}
