package main

import "tabelkeeper/cmd/client/cmd"

func main() {
	cmd.Execute()
}
