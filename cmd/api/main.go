package main

import "github.com/settleflow/reflow/services/api/cli"

func main() {
	cli.Execute()
}
