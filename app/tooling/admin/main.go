// This program performs administrative tasks against a running indexer.
package main

import "github.com/poolsight/poolsight/app/tooling/admin/cmd"

func main() {
	cmd.Execute()
}
