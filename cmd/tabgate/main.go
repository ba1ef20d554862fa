package main

import "go.minekube.com/tabgate/pkg/cmd/tabgate"

func main() {
	tabgate.Execute()
}
