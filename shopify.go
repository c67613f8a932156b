package main

import (
	"shopify.GO/cmd"
	"shopify.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
