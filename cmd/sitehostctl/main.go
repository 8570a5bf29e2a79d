package main

import "github.com/bilgehannal/sitehost/internal/cli"

func main() {
	cli.Execute()
}
