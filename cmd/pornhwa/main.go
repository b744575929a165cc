// Package main provides the pornhwa CLI.
package main

import "github.com/myhead2001/Pornhwa/internal/cli"

func main() {
	cli.Execute()
}
