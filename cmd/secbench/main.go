package main

import "github.com/yorozuya-cybersecurity/secbench/pkg/cli"

func main() {
	cli.Execute()
}
