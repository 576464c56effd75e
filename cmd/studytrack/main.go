package main

import "github.com/studytrack/studytrack/cli"

func main() {
	cli.Execute()
}
