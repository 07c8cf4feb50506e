package main

import (
	"lite2pg/cmd/lite2pg/cmd"
)

func main() {
	cmd.Execute()
}
