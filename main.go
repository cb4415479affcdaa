package main

import (
	"os"

	"github.com/vigil-vms/vigil/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
