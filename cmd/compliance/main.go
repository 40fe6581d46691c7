package main

import (
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-compliance/cmd/compliance/cmd"
)

func main() {
	cmd.Execute()
}
