package main

import (
	"github.com/staffhours/backend/cmd/app"
)

func main() {
	app.Run()
}
