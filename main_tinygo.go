//go:build tinygo

package main

import (
	"rugos/app"
	"rugos/hal"
)

func main() {
	app.Run(hal.New())
}
