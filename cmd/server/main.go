package main

import (
	"fmt"
	"os"

	"github.com/haneulclass/saengibu-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	if err := a.Run(); err != nil {
		a.Log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
