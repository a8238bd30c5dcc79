package main

import (
	"fmt"
	"os"

	"il2-rankmod/light/internal/cli"
	"il2-rankmod/light/internal/logging"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Goes to the Career log too when logging was initialized
		logging.Error("Rank mod exited with error", "error", err)
		fmt.Fprintln(os.Stderr, "rankmod:", err)
		os.Exit(1)
	}
}
