// Command ecctool generates keys, signs, verifies and agrees on shared secrets
// over the curves of github.com/taurusgroup/eccore.
package main

import (
	"os"

	"github.com/spf13/viper"
)

func main() {
	// Cobra already prints the error and usage.
	if newRootCmd(viper.New()).Execute() != nil {
		os.Exit(1)
	}
}
