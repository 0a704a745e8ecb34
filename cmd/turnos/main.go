package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turnos",
	Short: "turnos: DCIC room booking web application",
	Long:  "turnos serves the room booking pages and their JSON API in front of the turnos REST backend.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
