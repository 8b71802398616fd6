package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debug      bool
	storeKind  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blog-console",
		Short: "Admin backend for a personal blog",
		Long: `blog-console serves the admin API for a personal blog: listing posts by
status, searching, and moving posts through draft, published and trash.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: ./app.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable development logging")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "postgres", "Record store backend (postgres, memory)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(postsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
