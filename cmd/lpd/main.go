package main

import (
	"fmt"
	"os"

	"github.com/groblegark/linkpixel/internal/client"
	"github.com/groblegark/linkpixel/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool

	apiClient *client.HTTPClient
)

func defaultServer() string {
	if s := os.Getenv("LINKPIXEL_SERVER"); s != "" {
		return s
	}
	if r := activeRemote(); r.URL != "" {
		return r.URL
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("LINKPIXEL_TOKEN"); t != "" {
		return t
	}
	return activeRemote().Token
}

var rootCmd = &cobra.Command{
	Use:   "lpd <command>",
	Short: "linkpixel: single-use tracking links with visit telemetry",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		apiClient = client.New(serverURL, authToken)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for admin calls")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
