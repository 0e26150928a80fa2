package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var createTitleFlag string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new tracking link",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := apiClient.CreateLink(cmd.Context(), createTitleFlag)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(link)
			return nil
		}
		fmt.Printf("created link %s\n", link.Slug)
		printLink(link)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a tracking link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := apiClient.GetLink(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(link)
			return nil
		}
		printLink(link)
		return nil
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <slug> <file>",
	Short: "Attach a hosted image to a link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug, path := args[0], args[1]

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(path))
		stored, err := apiClient.AttachImage(cmd.Context(), slug, filepath.Base(path), contentType, f)
		if err != nil {
			return err
		}
		fmt.Printf("attached %s to %s\n", stored, slug)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createTitleFlag, "title", "", "optional link title")
}
