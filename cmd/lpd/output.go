package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/groblegark/linkpixel/internal/model"
	"github.com/groblegark/linkpixel/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printLink(link *model.Link) {
	fmt.Printf("Slug:       %s\n", link.Slug)
	if link.Title != "" {
		fmt.Printf("Title:      %s\n", link.Title)
	}
	if link.ImagePath != "" {
		fmt.Printf("Image:      %s\n", link.ImagePath)
	}
	if !link.CreatedAt.IsZero() {
		fmt.Printf("Created At: %s\n", link.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printEventTable(events []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tIP\tLOCATION\tBROWSER\tSOURCE")
	for _, e := range events {
		location := e.City
		if location != "" && e.Country != "" {
			location += ", " + e.Country
		} else if e.Country != "" {
			location = e.Country
		}
		browser := e.BrowserFamily
		if e.IsBot {
			browser += " " + ui.RenderBot("(bot)")
		}
		source := string(e.AccuracySource)
		if source == "" {
			source = ui.RenderMuted("-")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.OccurredAt.Format("2006-01-02 15:04:05"),
			ui.RenderType(e.Type),
			e.IP,
			location,
			browser,
			source,
		)
	}
	w.Flush()
}
