package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [template] [note-type]",
	Short: "List card templates, or show one template's HTML",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		ctx := commandContext(cmd)
		bold := color.New(color.Bold)

		if len(args) == 0 {
			templates, err := tk.templates.ListTemplates(ctx)
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Println("No templates found.")
				return nil
			}
			for _, t := range templates {
				bold.Printf("%-30s", t.Name)
				fmt.Printf(" %s\n", t.NoteTypeName)
			}
			return nil
		}

		noteType := ""
		if len(args) == 2 {
			noteType = args[1]
		}
		content, err := tk.templates.TemplateContent(ctx, args[0], noteType)
		if err != nil {
			return err
		}

		bold.Printf("%s (%s)\n\n", content.Name, content.NoteTypeName)
		bold.Println("Front:")
		fmt.Println(content.FrontHTML)
		bold.Println("\nBack:")
		fmt.Println(content.BackHTML)
		if content.BrowserQuestion != "" {
			bold.Println("\nBrowser question:")
			fmt.Println(content.BrowserQuestion)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
