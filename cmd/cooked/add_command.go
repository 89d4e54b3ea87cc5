package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cooked/internal/recipe"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		kind     string
		category string
		cookDate string
		reminder bool
	)

	cmd := &cobra.Command{
		Use:   "add [input...]",
		Short: "Parse and save a recipe from text, a link, images, or a video",
		Long: `Parse a recipe and save it to the library.

The input depends on --type:
  text   recipe text as a single argument, or "-" to read stdin
  link   a recipe page URL
  image  one or more image file paths
  video  a cooking video URL (YouTube captions or transcription)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}

			kind = strings.ToLower(strings.TrimSpace(kind))
			input := args[0]
			if kind == "text" && input == "-" {
				raw, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = string(raw)
			}

			var (
				parsed recipe.ParsedRecipeData
				source string
			)
			switch kind {
			case "text":
				parsed, err = client.parse(cmd.Context(), "text", input, nil)
				source = "text"
			case "link", "url":
				parsed, err = client.parse(cmd.Context(), "url", input, nil)
				source = "link"
			case "image":
				parsed, err = client.parse(cmd.Context(), "image", "", args)
				source = "image"
			case "video":
				result, videoErr := client.parseVideo(cmd.Context(), input)
				if videoErr != nil {
					return videoErr
				}
				parsed = result.Recipe
				source = "video"
				fmt.Fprintf(cmd.OutOrStdout(), "Transcript source: %s\n", result.Source)
			default:
				return fmt.Errorf("unsupported --type %q (text, link, image, video)", kind)
			}
			if err != nil {
				return err
			}

			payload := map[string]any{
				"title":           parsed.Title,
				"description":     parsed.Description,
				"ingredients":     parsed.Ingredients,
				"steps":           parsed.Steps,
				"category":        category,
				"source":          source,
				"cookDate":        cookDate,
				"reminderEnabled": reminder,
			}
			if source == "link" || source == "video" {
				payload["sourceUrl"] = input
			}

			saved, err := client.addRecipe(cmd.Context(), payload)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved %q (%s)\n", saved.Title, saved.ID)
			fmt.Fprintf(out, "  category: %s  ingredients: %d  steps: %d\n",
				saved.Category, len(saved.Ingredients), len(saved.Steps))
			if saved.CookDate != "" {
				fmt.Fprintf(out, "  cook date: %s (reminder %s)\n", saved.CookDate, enabledLabel(saved.ReminderEnabled))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "text", "Input type: text, link, image, or video")
	cmd.Flags().StringVar(&category, "category", "", "Recipe category (defaults to other)")
	cmd.Flags().StringVar(&cookDate, "cook-date", "", "Planned cook date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&reminder, "reminder", false, "Send a push reminder on the cook date")

	return cmd
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
