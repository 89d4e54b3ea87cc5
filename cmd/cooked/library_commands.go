package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cooked/internal/recipe"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var categoryFilter string
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			recipes, err := client.listRecipes(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(recipes))
			for _, r := range recipes {
				if categoryFilter != "" && string(r.Category) != strings.ToLower(categoryFilter) {
					continue
				}
				if statusFilter != "" && string(r.Status) != strings.ToLower(statusFilter) {
					continue
				}
				rows = append(rows, []string{
					shortID(r.ID),
					r.Title,
					string(r.Category),
					string(r.Status),
					r.CookDate,
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes saved yet. Try: cooked add --type link <url>")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Category", "Status", "Cook date"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryFilter, "category", "", "Only show recipes in this category")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show recipes with this status (saved, cooked)")

	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe's ingredients and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			target, err := resolveRecipe(cmd, client, args[0])
			if err != nil {
				return err
			}
			printRecipe(cmd, target)
			return nil
		},
	}
}

func printRecipe(cmd *cobra.Command, r recipe.Recipe) {
	out := cmd.OutOrStdout()
	color := shouldColorize(out)

	fmt.Fprintln(out, colorize(color, ansiBold, r.Title))
	fmt.Fprintf(out, "%s | %s | %s\n", r.ID, r.Category, r.Status)
	if r.Description != "" {
		fmt.Fprintln(out, r.Description)
	}
	if r.SourceURL != "" {
		fmt.Fprintf(out, "source: %s\n", r.SourceURL)
	}
	if r.CookDate != "" {
		fmt.Fprintf(out, "cook date: %s (reminder %s)\n", r.CookDate, enabledLabel(r.ReminderEnabled))
	}

	fmt.Fprintln(out, "\nIngredients:")
	for _, ingredient := range r.Ingredients {
		marker := "[ ]"
		if ingredient.Checked {
			marker = colorize(color, ansiGreen, "[x]")
		}
		line := fmt.Sprintf("  %s %s", marker, ingredientLabel(ingredient))
		if ingredient.AlreadyHave {
			line += colorize(color, ansiGray, " (already have)")
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out, "\nSteps:")
	for _, step := range r.Steps {
		fmt.Fprintf(out, "  %d. %s\n", step.Order, step.Instruction)
	}
}

func ingredientLabel(ingredient recipe.Ingredient) string {
	if ingredient.Quantity == "" {
		return ingredient.Name
	}
	return ingredient.Quantity + " " + ingredient.Name
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a recipe from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			target, err := resolveRecipe(cmd, client, args[0])
			if err != nil {
				return err
			}
			if err := client.deleteRecipe(cmd.Context(), target.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", target.Title)
			return nil
		},
	}
}

func newCookedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cooked <id>",
		Short: "Mark a recipe as cooked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			target, err := resolveRecipe(cmd, client, args[0])
			if err != nil {
				return err
			}
			updated, err := client.markCooked(cmd.Context(), target.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as cooked\n", updated.Title)
			return nil
		},
	}
}

func newCookAgainCommand(ctx *commandContext) *cobra.Command {
	var cookDate string
	var reminder bool

	cmd := &cobra.Command{
		Use:   "cook-again <id>",
		Short: "Reset a recipe's checklist and schedule another cooking session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			target, err := resolveRecipe(cmd, client, args[0])
			if err != nil {
				return err
			}
			updated, err := client.cookAgain(cmd.Context(), target.ID, cookDate, reminder)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q is back on the menu", updated.Title)
			if updated.CookDate != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " for %s", updated.CookDate)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&cookDate, "cook-date", "", "Planned cook date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&reminder, "reminder", false, "Send a push reminder on the cook date")

	return cmd
}

// resolveRecipe accepts a full id or a unique short prefix.
func resolveRecipe(cmd *cobra.Command, client *apiClient, ref string) (recipe.Recipe, error) {
	if r, err := client.getRecipe(cmd.Context(), ref); err == nil {
		return r, nil
	}

	recipes, err := client.listRecipes(cmd.Context())
	if err != nil {
		return recipe.Recipe{}, err
	}
	var matches []recipe.Recipe
	for _, r := range recipes {
		if strings.HasPrefix(r.ID, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return recipe.Recipe{}, fmt.Errorf("no recipe matches %q", ref)
	default:
		return recipe.Recipe{}, fmt.Errorf("%q matches %d recipes, use more of the id", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
