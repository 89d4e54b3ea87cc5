package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cooked/internal/grocery"
)

func newGroceryCommand(ctx *commandContext) *cobra.Command {
	var grouped bool

	cmd := &cobra.Command{
		Use:   "grocery",
		Short: "Show the grocery list derived from saved recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			list, err := client.groceryItems(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list.Groups) == 0 {
				fmt.Fprintln(out, "Grocery list is empty.")
				return nil
			}

			if grouped {
				for _, group := range list.Groups {
					fmt.Fprintf(out, "%s\n", group.RecipeTitle)
					for _, item := range group.Items {
						fmt.Fprintf(out, "  %s %s\n", itemMarker(item), ingredientLabel(item.Ingredient))
					}
				}
				return nil
			}

			printGrocerySection(cmd, "To buy", list.ToBuy)
			printGrocerySection(cmd, "Already have", list.AlreadyHave)
			printGrocerySection(cmd, "Done", list.Done)
			return nil
		},
	}

	cmd.Flags().BoolVar(&grouped, "by-recipe", false, "Group items under their recipe")

	return cmd
}

func printGrocerySection(cmd *cobra.Command, title string, items []grocery.Item) {
	if len(items) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	color := shouldColorize(out)

	fmt.Fprintln(out, colorize(color, ansiBold, title+":"))
	for _, item := range items {
		fmt.Fprintf(out, "  %s  (%s)\n", ingredientLabel(item.Ingredient), item.RecipeTitle)
	}
}

func itemMarker(item grocery.Item) string {
	switch {
	case item.AlreadyHave:
		return "[~]"
	case item.Checked:
		return "[x]"
	default:
		return "[ ]"
	}
}
