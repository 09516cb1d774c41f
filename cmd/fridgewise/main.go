package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d-okonkwo/fridgewise/internal/app"
	"github.com/d-okonkwo/fridgewise/internal/inventory"
	"github.com/d-okonkwo/fridgewise/internal/recipes"
	"github.com/d-okonkwo/fridgewise/internal/retry"
)

var rootCmd = &cobra.Command{
	Use:   "fridgewise",
	Short: "fridgewise - Food inventory tracker with smart recipe suggestions",
	Long:  `fridgewise tracks food items and their expiration dates, and asks a remote recipe model for suggestions that use up soon-to-expire ingredients first.`,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(expiringCmd)
	rootCmd.AddCommand(suggestCmd)
}

// withApp wires an App into a command handler and tears it down afterwards.
func withApp(fn func(a *app.App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(a, cmd, args)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fridgewise v0.1.0")
	},
}

var addCmd = &cobra.Command{
	Use:   "add [name] [expiry]",
	Short: "Add a food item with an expiration date (YYYY-MM-DD or days from now)",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		expiresAt, err := parseExpiry(args[1])
		if err != nil {
			return err
		}
		item, err := a.DB.AddItem(cmd.Context(), args[0], expiresAt)
		if err != nil {
			return err
		}
		a.Logger.Info("item added", zap.Int64("id", item.ID), zap.String("name", item.Name))
		fmt.Printf("Added %s (id %d), expires %s\n", item.Name, item.ID, item.ExpiresAt.Format("2006-01-02"))
		return nil
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked items",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		items, err := a.DB.ListItems(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No items tracked.")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%4d  %-24s expires %s\n", item.ID, item.Name, item.ExpiresAt.Format("2006-01-02"))
		}
		return nil
	}),
}

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove an item by id",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}
		if err := a.DB.RemoveItem(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Removed item %d\n", id)
		return nil
	}),
}

var expiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "Show items grouped by expiration status",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		items, err := a.DB.ListItems(cmd.Context())
		if err != nil {
			return err
		}
		c := inventory.Classify(items, time.Now(), a.Config.ExpiryWindowDays)

		printGroup := func(label string, items []*inventory.Item) {
			if len(items) == 0 {
				return
			}
			fmt.Printf("%s:\n", label)
			for _, item := range items {
				fmt.Printf("  %-24s %s\n", item.Name, item.ExpiresAt.Format("2006-01-02"))
			}
		}
		printGroup("Expired", c.Expired)
		printGroup("Expiring soon", c.ExpiringSoon)
		printGroup("Fresh", c.Fresh)
		return nil
	}),
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest recipes that use up soon-to-expire ingredients",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		// Surface retry progress while the request is in flight.
		a.Client.SetStatusObserver(func(s retry.Status) {
			if s.Retrying {
				fmt.Fprintf(os.Stderr, "%s...\n", s.Message)
			}
		})

		selected, err := a.Recipes.SuggestFromInventory(a.ContextWithLogger(cmd.Context()))
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			fmt.Println("Nothing is expiring soon - no suggestions needed.")
			return nil
		}

		for i, recipe := range selected {
			if i > 0 {
				fmt.Println()
			}
			printRecipe(recipe)
		}
		return nil
	}),
}

func printRecipe(r *recipes.Candidate) {
	fmt.Printf("%s  [%s, %s, serves %d", r.Title, r.Difficulty, r.Category, r.Servings)
	if r.CookingTime != "" {
		fmt.Printf(", %s", r.CookingTime)
	}
	fmt.Println("]")

	if len(r.MatchedIngredients) > 0 {
		matched := make([]string, 0, len(r.MatchedIngredients))
		for name := range r.MatchedIngredients {
			matched = append(matched, name)
		}
		sort.Strings(matched)
		fmt.Printf("  Uses: %s\n", strings.Join(matched, ", "))
	}
	for _, line := range r.IngredientLines {
		fmt.Printf("  - %s\n", line)
	}
	for i, step := range r.Instructions {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
}

// parseExpiry accepts either an absolute date (YYYY-MM-DD) or a number of
// days from now.
func parseExpiry(arg string) (time.Time, error) {
	if days, err := strconv.Atoi(arg); err == nil {
		return time.Now().AddDate(0, 0, days), nil
	}
	t, err := time.ParseInLocation("2006-01-02", arg, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q: use YYYY-MM-DD or a number of days", arg)
	}
	// Items expire at the end of the given day.
	return t.AddDate(0, 0, 1).Add(-time.Second), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
