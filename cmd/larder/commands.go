package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/larder/internal/display"
	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/editor"
	"github.com/hammamikhairi/larder/internal/recipe"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bae6fd")).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#3f3f46"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// available loads the product names usable today.
func (a *app) available(cmd *cobra.Command) (editor.AvailableSet, error) {
	names, err := a.pantry.AvailableProducts(cmd.Context(), time.Now())
	if err != nil {
		return nil, err
	}
	return editor.NewAvailableSet(names), nil
}

func newListCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes with how ready the pantry is for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes, err := a.recipes.LoadRecipes(cmd.Context())
			if err != nil {
				return err
			}
			avail, err := a.available(cmd)
			if err != nil {
				a.log.Warn("pantry unavailable: %v", err)
			}
			recipes = recipe.Search(recipes, search)
			if len(recipes) == 0 {
				fmt.Fprintln(a.out, "No recipes.")
				return nil
			}

			t := newTable("Title", "Category", "Time", "Portions", "Tags", "Ready")
			for _, r := range recipes {
				t.Row(
					r.Title,
					string(r.Category),
					domain.FormatNumber(r.Duration)+" "+r.Unit.String(),
					fmt.Sprint(r.Portions),
					strings.Join(r.Tags, ", "),
					display.FormatReadiness(avail.Readiness(r.Ingredients)),
				)
			}
			fmt.Fprintln(a.out, t.Render())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only list recipes whose title, category or tags match")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <title>",
		Short: "Print one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes, err := a.recipes.LoadRecipes(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range recipes {
				if strings.EqualFold(r.Title, strings.TrimSpace(args[0])) {
					avail, err := a.available(cmd)
					if err != nil {
						a.log.Warn("pantry unavailable: %v", err)
					}
					fmt.Fprint(a.out, display.PlainText(r, avail.Readiness(r.Ingredients)))
					return nil
				}
			}
			return fmt.Errorf("recipe %q: %w", args[0], domain.ErrNotFound)
		},
	}
}

// formatFor picks the --format value when given, else guesses from path.
func formatFor(cmd *cobra.Command, flag, path string) (recipe.Format, error) {
	if cmd.Flags().Changed("format") || path == "" {
		return recipe.ParseFormat(flag)
	}
	return recipe.FormatFromPath(path), nil
}

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write every recipe as JSON or YAML (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			f, err := formatFor(cmd, format, path)
			if err != nil {
				return err
			}

			var w io.Writer = a.out
			if path != "" {
				file, err := os.Create(path)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}

			session := a.newSession(cmd.Context(), a.notifier)
			if err := session.Export(cmd.Context(), w, f); err != nil {
				return err
			}
			if path != "" {
				n := 0
				for _, r := range session.Recipes() {
					if r.Title != "" {
						n++
					}
				}
				fmt.Fprintf(a.out, "Exported %d recipes to %s\n", n, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add the recipes of a JSON or YAML file; titles already present are skipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatFor(cmd, format, args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			session := a.newSession(cmd.Context(), a.notifier)
			res, err := session.Import(cmd.Context(), file, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d recipes", len(res.Imported))
			if len(res.Dropped) > 0 {
				fmt.Fprintf(a.out, ", skipped %d", len(res.Dropped))
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml (default guessed from the file name)")
	return cmd
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.recipes.LoadTags(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintln(a.out, t)
			}
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the sample recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			added := 0
			for _, r := range recipe.Samples() {
				err := a.recipes.InsertRecipe(cmd.Context(), r)
				switch {
				case err == nil:
					added++
				case errors.Is(err, domain.ErrDuplicateKey):
					a.log.Debug("sample %q already present", r.Title)
				default:
					return err
				}
			}
			fmt.Fprintf(a.out, "Added %d sample recipes\n", added)
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No store needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(a.out, display.RenderBanner(version))
		},
	}
}
