package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	app "github.com/gocrud/injector"
	"github.com/gocrud/injector/catalog"
	"github.com/gocrud/injector/di"
)

const (
	configFlag   = "config"
	logLevelFlag = "log-level"
	categoryFlag = "category"
)

// loadSettings 读取配置并应用命令行覆盖
func loadSettings(cmd *cobra.Command, defaultLevel string) (app.Settings, error) {
	settings, err := app.LoadSettings(cmd.Flag(configFlag).Value.String())
	if err != nil {
		return app.Settings{}, err
	}
	if level := cmd.Flag(logLevelFlag).Value.String(); level != "" {
		settings.Logging.Level = level
	} else if defaultLevel != "" {
		settings.Logging.Level = defaultLevel
	}
	return settings, nil
}

// withApplication 构建应用、执行 fn，然后关闭资源
func withApplication(cmd *cobra.Command, fn func(ctx context.Context, a *app.Application) error) error {
	settings, err := loadSettings(cmd, "warn")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, settings)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return fn(ctx, a)
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled import",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, "")
			if err != nil {
				return err
			}
			return app.Run(settings)
		},
	}
}

func importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import the product file once and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, func(ctx context.Context, a *app.Application) error {
				importer, err := di.Resolve[catalog.Importer](a.Container())
				if err != nil {
					return err
				}
				report, runErr := importer.Run(ctx, "cli")
				if err := printJSON(report); err != nil {
					return err
				}
				return runErr
			})
		},
	}
}

func listCommand() *cobra.Command {
	var category string
	c := &cobra.Command{
		Use:   "list",
		Short: "List the products of a category",
		Long: `List the products of a category.
When the store is empty (always the case without a database) the product file is imported first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, func(ctx context.Context, a *app.Application) error {
				return listProducts(ctx, a.Container(), category)
			})
		},
	}

	c.Flags().StringVar(&category, categoryFlag, "", "product category")
	c.MarkFlagRequired(categoryFlag) // nolint
	return c
}

func listProducts(ctx context.Context, c *di.Container, category string) error {
	store, err := di.Resolve[catalog.ProductStore](c)
	if err != nil {
		return err
	}
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		importer, err := di.Resolve[catalog.Importer](c)
		if err != nil {
			return err
		}
		if _, err := importer.Run(ctx, "cli"); err != nil {
			return err
		}
	}

	service, err := di.Resolve[catalog.ProductService](c)
	if err != nil {
		return err
	}
	products, err := service.GetAllFromCategory(ctx, category)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tDESCRIPTION")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Price, p.Description)
	}
	return w.Flush()
}

func bindingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "Print the container bindings and dependency graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, func(ctx context.Context, a *app.Application) error {
				return printJSON(app.Describe(a.Container()))
			})
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
