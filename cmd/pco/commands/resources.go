package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/pco-client/pkg/pco"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const maxTableAttributes = 4

// NewProductsCommand creates the products command
func NewProductsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List PCO products and their collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			products := []pco.ProductClient{
				client.People(), client.Services(), client.CheckIns(),
				client.Giving(), client.Calendar(), client.Groups(),
				client.Webhooks(), client.Publishing(),
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON, OutputFormatYAML:
				listing := make(map[string][]string, len(products))
				for _, product := range products {
					listing[product.URL()] = product.Collections()
				}

				if output == OutputFormatJSON {
					return outputJSON(listing)
				}

				return outputYAML(listing)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Product", "Collections")

				for _, product := range products {
					_ = table.Append(product.URL(), strings.Join(product.Collections(), ", "))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	var (
		whereFlags []string
		include    []string
		order      string
		perPage    int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list <product> <collection>",
		Short: "List resources in a collection",
		Long: `List resources in a collection, following pagination.

Example:
  pco list people people --where last_name=Revere --order last_name`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			product, err := client.Product(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", ErrProductNotFound, args[0])
			}

			where, err := parseWhereFlags(whereFlags)
			if err != nil {
				return err
			}

			params := pco.NewQueryParams()
			params.Where = where
			params.Include = include
			params.Order = order
			if perPage > 0 {
				params.PerPage = perPage
			}

			iterator := product.Collection(args[1]).List(cmd.Context(), params)

			var objects []pco.Object

			for iterator.HasNext() {
				record, err := iterator.Next()
				if err != nil {
					if errors.Is(err, pco.ErrNoMoreItems) {
						break
					}

					return fmt.Errorf("listing %s/%s: %w", args[0], args[1], err)
				}

				objects = append(objects, record.Data)
				if limit > 0 && len(objects) >= limit {
					break
				}
			}

			return renderObjects(objects)
		},
	}

	cmd.Flags().StringArrayVar(&whereFlags, "where", nil, "attribute filter as attr=value (repeatable)")
	cmd.Flags().StringSliceVar(&include, "include", nil, "related resources to embed")
	cmd.Flags().StringVar(&order, "order", "", "attribute to order by, prefix with - to reverse")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "page size (1-100)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of resources to fetch")

	return cmd
}

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <product> <collection> <id>",
		Short: "Fetch a single resource",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			product, err := client.Product(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", ErrProductNotFound, args[0])
			}

			resource, err := product.Collection(args[1]).Get(cmd.Context(), args[2])
			if err != nil {
				return fmt.Errorf("fetching %s/%s/%s: %w", args[0], args[1], args[2], err)
			}

			return renderObjects([]pco.Object{resource.Data()})
		},
	}

	return cmd
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <product> <collection> <id>",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				cmd.Printf("Really delete %s/%s/%s? Re-run with --force to confirm.\n", args[0], args[1], args[2])

				return nil
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			product, err := client.Product(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", ErrProductNotFound, args[0])
			}

			if err := product.Collection(args[1]).Delete(cmd.Context(), args[2]); err != nil {
				return fmt.Errorf("deleting %s/%s/%s: %w", args[0], args[1], args[2], err)
			}

			cmd.Println("Deleted")

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")

	return cmd
}

func renderObjects(objects []pco.Object) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return outputJSON(objects)
	case OutputFormatYAML:
		return outputYAML(objects)
	default:
		columns := attributeColumns(objects, maxTableAttributes)

		header := append([]string{"Type", "ID"}, columns...)
		table := tablewriter.NewWriter(os.Stdout)
		table.Header(toAnySlice(header)...)

		for _, obj := range objects {
			_ = table.Append(toAnySlice(resourceRow(obj, columns))...)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	return nil
}

func toAnySlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
