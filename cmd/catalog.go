package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func catalogCmd() *cobra.Command {
	var (
		query    string
		category string
		flights  bool
		from, to string
		sortBy   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the seeded listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch output {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q", output)
			}

			repo, err := catalog.NewRepository(":memory:")
			if err != nil {
				return err
			}
			defer repo.Close()
			if err := repo.RunMigrations(); err != nil {
				return err
			}
			svc := catalog.NewService(repo, nil, zerolog.Nop())

			out := cmd.OutOrStdout()
			if flights {
				list, err := svc.Flights(cmd.Context(), catalog.FlightQuery{From: from, To: to, SortBy: catalog.FlightSort(sortBy)})
				if err != nil {
					return err
				}
				if output != "table" {
					return encode(out, output, list)
				}
				return printFlights(out, list)
			}

			list, err := svc.Search(cmd.Context(), catalog.Filter{Term: query, Category: category})
			if err != nil {
				return err
			}
			if output != "table" {
				return encode(out, output, list)
			}
			return printProducts(out, list)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "match title or description")
	cmd.Flags().StringVarP(&category, "category", "c", catalog.AllCategories, "category filter")
	cmd.Flags().BoolVar(&flights, "flights", false, "list flights instead of marketplace items")
	cmd.Flags().StringVar(&from, "from", "", "departure airport code")
	cmd.Flags().StringVar(&to, "to", "", "arrival airport code")
	cmd.Flags().StringVar(&sortBy, "sort", "", "flight order: price, duration or rating")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")

	return cmd
}

func printProducts(w io.Writer, products []domain.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tWAS\tSELLER")
	for _, p := range products {
		was := "-"
		if p.OriginalPrice != nil {
			was = domain.FormatPrice(*p.OriginalPrice)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, domain.FormatPrice(p.Price), was, p.Seller)
	}
	return tw.Flush()
}

func printFlights(w io.Writer, flights []domain.Flight) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAIRLINE\tROUTE\tDEPART\tARRIVE\tDURATION\tSTOPS\tPRICE\tRATING")
	for _, f := range flights {
		fmt.Fprintf(tw, "%s\t%s\t%s-%s\t%s\t%s\t%s\t%d\t%s\t%.1f\n",
			f.ID, f.Airline, f.From, f.To, f.DepartureTime, f.ArrivalTime, domain.FormatDuration(f.DurationMin), f.Stops, domain.FormatPrice(f.Price), f.Rating)
	}
	return tw.Flush()
}

func encode(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
