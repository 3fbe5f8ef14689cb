package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"ordersbot/parser"

	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file <pdf>",
	Short: "Extract one order and show how its cities were resolved",
	Long: `Extract one order and print it together with the tagger status and the
cities every extraction mode finds.

Examples:
  extract file order.pdf
  extract file order.pdf --json`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)

	fileCmd.Flags().Bool("json", false, "print the order as JSON only")
	fileCmd.Flags().Bool("text", false, "also print the decoded document text")
}

func runFile(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	showText, _ := cmd.Flags().GetBool("text")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	extractor, reader := newExtractor()

	text, err := reader.ReadPdfDoc(ctx, args[0])
	if err != nil {
		return err
	}

	order, err := extractor.ExtractOrder(ctx, text, filepath.Base(args[0]))
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(order)
	}

	if showText {
		fmt.Fprintf(out, "%s\n%s\n", text, "----")
	}

	fmt.Fprintf(out, "File:            %s\n", order.SourceFile)
	fmt.Fprintf(out, "Order number:    %s\n", orNone(order.OrderNumber))
	fmt.Fprintf(out, "Unloading date:  %s\n", orNone(order.UnloadingDate))
	fmt.Fprintf(out, "License plate:   %s\n", orNone(order.LicensePlate))
	if order.Freight > 0 {
		fmt.Fprintf(out, "Freight:         %.2f EUR\n", order.Freight)
	} else {
		fmt.Fprintf(out, "Freight:         %s\n", orNone(""))
	}
	fmt.Fprintf(out, "Loading city:    %s\n", place(order.LoadingCity, order.LoadingCountry))
	fmt.Fprintf(out, "Unloading city:  %s\n", place(order.UnloadingCity, order.UnloadingCountry))
	if missing := order.Missing(); len(missing) > 0 {
		fmt.Fprintf(out, "Missing:         %v\n", missing)
	}

	cities := extractor.Cities()
	diagnostics, err := json.MarshalIndent(cities.Diagnostics(ctx), "", "  ")
	if err != nil {
		return err
	}
	comparison, err := json.MarshalIndent(cities.Compare(ctx, text), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTagger:\n%s\n\nModes:\n%s\n", diagnostics, comparison)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func place(city, country string) string {
	if city == "" {
		return orNone(city)
	}
	if c, ok := parser.GetCountryByCode(country); ok {
		return fmt.Sprintf("%s (%s)", city, c.Name)
	}
	return city
}
