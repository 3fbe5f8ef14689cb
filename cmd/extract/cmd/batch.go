package cmd

import (
	"fmt"
	"path/filepath"

	data_analysis "ordersbot/data-analysis"
	"ordersbot/db"
	"ordersbot/parser"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Extract every PDF in a folder and group the orders by license plate",
	Long: `Extract every PDF in a folder (PDFS_FOLDER by default), print the orders
grouped by license plate with freight totals, and save the results as JSON.

Examples:
  extract batch
  extract batch ./pdfs --output results.json
  extract batch ./pdfs --xlsx ./exports --db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("output", "o", "", "JSON output file (default: JSON_OUTPUT)")
	batchCmd.Flags().String("xlsx", "", "also write an xlsx statement into this folder")
	batchCmd.Flags().Bool("db", false, "store the orders in DB_PATH")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := cfg.PdfsFolder
	if len(args) == 1 {
		dir = args[0]
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.JSONOutput
	}
	xlsxDir, _ := cmd.Flags().GetString("xlsx")
	store, _ := cmd.Flags().GetBool("db")

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	files, err := parser.ListPdfFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files in %s", dir)
	}

	extractor, reader := newExtractor()
	summary := parser.Summary{TotalPdfs: len(files)}
	orders := make([]*parser.Order, 0, len(files))

	for i, name := range files {
		fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(files), name)

		text, err := reader.ReadPdfDoc(ctx, filepath.Join(dir, name))
		if err != nil {
			logger.Warn("reading pdf", zap.String("file", name), zap.Error(err))
			summary.Failed++
			continue
		}

		order, err := extractor.ExtractOrder(ctx, text, name)
		if err != nil {
			logger.Warn("extracting order", zap.String("file", name), zap.Error(err))
			summary.Failed++
			continue
		}
		if order.Complete() {
			summary.Successful++
		} else {
			fmt.Fprintf(out, "   missing: %v\n", order.Missing())
		}
		orders = append(orders, order)
	}

	grouped, noPlate, err := parser.GroupByPlate(orders)
	if err != nil {
		return err
	}
	summary.UniquePlates = len(grouped)

	parser.PrintGrouped(out, grouped, noPlate)
	parser.PrintSummary(out, summary, len(noPlate))
	parser.PrintFreightTotals(out, parser.FreightTotals(grouped))

	if err := parser.SaveJSON(output, grouped, noPlate, summary); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nResults saved to %s\n", output)

	if xlsxDir != "" {
		path, err := data_analysis.CreateOrdersStatement(orders, xlsxDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Statement saved to %s\n", path)
	}

	if store {
		storage, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer storage.Close()
		for _, o := range orders {
			if err := o.StoreOrder(ctx, storage); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Stored %d orders in %s\n", len(orders), cfg.DBPath)
	}

	return nil
}
