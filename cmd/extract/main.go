// Command extract runs the order extractor over PDF files without the bot.
//
// Usage:
//
//	extract file order.pdf        # one document, with diagnostics
//	extract batch ./pdfs          # every PDF in a folder, grouped by plate
//	extract batch --xlsx out/     # also write the workbook
package main

import (
	"os"

	"ordersbot/cmd/extract/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
