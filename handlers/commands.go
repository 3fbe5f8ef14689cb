package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ordersbot/config"
	data_analysis "ordersbot/data-analysis"
	"ordersbot/docs"
	"ordersbot/parser"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const botName = "@ordersbot"

func HandleCommand(ctx context.Context, chatId int64, command string, globalStorage *sql.DB) error {
	cmd, found := strings.CutPrefix(command, "/")
	if !found {
		return fmt.Errorf("it is not a command: %s", command)
	}
	cmd, _, _ = strings.Cut(cmd, " ")
	cmd = strings.TrimSuffix(cmd, botName)

	lang := config.GetLang(chatId)

	switch cmd {
	case "start", "menu":
		return sendHTML(chatId, config.Translate(lang, "welcome"), startMarkup(lang))
	case "help":
		return sendHTML(chatId, config.Translate(lang, "help"), nil)
	case "status":
		return HandleStatus(ctx, chatId)
	case "compare":
		order, err := parser.GetLastOrderByChat(ctx, globalStorage, chatId)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				_, err = Bot.Send(tgbotapi.NewMessage(chatId, config.Translate(lang, "no_orders")))
			}
			return err
		}
		return HandleCompare(ctx, chatId, order, globalStorage)
	case "orders":
		return HandleOrdersPage(ctx, chatId, 0, 0, globalStorage)
	case "export":
		return HandleExport(ctx, chatId, globalStorage)
	case "files":
		return HandleFiles(ctx, chatId, globalStorage)
	case "lang":
		return sendHTML(chatId, config.Translate(lang, "lang_choose"), langMarkup)
	default:
		_, err := Bot.Send(tgbotapi.NewMessage(chatId, config.Translate(lang, "unknown_command")))
		return err
	}
}

// HandleStatus reports which tagger models are loaded.
func HandleStatus(ctx context.Context, chatId int64) error {
	lang := config.GetLang(chatId)
	status := extractor.Cities().Diagnostics(ctx)

	var b strings.Builder
	if status.Available {
		fmt.Fprintf(&b, "<b>%s</b>\n", config.Translate(lang, "status_available"))
	} else {
		fmt.Fprintf(&b, "<b>%s</b>\n", config.Translate(lang, "status_unavailable"))
	}
	fmt.Fprintf(&b, "%s: %s\n", config.Translate(lang, "status_requested"), listOrDash(status.Requested))
	fmt.Fprintf(&b, "%s: %s\n", config.Translate(lang, "status_loaded"), listOrDash(status.Loaded))
	fmt.Fprintf(&b, "%s: %s\n", config.Translate(lang, "status_missing"), listOrDash(status.Missing))

	return sendHTML(chatId, b.String(), nil)
}

// HandleCompare re-reads the order's document and shows the cities every
// extraction mode finds.
func HandleCompare(ctx context.Context, chatId int64, order *parser.Order, globalStorage *sql.DB) error {
	lang := config.GetLang(chatId)

	f := &docs.File{Id: order.DocId}
	if err := f.GetFile(ctx, globalStorage); err != nil {
		return fmt.Errorf("ERR: getting file %d of order %s: %w", order.DocId, order.Id, err)
	}

	text, err := pdfReader.ReadPdfDoc(ctx, f.Path)
	if err != nil {
		return fmt.Errorf("ERR: reading %s: %w", f.Path, err)
	}

	c := extractor.Cities().Compare(ctx, text)
	logger.Debug("comparison", zap.String("order_id", order.Id.String()), zap.Any("comparison", c))

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> %s\n\n", config.Translate(lang, "compare_title"), f.OriginalName)
	modes := []struct {
		key    string
		cities parser.Cities
	}{
		{"mode_pattern", c.Pattern},
		{"mode_entity", c.Entity},
		{"mode_hybrid", c.Hybrid},
	}
	missing := config.Translate(lang, "field_missing")
	for _, m := range modes {
		fmt.Fprintf(&b, "<b>%s</b>: %s → %s\n",
			config.Translate(lang, m.key), orDefault(m.cities.Loading, missing), orDefault(m.cities.Unloading, missing))
	}

	return sendHTML(chatId, b.String(), nil)
}

// HandleExport sends the chat's orders as a workbook.
func HandleExport(ctx context.Context, chatId int64, globalStorage *sql.DB) error {
	lang := config.GetLang(chatId)

	orders, err := parser.GetOrdersByChat(ctx, globalStorage, chatId)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		_, err = Bot.Send(tgbotapi.NewMessage(chatId, config.Translate(lang, "no_orders")))
		return err
	}

	filename, err := data_analysis.CreateOrdersStatement(orders, config.GetFullPath("exports"))
	if err != nil {
		return fmt.Errorf("ERR: creating statement: %w", err)
	}

	doc := tgbotapi.NewDocument(chatId, tgbotapi.FilePath(filename))
	doc.Caption = config.Translate(lang, "export_caption", len(orders))
	_, err = Bot.Send(doc)
	return err
}

// HandleFiles lists the documents the chat has sent.
func HandleFiles(ctx context.Context, chatId int64, globalStorage *sql.DB) error {
	lang := config.GetLang(chatId)

	files, err := docs.GetAllFilesFromUser(ctx, globalStorage, chatId, chatId)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, err = Bot.Send(tgbotapi.NewMessage(chatId, config.Translate(lang, "no_files")))
		return err
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(files))
	for _, f := range files {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(f.OriginalName, fmt.Sprintf("file:%d", f.Id)),
		))
	}
	return sendHTML(chatId, config.Translate(lang, "files_title", len(files)), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
