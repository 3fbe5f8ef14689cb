package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"ordersbot/config"
	"ordersbot/parser"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const OrdersPerPage = 5

func escapeHTML(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func FormatOrderForList(o *parser.Order, index int, lang config.LangCode) string {
	missing := config.Translate(lang, "field_missing")
	freight := missing
	if o.Freight > 0 {
		freight = fmt.Sprintf("%.2f EUR", o.Freight)
	}

	return fmt.Sprintf(
		"%d. <b>%s</b> (%s)\n"+
			"   🚛 %s\n"+
			"   📍 %s → %s\n"+
			"   📅 %s   💶 %s\n",
		index+1,
		orDefault(escapeHTML(o.OrderNumber), missing),
		escapeHTML(o.SourceFile),
		orDefault(escapeHTML(o.LicensePlate), missing),
		orDefault(escapeHTML(o.LoadingCity), missing),
		orDefault(escapeHTML(o.UnloadingCity), missing),
		orDefault(escapeHTML(o.UnloadingDate), missing),
		freight,
	)
}

func CreateOrderListMessage(orders []*parser.Order, page int, chatId int64, callbackPrefix string) tgbotapi.MessageConfig {
	lang := config.GetLang(chatId)
	totalPages := (len(orders) + OrdersPerPage - 1) / OrdersPerPage

	if page >= totalPages && totalPages > 0 {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	start := page * OrdersPerPage
	end := min(start+OrdersPerPage, len(orders))

	var messageText strings.Builder
	messageText.WriteString(config.Translate(lang, "orders_title", page+1, max(totalPages, 1)))
	messageText.WriteString("\n")
	messageText.WriteString(config.Translate(lang, "orders_total", len(orders)))
	messageText.WriteString("\n\n")

	if len(orders) == 0 {
		messageText.WriteString(config.Translate(lang, "no_orders"))
	} else {
		for i := start; i < end; i++ {
			messageText.WriteString(FormatOrderForList(orders[i], i, lang))
			messageText.WriteString("\n")
		}
	}

	msg := tgbotapi.NewMessage(chatId, messageText.String())
	msg.ParseMode = tgbotapi.ModeHTML

	var navButtons []tgbotapi.InlineKeyboardButton
	if page > 0 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData(
			config.Translate(lang, "btn_prev"),
			fmt.Sprintf("%s:%d", callbackPrefix, page-1),
		))
	}
	if page < totalPages-1 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData(
			config.Translate(lang, "btn_next"),
			fmt.Sprintf("%s:%d", callbackPrefix, page+1),
		))
	}
	if len(navButtons) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(navButtons)
	}

	return msg
}

// HandleOrdersPage sends a page of the chat's orders, newest first. A
// non-zero msgId edits that message instead.
func HandleOrdersPage(ctx context.Context, chatId int64, msgId, page int, globalStorage *sql.DB) error {
	orders, err := parser.GetOrdersByChat(ctx, globalStorage, chatId)
	if err != nil {
		return fmt.Errorf("ERR: getting orders: %w", err)
	}
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}

	msg := CreateOrderListMessage(orders, page, chatId, "page:orders")
	if msgId == 0 {
		_, err = Bot.Send(msg)
		return err
	}

	edit := tgbotapi.NewEditMessageText(chatId, msgId, msg.Text)
	edit.ParseMode = tgbotapi.ModeHTML
	if keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok {
		edit.ReplyMarkup = &keyboard
	}
	_, err = Bot.Send(edit)
	if err != nil {
		return fmt.Errorf("ERR: editing message: %w", err)
	}
	return nil
}

func HandlePaginationCommands(ctx context.Context, chatId int64, command string, msgId int, globalStorage *sql.DB) error {
	cmd, found := strings.CutPrefix(command, "page:")
	if !found {
		return fmt.Errorf("not a pagination callback: %s", command)
	}

	switch {
	case strings.HasPrefix(cmd, "orders:"):
		page, err := strconv.Atoi(strings.TrimPrefix(cmd, "orders:"))
		if err != nil {
			return fmt.Errorf("invalid page number: %w", err)
		}
		return HandleOrdersPage(ctx, chatId, msgId, page, globalStorage)
	default:
		return fmt.Errorf("unknown pagination callback: %s", command)
	}
}
