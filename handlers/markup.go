package handlers

import (
	"ordersbot/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofrs/uuid"
)

var (
	languageNames = map[config.LangCode]string{
		config.Polish:  "🇵🇱 Polski",
		config.German:  "🇩🇪 Deutsch",
		config.English: "🇬🇧 English",
	}

	langMarkup = func() tgbotapi.InlineKeyboardMarkup {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(config.Languages))
		for _, lang := range config.Languages {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(languageNames[lang], "lang:"+string(lang)))
		}
		return tgbotapi.NewInlineKeyboardMarkup(row)
	}()
)

func startMarkup(lang config.LangCode) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(config.Translate(lang, "btn_orders"), "page:orders:0"),
			tgbotapi.NewInlineKeyboardButtonData(config.Translate(lang, "btn_export"), "orders:export"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(config.Translate(lang, "btn_lang"), "lang:choose"),
		),
	)
}

func orderMarkup(lang config.LangCode, orderId uuid.UUID) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(config.Translate(lang, "btn_compare"), "order:compare:"+orderId.String()),
		),
	)
}
