package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"ordersbot/config"
	"ordersbot/db"
	"ordersbot/docs"
	"ordersbot/parser"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

func HandleCallbackQuery(ctx context.Context, cbq *tgbotapi.CallbackQuery, globalStorage *sql.DB) error {
	if cbq.Message == nil {
		return fmt.Errorf("callback %s has no message", cbq.ID)
	}
	chatId := cbq.Message.Chat.ID
	msgId := cbq.Message.MessageID

	logger.Debug("button pressed",
		zap.Int64("chat_id", chatId), zap.String("data", cbq.Data), zap.Int("msg_id", msgId))

	if _, err := Bot.Request(tgbotapi.NewCallback(cbq.ID, "")); err != nil {
		logger.Warn("answering callback", zap.Error(err))
	}

	switch {
	case strings.HasPrefix(cbq.Data, "page:"):
		return HandlePaginationCommands(ctx, chatId, cbq.Data, msgId, globalStorage)
	case cbq.Data == "orders:export":
		return HandleExport(ctx, chatId, globalStorage)
	case strings.HasPrefix(cbq.Data, "order:compare:"):
		id, err := uuid.FromString(strings.TrimPrefix(cbq.Data, "order:compare:"))
		if err != nil {
			return fmt.Errorf("ERR: order id in %q: %w", cbq.Data, err)
		}
		order, err := parser.GetOrder(ctx, globalStorage, id)
		if err != nil {
			config.VERY_BAD(chatId, Bot)
			return err
		}
		if order.ChatId != chatId {
			return fmt.Errorf("order %s belongs to another chat: %w", id, docs.ErrNoPermission)
		}
		return HandleCompare(ctx, chatId, order, globalStorage)
	case strings.HasPrefix(cbq.Data, "file:"):
		id, err := strconv.Atoi(strings.TrimPrefix(cbq.Data, "file:"))
		if err != nil {
			return fmt.Errorf("ERR: file id in %q: %w", cbq.Data, err)
		}
		f := &docs.File{Id: id}
		if err := f.GetFile(ctx, globalStorage); err != nil {
			return err
		}
		if f.From != chatId {
			return docs.ErrNoPermission
		}
		_, err = f.SendFileTo(f.OriginalName, chatId, Bot)
		return err
	case cbq.Data == "lang:choose":
		return sendHTML(chatId, config.Translate(config.GetLang(chatId), "lang_choose"), langMarkup)
	case strings.HasPrefix(cbq.Data, "lang:"):
		return HandleSetLang(ctx, chatId, config.LangCode(strings.TrimPrefix(cbq.Data, "lang:")), globalStorage)
	default:
		return fmt.Errorf("unknown callback: %s", cbq.Data)
	}
}

func HandleSetLang(ctx context.Context, chatId int64, lang config.LangCode, globalStorage *sql.DB) error {
	if !lang.IsValid() {
		return fmt.Errorf("unsupported language: %s", lang)
	}

	u := &db.User{ChatId: chatId}
	if err := u.SetLang(ctx, globalStorage, string(lang)); err != nil {
		return err
	}
	config.SetUserLang(chatId, lang)

	_, err := Bot.Send(tgbotapi.NewMessage(chatId, config.Translate(lang, "lang_set")))
	return err
}
