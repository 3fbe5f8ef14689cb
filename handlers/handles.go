package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ordersbot/config"
	"ordersbot/db"
	"ordersbot/parser"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var (
	Bot *tgbotapi.BotAPI

	extractor *parser.Extractor
	pdfReader *parser.PdfReader
	logger    = zap.NewNop()
)

// Setup hands the handlers what they need to process documents. It must be
// called before ReceiveUpdates.
func Setup(bot *tgbotapi.BotAPI, x *parser.Extractor, reader *parser.PdfReader, l *zap.Logger) {
	Bot = bot
	extractor = x
	pdfReader = reader
	if l != nil {
		logger = l.Named("handlers")
	}
}

func ReceiveUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel, globalStorage *sql.DB) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			if err := HandleUpdate(ctx, update, globalStorage); err != nil {
				logger.Error("handling update", zap.Int("update_id", update.UpdateID), zap.Error(err))
			}
		}
	}
}

func HandleUpdate(ctx context.Context, update tgbotapi.Update, globalStorage *sql.DB) error {
	switch {
	case update.Message != nil:
		LogTelegramMessage(update.Message)
		return HandleMessage(ctx, update.Message, globalStorage)
	case update.CallbackQuery != nil:
		return HandleCallbackQuery(ctx, update.CallbackQuery, globalStorage)
	case update.EditedMessage != nil:
		// edits of already processed documents are ignored
		return nil
	default:
		return fmt.Errorf("wrong type of update")
	}
}

func HandleMessage(ctx context.Context, msg *tgbotapi.Message, globalStorage *sql.DB) error {
	user := msg.From
	if user == nil {
		return fmt.Errorf("message %d has no sender", msg.MessageID)
	}

	logger.Debug("message",
		zap.String("from", user.FirstName),
		zap.Int64("user_id", user.ID),
		zap.Int64("chat_id", msg.Chat.ID),
		zap.String("text", msg.Text),
		zap.Int("msg_id", msg.MessageID))

	if err := registerUser(ctx, msg.Chat.ID, user, globalStorage); err != nil {
		return err
	}

	switch {
	case msg.Document != nil:
		return HandleDocument(ctx, msg, globalStorage)
	case strings.HasPrefix(msg.Text, "/"):
		return HandleCommand(ctx, msg.Chat.ID, msg.Text, globalStorage)
	default:
		_, err := Bot.Send(tgbotapi.NewMessage(msg.Chat.ID, config.Translate(config.GetLang(msg.Chat.ID), "send_pdf")))
		return err
	}
}

// registerUser stores a chat the first time it writes. Its language starts
// from the Telegram client language when the bot has a locale for it.
func registerUser(ctx context.Context, chatId int64, from *tgbotapi.User, globalStorage *sql.DB) error {
	if _, known := knownLang(chatId); known {
		return nil
	}

	u, err := db.GetUserByChatId(ctx, globalStorage, chatId)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("ERR: getting user %d: %w", chatId, err)
	}
	if u == nil {
		u = &db.User{ChatId: chatId, Name: strings.TrimSpace(from.FirstName + " " + from.LastName), TgTag: from.UserName}
		if lang := config.LangCode(from.LanguageCode); lang.IsValid() {
			u.Lang = string(lang)
		}
		if err := u.StoreUser(ctx, globalStorage); err != nil {
			return fmt.Errorf("ERR: storing user %d: %w", chatId, err)
		}
		logger.Info("new user", zap.Int64("chat_id", chatId), zap.String("lang", u.Lang))
	}

	config.SetUserLang(chatId, config.LangCode(u.Lang))
	return nil
}

func knownLang(chatId int64) (config.LangCode, bool) {
	config.UsersLanguagesMu.RLock()
	defer config.UsersLanguagesMu.RUnlock()
	lang, ok := config.UsersLanguages[chatId]
	return lang, ok
}

func sendHTML(chatId int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatId, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := Bot.Send(msg)
	return err
}
