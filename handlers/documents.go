package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"ordersbot/config"
	"ordersbot/docs"
	"ordersbot/parser"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// HandleDocument accepts a PDF order and processes it in the background. A
// chat can have one document in flight at a time.
func HandleDocument(ctx context.Context, msg *tgbotapi.Message, globalStorage *sql.DB) error {
	chatId := msg.Chat.ID
	lang := config.GetLang(chatId)
	doc := msg.Document

	if docs.DetectMimetype(doc.MimeType, doc.FileName) != docs.MimeAppPDF {
		_, err := Bot.Send(tgbotapi.NewMessage(chatId, config.Translate(lang, "not_pdf")))
		return err
	}

	if !startProcessing(chatId, doc.FileName) {
		current, _ := processingFile(chatId)
		_, err := Bot.Send(tgbotapi.NewMessage(chatId, config.Translate(lang, "busy", current)))
		return err
	}

	reply := tgbotapi.NewMessage(chatId, config.Translate(lang, "processing", doc.FileName))
	reply.ReplyToMessageID = msg.MessageID
	if _, err := Bot.Send(reply); err != nil {
		finishProcessing(chatId)
		return err
	}

	go func() {
		defer finishProcessing(chatId)

		order, err := processDocument(ctx, chatId, doc, globalStorage)
		if err != nil {
			logger.Error("processing document",
				zap.Int64("chat_id", chatId), zap.String("file", doc.FileName), zap.Error(err))
			key := "extraction_failed"
			if errors.Is(err, parser.ErrNotPDF) {
				key = "not_pdf"
			}
			Bot.Send(tgbotapi.NewMessage(chatId, config.Translate(lang, key)))
			return
		}

		logger.Info("order extracted",
			zap.Int64("chat_id", chatId),
			zap.String("file", doc.FileName),
			zap.String("order_id", order.Id.String()),
			zap.Strings("missing", order.Missing()))

		if err := sendHTML(chatId, parser.ReadOrder(order, lang), orderMarkup(lang, order.Id)); err != nil {
			logger.Error("sending order", zap.Int64("chat_id", chatId), zap.Error(err))
		}
	}()

	return nil
}

func processDocument(ctx context.Context, chatId int64, doc *tgbotapi.Document, globalStorage *sql.DB) (*parser.Order, error) {
	url, err := Bot.GetFileDirectURL(doc.FileID)
	if err != nil {
		return nil, fmt.Errorf("ERR: getting file url: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("ERR: generating file name: %w", err)
	}
	name := id.String() + filepath.Ext(doc.FileName)

	path, err := config.DownloadFile(url, name)
	if err != nil {
		return nil, fmt.Errorf("ERR: downloading %s: %w", doc.FileName, err)
	}

	f := &docs.File{
		TgFileId:     doc.FileID,
		From:         chatId,
		Name:         name,
		OriginalName: doc.FileName,
		Path:         path,
		Mimetype:     docs.MimeAppPDF,
	}
	if err := f.StoreFile(ctx, globalStorage); err != nil {
		return nil, fmt.Errorf("ERR: storing file: %w", err)
	}

	text, err := pdfReader.ReadPdfDoc(ctx, path)
	if err != nil {
		return nil, err
	}

	order, err := extractor.ExtractOrder(ctx, text, doc.FileName)
	if err != nil {
		return nil, err
	}
	order.DocId = f.Id
	order.ChatId = chatId

	if err := order.StoreOrder(ctx, globalStorage); err != nil {
		return nil, fmt.Errorf("ERR: storing order: %w", err)
	}
	return order, nil
}
