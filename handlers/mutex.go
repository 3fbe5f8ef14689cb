package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"ordersbot/config"
	"ordersbot/db"

	"go.uber.org/zap"
)

var (
	// chatId -> name of the document being processed
	processing   = make(map[int64]string)
	processingMu sync.Mutex
)

// startProcessing reserves the chat for one document. It reports false when
// the chat already has a document in flight.
func startProcessing(chatId int64, fileName string) bool {
	processingMu.Lock()
	defer processingMu.Unlock()
	if _, busy := processing[chatId]; busy {
		return false
	}
	processing[chatId] = fileName
	return true
}

func finishProcessing(chatId int64) {
	processingMu.Lock()
	defer processingMu.Unlock()
	delete(processing, chatId)
}

func processingFile(chatId int64) (string, bool) {
	processingMu.Lock()
	defer processingMu.Unlock()
	name, ok := processing[chatId]
	return name, ok
}

// FillSessions restores the language of every known chat.
func FillSessions(ctx context.Context, globalStorage *sql.DB) error {
	users, err := db.GetAllUsers(ctx, globalStorage)
	if err != nil {
		return fmt.Errorf("ERR: getting all users: %w", err)
	}

	for _, u := range users {
		config.SetUserLang(u.ChatId, config.LangCode(u.Lang))
	}

	logger.Info("user languages are filled", zap.Int("len", len(users)))
	return nil
}
