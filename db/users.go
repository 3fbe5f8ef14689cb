package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// User is a chat that talks to the bot.
type User struct {
	Id        uuid.UUID `db:"id"`
	ChatId    int64     `db:"chat_id"`
	Name      string    `db:"name"`
	TgTag     string    `db:"tg_tag"`
	Lang      string    `db:"lang"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const DefaultLang = "pl"

func GetAllUsers(ctx context.Context, db DBExecutor) ([]*User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, chat_id, name, tg_tag, lang, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("ERR: querying all users: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ERR: iterating user rows: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var id string
	var tgTag sql.NullString

	err := row.Scan(&id, &u.ChatId, &u.Name, &tgTag, &u.Lang, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}

	u.Id, err = uuid.FromString(id)
	if err != nil {
		return nil, fmt.Errorf("error parsing user id: %w", err)
	}
	u.TgTag = tgTag.String
	return &u, nil
}

func GetUserByChatId(ctx context.Context, db DBExecutor, chatId int64) (*User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, chat_id, name, tg_tag, lang, created_at, updated_at
		FROM users WHERE chat_id = ?
	`, chatId)
	return scanUser(row)
}

// StoreUser registers the chat if it is new. An already known chat keeps
// its id and language, only name and tag are refreshed.
func (u *User) StoreUser(ctx context.Context, db DBExecutor) error {
	if u.Lang == "" {
		u.Lang = DefaultLang
	}

	existing, err := GetUserByChatId(ctx, db, u.ChatId)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if existing != nil {
		_, err = db.ExecContext(ctx, `
			UPDATE users SET name = ?, tg_tag = ?, updated_at = CURRENT_TIMESTAMP WHERE chat_id = ?
		`, u.Name, sql.NullString{String: u.TgTag, Valid: u.TgTag != ""}, u.ChatId)
		if err != nil {
			return fmt.Errorf("err updating user %d: %w", u.ChatId, err)
		}
		u.Id = existing.Id
		u.Lang = existing.Lang
		u.CreatedAt = existing.CreatedAt
		return nil
	}

	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("err creating a new uuid for a user: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO users (id, chat_id, name, tg_tag, lang)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("err preparing statement for insert user: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, id.String(), u.ChatId, u.Name, sql.NullString{String: u.TgTag, Valid: u.TgTag != ""}, u.Lang)
	if err != nil {
		return fmt.Errorf("err executing prep insert user stmt: %w", err)
	}

	u.Id = id
	return nil
}

func (u *User) SetLang(ctx context.Context, db DBExecutor, lang string) error {
	_, err := db.ExecContext(ctx, `
		UPDATE users SET lang = ?, updated_at = CURRENT_TIMESTAMP WHERE chat_id = ?
	`, lang, u.ChatId)
	if err != nil {
		return fmt.Errorf("err updating language of %d: %w", u.ChatId, err)
	}
	u.Lang = lang
	return nil
}
