package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"pony-express/entity"
)

type seedAccount struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
}

type seedChat struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	OwnerID uint   `json:"owner_id"`
}

type seedMembership struct {
	AccountID uint `json:"account_id"`
	ChatID    uint `json:"chat_id"`
}

type seedMessage struct {
	ID        uint     `json:"id"`
	Text      string   `json:"text"`
	AccountID *uint    `json:"account_id"`
	ChatID    uint     `json:"chat_id"`
	CreatedAt seedTime `json:"created_at"`
}

type document struct {
	Accounts    []seedAccount    `json:"accounts"`
	Chats       []seedChat       `json:"chats"`
	Memberships []seedMembership `json:"memberships"`
	Messages    []seedMessage    `json:"messages"`
}

// seedTime accepts ISO 8601 timestamps with or without a zone; zoneless
// values are UTC.
type seedTime struct {
	time.Time
}

var seedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *seedTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	for _, layout := range seedTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", raw)
}

type result struct {
	Accounts, Chats, Memberships, Messages int64
}

func decode(r io.Reader) (*document, error) {
	doc := new(document)
	if err := json.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode seed document: %w", err)
	}
	return doc, nil
}

// seed inserts every row of doc whose key is not present yet, so running it
// twice changes nothing. Memberships go in before messages so the rows
// reference existing chats and accounts.
func seed(ctx context.Context, db *gorm.DB, doc *document) (result, error) {
	var out result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts := make([]entity.Account, 0, len(doc.Accounts))
		for _, a := range doc.Accounts {
			account := entity.Account{Username: a.Username, Email: a.Email, HashedPassword: a.HashedPassword}
			account.ID = a.ID
			accounts = append(accounts, account)
		}
		n, err := insertMissing(tx, accounts)
		if err != nil {
			return fmt.Errorf("seed accounts: %w", err)
		}
		out.Accounts = n

		chats := make([]entity.Chat, 0, len(doc.Chats))
		for _, c := range doc.Chats {
			chat := entity.Chat{Name: c.Name, OwnerID: c.OwnerID}
			chat.ID = c.ID
			chats = append(chats, chat)
		}
		if out.Chats, err = insertMissing(tx, chats); err != nil {
			return fmt.Errorf("seed chats: %w", err)
		}

		memberships := make([]entity.ChatMembership, 0, len(doc.Memberships))
		for _, m := range doc.Memberships {
			memberships = append(memberships, entity.ChatMembership{AccountID: m.AccountID, ChatID: m.ChatID})
		}
		if out.Memberships, err = insertMissing(tx, memberships); err != nil {
			return fmt.Errorf("seed memberships: %w", err)
		}

		messages := make([]entity.Message, 0, len(doc.Messages))
		for _, m := range doc.Messages {
			messages = append(messages, entity.Message{
				ID:        m.ID,
				Text:      m.Text,
				AccountID: m.AccountID,
				ChatID:    m.ChatID,
				CreatedAt: m.CreatedAt.Time,
			})
		}
		if out.Messages, err = insertMissing(tx, messages); err != nil {
			return fmt.Errorf("seed messages: %w", err)
		}

		return resetSequences(tx)
	})
	return out, err
}

func insertMissing[T any](tx *gorm.DB, rows []T) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	created := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 100)
	return created.RowsAffected, created.Error
}

// explicit ids leave postgres sequences behind the data
func resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"accounts", "chats", "messages"} {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1)) FROM %[1]s",
			table,
		)
		if err := tx.Exec(query).Error; err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}
