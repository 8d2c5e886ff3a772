package model

import "time"

type Note struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Color     *string   `db:"color" json:"color"`
	IsPinned  bool      `db:"is_pinned" json:"is_pinned"`
	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type NoteVersion struct {
	ID        int       `db:"id" json:"id"`
	NoteID    int       `db:"note_id" json:"note_id"`
	Version   int       `db:"version" json:"version"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
