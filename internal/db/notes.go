package db

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const noteColumns = `id, user_id, title, content, color, is_pinned, version, created_at, updated_at`

func (s *pgStore) ListNotes(userID int, query string) ([]model.Note, error) {
	out := []model.Note{}
	q := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1`
	args := []any{userID}
	if query != "" {
		q += ` AND (title ILIKE $2 OR content ILIKE $2)`
		args = append(args, "%"+query+"%")
	}
	err := s.db.Select(&out, q+` ORDER BY is_pinned DESC, updated_at DESC;`, args...)
	return out, err
}

func (s *pgStore) GetNote(userID, id int) (*model.Note, error) {
	var n model.Note
	if err := s.db.Get(&n, `SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2;`, id, userID); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *pgStore) CreateNote(n *model.Note) (*model.Note, error) {
	var out model.Note
	err := s.db.Get(&out, `
	INSERT INTO notes (user_id, title, content, color, is_pinned, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 1, now(), now())
	RETURNING `+noteColumns+`;`, n.UserID, n.Title, n.Content, n.Color, n.IsPinned)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNote saves new content only if the stored version still equals
// expectedVersion. The replaced content is kept as a version row.
func (s *pgStore) UpdateNote(n *model.Note, expectedVersion int) (*model.Note, error) {
	var out model.Note
	err := s.withTx("UpdateNote", func(tx *sqlx.Tx) error {
		var cur model.Note
		if err := tx.Get(&cur, `
		SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2 FOR UPDATE;`, n.ID, n.UserID); err != nil {
			return err
		}
		if cur.Version != expectedVersion {
			out = cur
			return ErrVersionConflict
		}
		if cur.Title != n.Title || cur.Content != n.Content {
			if _, err := tx.Exec(`
			INSERT INTO note_versions (note_id, version, title, content, created_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (note_id, version) DO NOTHING;`, cur.ID, cur.Version, cur.Title, cur.Content); err != nil {
				return err
			}
		}
		return tx.Get(&out, `
		UPDATE notes
		SET title = $2, content = $3, color = $4, is_pinned = $5, version = version + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+noteColumns+`;`, n.ID, n.Title, n.Content, n.Color, n.IsPinned)
	})
	if errors.Is(err, ErrVersionConflict) {
		return &out, err
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) SetNotePinned(userID, id int, pinned bool) (*model.Note, error) {
	var out model.Note
	err := s.db.Get(&out, `
	UPDATE notes SET is_pinned = $3 WHERE id = $1 AND user_id = $2
	RETURNING `+noteColumns+`;`, id, userID, pinned)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) DeleteNote(userID, id int) error {
	return requireRow(s.db.Exec(`DELETE FROM notes WHERE id = $1 AND user_id = $2;`, id, userID))
}

func (s *pgStore) ListNoteVersions(noteID int) ([]model.NoteVersion, error) {
	out := []model.NoteVersion{}
	err := s.db.Select(&out, `
	SELECT id, note_id, version, title, content, created_at
	FROM note_versions WHERE note_id = $1 ORDER BY version DESC;`, noteID)
	return out, err
}

// UndoNote restores the most recent saved version and drops it from history.
func (s *pgStore) UndoNote(userID, id int) (*model.Note, error) {
	var out model.Note
	err := s.withTx("UndoNote", func(tx *sqlx.Tx) error {
		var cur model.Note
		if err := tx.Get(&cur, `
		SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2 FOR UPDATE;`, id, userID); err != nil {
			return err
		}
		var prev model.NoteVersion
		if err := tx.Get(&prev, `
		SELECT id, note_id, version, title, content, created_at
		FROM note_versions WHERE note_id = $1 ORDER BY version DESC LIMIT 1;`, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrNothingToUndo
			}
			return err
		}
		if _, err := tx.Exec(`DELETE FROM note_versions WHERE id = $1;`, prev.ID); err != nil {
			return err
		}
		return tx.Get(&out, `
		UPDATE notes SET title = $2, content = $3, version = version + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+noteColumns+`;`, id, prev.Title, prev.Content)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
