package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const userColumns = `
	u.id, u.family_id, u.name, u.username, u.email, u.hashed_password, u.role,
	u.dob, u.avatar, u.school, u.grade, u.is_email_verified,
	u.verification_token, u.verification_token_expires, u.created_at, u.updated_at,
	f.is_active AS family_active`

const userFrom = `FROM users u LEFT JOIN families f ON f.id = u.family_id`

func (s *pgStore) getUser(where string, arg any) (*model.User, error) {
	var u model.User
	q := `SELECT ` + userColumns + ` ` + userFrom + ` WHERE ` + where + `;`
	if err := s.db.Get(&u, q, arg); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Str("where", where).Msg("[db] getUser: query failed")
		}
		return nil, err
	}
	return &u, nil
}

// inserts a new user and returns the stored row.
func (s *pgStore) CreateUser(u *model.User) (*model.User, error) {
	const q = `
	INSERT INTO users (family_id, name, username, email, hashed_password, role,
	                   dob, avatar, school, grade, is_email_verified,
	                   verification_token, verification_token_expires, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
	RETURNING id;`
	var id int
	err := s.db.QueryRow(q,
		u.FamilyID, u.Name, u.Username, u.Email, u.HashedPassword, u.Role,
		u.DOB, u.Avatar, u.School, u.Grade, u.IsEmailVerified,
		u.VerificationToken, u.VerificationTokenExpires,
	).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("[db] CreateUser: insert failed")
		return nil, err
	}
	return s.GetUserByID(id)
}

// fetches a user by ID. Returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	return s.getUser("u.id = $1", id)
}

func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	return s.getUser("lower(u.email) = lower($1)", email)
}

func (s *pgStore) GetUserByUsername(username string) (*model.User, error) {
	return s.getUser("lower(u.username) = lower($1)", username)
}

func (s *pgStore) GetUserByVerificationToken(token string) (*model.User, error) {
	return s.getUser("u.verification_token = $1", token)
}

// GetFamilyMember returns the user only when they belong to familyID.
func (s *pgStore) GetFamilyMember(familyID, userID int) (*model.User, error) {
	var u model.User
	q := `SELECT ` + userColumns + ` ` + userFrom + ` WHERE u.id = $1 AND u.family_id = $2;`
	if err := s.db.Get(&u, q, userID, familyID); err != nil {
		return nil, err
	}
	return &u, nil
}

// updates profile fields and bumps updated_at.
func (s *pgStore) UpdateUser(u *model.User) error {
	const q = `
	UPDATE users
	SET name = $2,
	    username = $3,
	    email = $4,
	    hashed_password = $5,
	    role = $6,
	    dob = $7,
	    avatar = $8,
	    school = $9,
	    grade = $10,
	    is_email_verified = $11,
	    updated_at = now()
	WHERE id = $1;`
	err := requireRow(s.db.Exec(q, u.ID, u.Name, u.Username, u.Email, u.HashedPassword,
		u.Role, u.DOB, u.Avatar, u.School, u.Grade, u.IsEmailVerified))
	if err != nil {
		log.Error().Err(err).Int("user_id", u.ID).Msg("[db] UpdateUser failed")
	}
	return err
}

func (s *pgStore) SetUserVerificationToken(id int, token string, expires time.Time) error {
	return requireRow(s.db.Exec(`
	UPDATE users
	SET verification_token = $2, verification_token_expires = $3, updated_at = now()
	WHERE id = $1;`, id, token, expires))
}

// MarkUserEmailVerified sets the flag and consumes any outstanding token.
func (s *pgStore) MarkUserEmailVerified(id int) error {
	return requireRow(s.db.Exec(`
	UPDATE users
	SET is_email_verified = TRUE, verification_token = NULL,
	    verification_token_expires = NULL, updated_at = now()
	WHERE id = $1;`, id))
}

func (s *pgStore) ListFamilyMembers(familyID int) ([]model.User, error) {
	out := []model.User{}
	q := `SELECT ` + userColumns + ` ` + userFrom + ` WHERE u.family_id = $1 ORDER BY u.role DESC, u.name;`
	if err := s.db.Select(&out, q, familyID); err != nil {
		log.Error().Err(err).Int("family_id", familyID).Msg("[db] ListFamilyMembers failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) DeleteUser(id int) error {
	return requireRow(s.db.Exec(`DELETE FROM users WHERE id = $1;`, id))
}
