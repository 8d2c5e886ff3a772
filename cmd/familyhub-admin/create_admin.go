package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

var adminFlags struct {
	email    string
	name     string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a platform admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		admin, err := createAdmin(store, adminFlags.email, adminFlags.name, adminFlags.password)
		if err != nil {
			return err
		}
		log.Info().Int("id", admin.ID).Str("email", admin.Email).Msg("admin created")
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminFlags.name, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "initial password (min 8 characters)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}

func createAdmin(store db.AdminStore, email, name, password string) (*model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if existing, err := store.GetAdminByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("admin %s already exists", email)
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	hashed, err := middleware.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return store.CreateAdmin(&model.Admin{Email: email, Name: name, HashedPassword: hashed})
}
