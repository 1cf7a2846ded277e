package main

import (
	"errors"
	"fmt"

	"github.com/sbilibin2017/lms-accounts/internal/hasher"
	"github.com/sbilibin2017/lms-accounts/internal/jwt"
	"github.com/sbilibin2017/lms-accounts/internal/mailer"
	"github.com/sbilibin2017/lms-accounts/internal/repositories"
	"github.com/sbilibin2017/lms-accounts/internal/services"
	"github.com/spf13/cobra"
)

func newCreateSuperuserCmd(a *app) *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context(), a.cfg.Postgres)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewAuthService(
				repositories.NewUserReadRepository(db, nil),
				repositories.NewUserWriteRepository(db, nil),
				repositories.NewAuthTokenRepository(db, nil),
				nil,
				hasher.New(0),
			)

			user, err := svc.CreateSuperuser(cmd.Context(), email, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created successfully.\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newChangePasswordCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "changepassword",
		Short: "Set a new password for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context(), a.cfg.Postgres)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewPasswordResetService(
				repositories.NewUserReadRepository(db, nil),
				repositories.NewUserWriteRepository(db, nil),
				hasher.New(0),
				jwt.New(jwt.WithSecretKey(a.cfg.Auth.SecretKey)),
				mailer.NewLogMailer(),
			)

			if err := svc.ChangePassword(cmd.Context(), email, password); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("user with email %q does not exist", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password changed successfully for user %s.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
