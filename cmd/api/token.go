package main

import (
	"errors"
	"fmt"
	"time"

	"vidalink/internal/adapters/auth/jwtauth"
	"vidalink/internal/config"
	"vidalink/internal/ports/auth"

	"github.com/spf13/cobra"
)

// tokenCmd firma un JWT de desarrollo con JWT_SECRET (para probar rutas del paciente).
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development JWT for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			email, _ := cmd.Flags().GetString("email")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required to mint tokens")
			}

			tok, err := jwtauth.NewIssuer(jwtauth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}).
				Issue(auth.Claims{UserID: userID, Email: email}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().String("user", "", "User id placed in the user_id and sub claims")
	cmd.Flags().String("email", "", "Optional email claim")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
