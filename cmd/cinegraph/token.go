// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinegraph/internal/auth"
)

var errNoSecret = errors.New("JWT_SECRET is not set; write routes are open and need no token")

// TokenResponse is the JSON output of the token command.
type TokenResponse struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newTokenCmd(opts *options) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for the write routes",
		Long: `Sign a token with JWT_SECRET (and JWT_ISSUER, if set). The server
accepts it on PUT, DELETE and import requests as "Authorization: Bearer <token>".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if !cfg.Security.AuthEnabled() {
				return errNoSecret
			}
			m, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, ttl)
			if err != nil {
				return err
			}
			token, err := m.GenerateToken(args[0])
			if err != nil {
				return err
			}
			claims, err := m.ValidateToken(token)
			if err != nil {
				return err
			}

			resp := TokenResponse{Token: token, Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}
			if opts.human {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("expires "+resp.ExpiresAt.Format(time.RFC3339)))
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
