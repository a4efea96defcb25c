package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fanlink/fanlink/internal/api/request"
	"github.com/fanlink/fanlink/internal/api/response"
)

func newRegisterCmd() *cobra.Command {
	var (
		name     string
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     role,
			}

			var resp response.AuthResponse
			if err := client.Do(http.MethodPost, "/api/v1/auth/register", req, &resp); err != nil {
				return err
			}

			if err := cfg.SaveToken(resp.Token); err != nil {
				printErr("warning: failed to save token: %v", err)
			}

			return printResult(resp, func() {
				fmt.Printf("Registered as %s (%s)\n", resp.User.Name, resp.User.Role)
				fmt.Printf("User ID: %s\n", resp.User.ID)
				fmt.Println("Token saved.")
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&role, "role", "", "Role: fan or player")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.LoginRequest{
				Email:    email,
				Password: password,
			}

			var resp response.AuthResponse
			if err := client.Do(http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
				return err
			}

			if err := cfg.SaveToken(resp.Token); err != nil {
				printErr("warning: failed to save token: %v", err)
			}

			return printResult(resp, func() {
				fmt.Printf("Logged in as %s (%s)\n", resp.User.Name, resp.User.Role)
				fmt.Println("Token saved.")
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var user response.User
			if err := client.Do(http.MethodGet, "/api/v1/users/me", nil, &user); err != nil {
				return err
			}

			return printResult(user, func() {
				fmt.Printf("ID:    %s\n", user.ID)
				fmt.Printf("Name:  %s\n", user.Name)
				fmt.Printf("Email: %s\n", user.Email)
				fmt.Printf("Role:  %s\n", user.Role)
			})
		},
	}
}
