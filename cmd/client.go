package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/client"
)

const clientTimeout = 10 * time.Second

var (
	// server address
	clientServerAddr string

	// create/get fields
	newName  string
	newEmail string
	userID   int64

	// TLS flags
	insecure      bool
	tlsCA         string
	tlsClientCert string
	tlsClientKey  string
)

// Build DialConfig from CLI flags
func getDialConfig() client.DialConfig {
	return client.DialConfig{
		Address:    clientServerAddr,
		Insecure:   insecure,
		RootCA:     tlsCA,
		ClientCert: tlsClientCert,
		ClientKey:  tlsClientKey,
	}
}

func getClient() (*client.GRPCClient, error) {
	return client.NewClient(getDialConfig())
}

// Root client command
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Interact with the gRPC server",
	Long:  "Commands for listing, creating, and retrieving users via the gRPC client.",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
		defer cancel()

		logger.Debug("listing users", zap.String("addr", clientServerAddr))
		users, err := c.ListUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(cmd.OutOrStdout(), "%v <%s>\n", u, u.EmailOrEmpty())
		}
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if newName == "" {
			return errors.New("--name must be specified")
		}
		var email *string
		if cmd.Flags().Changed("email") {
			email = &newEmail
		}

		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
		defer cancel()

		u, err := c.CreateUser(ctx, newName, email)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user: %v\n", u)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a user by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
		defer cancel()

		u, err := c.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "User not found")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%v <%s>\n", u, u.EmailOrEmpty())
		return nil
	},
}

func init() {

	clientCmd.PersistentFlags().StringVarP(&clientServerAddr,
		"addr", "a", "127.0.0.1:9090", "Server address")

	clientCmd.PersistentFlags().BoolVar(
		&insecure, "insecure", false, "Use insecure gRPC (no TLS)")

	clientCmd.PersistentFlags().StringVar(
		&tlsCA, "tls-ca", "", "Path to root CA certificate")

	clientCmd.PersistentFlags().StringVar(
		&tlsClientCert, "tls-cert", "", "Path to client certificate for mTLS")

	clientCmd.PersistentFlags().StringVar(
		&tlsClientKey, "tls-key", "", "Path to client private key for mTLS")

	createCmd.Flags().StringVarP(&newName, "name", "n", "", "Name of the user")

	createCmd.Flags().StringVarP(&newEmail, "email", "e", "", "Email of the user (optional)")

	getCmd.Flags().Int64VarP(&userID, "id", "i", 0, "ID of the user to retrieve")

	clientCmd.AddCommand(listCmd, createCmd, getCmd)
	rootCmd.AddCommand(clientCmd)
}
