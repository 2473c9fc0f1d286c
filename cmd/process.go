package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/user"
)

var usersFile string

// userRecord is one entry of a users file.  ID is a pointer so a
// missing id can be told apart from id 0.
type userRecord struct {
	ID    *int64  `yaml:"id"`
	Name  string  `yaml:"name"`
	Email *string `yaml:"email"`
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Print a notice for every user in a file",
	Long:  "Reads a YAML or JSON list of users, validates them, and prints one \"Processing <name>\" line per user in file order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if usersFile == "" {
			return errors.New("--file must be specified")
		}
		m, err := loadUsers(usersFile)
		if err != nil {
			return err
		}
		if err := user.ProcessUsers(cmd.OutOrStdout(), m.Users()); err != nil {
			return err
		}
		logger.Info("processed users",
			zap.String("file", usersFile),
			zap.Stringer("manager", m))
		return nil
	},
}

func loadUsers(path string) (*user.Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	var records []userRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", path, err)
	}

	m := user.NewManager()
	for i, r := range records {
		if r.ID == nil {
			return nil, fmt.Errorf("user at index %d: id is required", i)
		}
		u := user.New(*r.ID, r.Name)
		if r.Email != nil {
			u = user.NewWithEmail(*r.ID, r.Name, *r.Email)
		}
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("user at index %d: %w", i, err)
		}
		m.Add(u)
	}
	return m, nil
}

func init() {
	processCmd.Flags().StringVarP(&usersFile, "file", "f", "", "Path to a YAML or JSON users file")
	rootCmd.AddCommand(processCmd)
}
