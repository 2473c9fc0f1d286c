package user

import (
	"fmt"
	"io"
)

// ProcessUsers writes one "Processing <name>" line per user, in input
// order.  It stops at the first write error.
func ProcessUsers(w io.Writer, users []User) error {
	for _, u := range users {
		if _, err := fmt.Fprintf(w, "Processing %s\n", u.Name); err != nil {
			return fmt.Errorf("notice for user %d: %w", u.ID, err)
		}
	}
	return nil
}
