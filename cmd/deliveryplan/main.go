package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/tracking"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/interfaces/cli/commands"
)

// Exit codes: 0 success, 2 input validation failure, 3 invariant violation.
const (
	exitValidation = 2
	exitInvariant  = 3
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		var validationErr *entities.ValidationError
		var invariantErr *tracking.InvariantError
		switch {
		case errors.As(err, &validationErr):
			os.Exit(exitValidation)
		case errors.As(err, &invariantErr):
			os.Exit(exitInvariant)
		default:
			os.Exit(1)
		}
	}
}
