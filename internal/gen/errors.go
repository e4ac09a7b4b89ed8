// SPDX-License-Identifier: MIT

package gen

import (
	"errors"
	"fmt"
)

// ErrUndeclaredCommand reports a require reference to a command the
// registry never declares.
var ErrUndeclaredCommand = errors.New("undeclared command")

// UndeclaredCommandError names the feature or extension block whose
// require list references a command with no declaration.
type UndeclaredCommandError struct {
	Block   string
	Command string
}

func (e *UndeclaredCommandError) Error() string {
	return fmt.Sprintf("%s requires %s: %v", e.Block, e.Command, ErrUndeclaredCommand)
}

func (e *UndeclaredCommandError) Unwrap() error {
	return ErrUndeclaredCommand
}
