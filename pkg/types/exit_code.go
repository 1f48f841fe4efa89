// SPDX-License-Identifier: MPL-2.0

package types

import "strconv"

// ExitFailure is returned for any failed step.
const ExitFailure ExitCode = 1

// ExitCode represents a process exit status code.
// Exit codes are in the range 0-255 on POSIX systems.
// The zero value (0) means success.
type ExitCode int

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
