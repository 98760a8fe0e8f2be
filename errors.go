package migrate

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotImplemented reports the interactive creation path, which does not
// exist yet.
var ErrNotImplemented = errors.New(
	"interactive mode is not implemented yet, try: edgedb-migrate create --non-interactive")

// HistoryMismatchError reports that the server is not at the tip of the
// on-disk migration history, so no new migration can be proposed.
type HistoryMismatchError struct {
	Local  string
	Server string
}

func (e *HistoryMismatchError) Error() string {
	return fmt.Sprintf(
		"database is at migration %q but the filesystem history ends at %q; "+
			"apply the pending migrations before creating a new one",
		e.Server, e.Local)
}

// UserInputError reports a high-confidence proposal that cannot be applied
// in non-interactive mode because one of its statements needs input and
// there is no user to ask.
type UserInputError struct {
	Statement string
	Prompts   []string
}

func (e *UserInputError) Error() string {
	msg := fmt.Sprintf("cannot apply `%s` without user input", e.Statement)
	if len(e.Prompts) > 0 {
		msg += ": " + strings.Join(e.Prompts, "; ")
	}
	return msg
}

// AmbiguousPrefixError reports that several migration names match a
// requested prefix.
type AmbiguousPrefixError struct {
	Prefix string
}

func (e *AmbiguousPrefixError) Error() string {
	return fmt.Sprintf("more than one migration matches prefix %q", e.Prefix)
}
