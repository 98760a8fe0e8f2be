package migrate

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// safeConfidence is the threshold at which a server proposal is applied
// without asking the user.
const safeConfidence = 0.99999

// DefaultMaxRounds bounds the describe/apply conversation so a server that
// keeps re-proposing cannot spin us forever.
const DefaultMaxRounds = 1000

const lastMigrationQuery = `
WITH Last := (SELECT schema::Migration
              FILTER NOT EXISTS .<parents[IS schema::Migration])
SELECT name := Last.name
`

// CreateOptions configure a migration-creation session.
type CreateOptions struct {
	// SchemaDir holds the .esdl schema files; migration scripts are
	// committed under its migrations subdirectory.
	SchemaDir string

	// NonInteractive lets the server auto-confirm high-confidence
	// proposals instead of prompting. Interactive creation is not
	// implemented yet.
	NonInteractive bool

	// MaxRounds bounds the describe/apply loop. Zero means
	// DefaultMaxRounds.
	MaxRounds int

	// Log receives progress output. Nil means StdLogger.
	Log Logger

	// Render displays markdown prompt text from the server. Nil leaves
	// prompts unrendered.
	Render Renderer
}

// Create proposes a new migration against the live server and commits the
// statements the server confirms as the next numbered script file.
//
// The session validates that the server sits at the tip of the on-disk
// history, takes an exclusive lock on the schema directory, starts a
// speculative migration toward the aggregated schema, and drives the
// describe/apply loop. Whatever happens after the speculative migration is
// opened, it is aborted before Create returns; if both the loop and the
// abort fail, the loop's error wins and the abort's error is attached.
func Create(ctx context.Context, conn Connection, opts *CreateOptions) (err error) {
	log := opts.Log
	if log == nil {
		log = StdLogger{}
	}
	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	local, err := ReadLocal(opts.SchemaDir)
	if err != nil {
		return err
	}
	serverHistory, err := ReadAll(ctx, conn, false, false)
	if err != nil {
		return errors.Wrap(err, "read server migration history")
	}
	var localTip, serverTip string
	if len(local) > 0 {
		localTip = local[len(local)-1].ID
	}
	if last, ok := serverHistory.Last(); ok {
		serverTip = last.Name
	}
	if localTip != serverTip {
		return &HistoryMismatchError{Local: localTip, Server: serverTip}
	}

	// Hold the schema dir for the whole session so two creators cannot
	// race on the same sequence number
	lock := flock.New(filepath.Join(opts.SchemaDir, ".migration.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return errors.Wrapf(err, "lock %s", lock.Path())
	}
	if !locked {
		return errors.Errorf("another migration operation holds %s", lock.Path())
	}
	defer lock.Unlock()

	text, _, err := GenStartMigration(opts.SchemaDir)
	if err != nil {
		return err
	}
	if err := conn.Execute(ctx, text); err != nil {
		return errors.Wrap(err, "start migration")
	}
	// From here on a speculative migration is open server-side and must
	// be closed on every exit path
	defer func() {
		aerr := conn.Execute(ctx, "ABORT MIGRATION")
		switch {
		case err != nil && aerr != nil:
			err = errors.Wrapf(err, "also failed to abort migration: %v", aerr)
		case aerr != nil:
			err = errors.Wrap(aerr, "abort migration")
		}
	}()

	if !opts.NonInteractive {
		return ErrNotImplemented
	}
	return runNonInteractive(ctx, conn, opts, uint64(len(local))+1, maxRounds, log)
}

// runNonInteractive repeatedly asks the server to describe the current
// migration, applying every proposal it is highly confident about, until no
// proposals remain. The confirmed statements are then committed to disk
// onto the record currently at the server's history tip.
func runNonInteractive(
	ctx context.Context,
	conn Connection,
	opts *CreateOptions,
	index uint64,
	maxRounds int,
	log Logger,
) error {
	var descr CurrentMigration
	for round := 0; ; round++ {
		if round >= maxRounds {
			return errors.Errorf(
				"migration is still incomplete after %d rounds of auto-confirmation",
				maxRounds)
		}
		var raw string
		err := conn.QueryOne(ctx, "DESCRIBE CURRENT MIGRATION AS JSON", &raw)
		if err != nil {
			return errors.Wrap(err, "describe current migration")
		}
		descr = CurrentMigration{}
		if err := json.Unmarshal([]byte(raw), &descr); err != nil {
			return errors.Wrap(err, "decode current migration description")
		}
		if len(descr.Proposed) == 0 {
			break
		}
		for _, proposal := range descr.Proposed {
			if proposal.Confidence < safeConfidence {
				continue
			}
			for _, statement := range proposal.Statements {
				if len(statement.RequiredUserInput) > 0 {
					prompts := make([]string, 0, len(statement.RequiredUserInput))
					for _, input := range statement.RequiredUserInput {
						prompts = append(prompts, input.Prompt)
						log.Printf("Input required: %s\n",
							renderPrompt(opts.Render, input.Prompt))
					}
					return &UserInputError{
						Statement: statement.Text,
						Prompts:   prompts,
					}
				}
				if err := conn.Execute(ctx, statement.Text); err != nil {
					return errors.Wrapf(err, "apply `%s`", statement.Text)
				}
			}
		}
	}

	var parent string
	found, err := conn.QueryOneOpt(ctx, lastMigrationQuery, &parent)
	if err != nil {
		return errors.Wrap(err, "query history tip")
	}
	if !found || parent == "" {
		parent = "initial"
	}
	if err := WriteMigration(opts.SchemaDir, index, &descr, parent); err != nil {
		return err
	}
	log.Printf("Created %s\n", migrationFilePath(opts.SchemaDir, index))
	return nil
}
