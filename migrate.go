// Package migrate is the schema-migration engine behind the edgedb-migrate
// command. It aggregates a directory of .esdl schema files into a single
// migration target, drives the server's describe/apply conversation to
// collect confirmed DDL statements, and commits the result as a
// content-addressed, atomically-written script under migrations/.
//
// Migration history on the server is a DAG (a record may have several
// parents after a merge); this package linearizes it into one deterministic
// sequence so it can be compared against the flat on-disk history.
package migrate

// GeneratedBy tags how a migration record came to exist on the server. The
// set of tags is open: the server may introduce new ones at any time, and
// unrecognized values are carried through rather than rejected.
type GeneratedBy string

const (
	GeneratedByDevMode      GeneratedBy = "DevMode"
	GeneratedByDDLStatement GeneratedBy = "DDLStatement"
)

// Migration is a migration record as reported by the server. ParentNames is
// empty for a root record; a record carries several parents when two
// branches of history were merged. Script may be empty when it was not
// fetched.
type Migration struct {
	Name        string      `json:"name"`
	Script      string      `json:"script"`
	ParentNames []string    `json:"parent_names"`
	GeneratedBy GeneratedBy `json:"generated_by"`
}

// RequiredUserInput is a value the server needs from the user before a
// proposed statement can be applied.
type RequiredUserInput struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// StatementProposal is one statement inside a server proposal.
type StatementProposal struct {
	Text              string              `json:"text"`
	RequiredUserInput []RequiredUserInput `json:"required_user_input"`
}

// Proposal is a set of statements the server suggests applying, with its
// confidence that they match user intent.
type Proposal struct {
	Statements []StatementProposal `json:"statements"`
	Confidence float64             `json:"confidence"`
	Prompt     string              `json:"prompt"`
}

// CurrentMigration is one round of the server's describe-current-migration
// conversation: the statements confirmed so far plus any outstanding
// proposals. The server produces it anew on every round.
type CurrentMigration struct {
	Confirmed []string   `json:"confirmed"`
	Proposed  []Proposal `json:"proposed"`
}
