package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	migrate "github.com/MrFoxPro/edgedb-cli"
	"github.com/MrFoxPro/edgedb-cli/edgehttp"
)

var (
	serverURL string
	user      string
	pass      string
	schemaDir string

	nonInteractive bool
	maxRounds      int

	includeDevMode bool
)

var rootCmd = &cobra.Command{
	Use:   "edgedb-migrate",
	Short: "Manage database schema migrations",
	Long: "edgedb-migrate turns a directory of schema files into a linear,\n" +
		"content-addressed sequence of migration scripts and keeps that\n" +
		"sequence in step with what the database server has applied.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := migrate.Pledge(); err != nil {
			return err
		}
		return migrate.Unveil([]string{schemaDir})
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Propose and record a new schema migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := dial()
		if err != nil {
			return err
		}
		return migrate.Create(cmd.Context(), conn, &migrate.CreateOptions{
			SchemaDir:      schemaDir,
			NonInteractive: nonInteractive,
			MaxRounds:      maxRounds,
			Render:         newRenderer(),
		})
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the server's migration history in linear order",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := dial()
		if err != nil {
			return err
		}
		history, err := migrate.ReadAll(cmd.Context(), conn, false, includeDevMode)
		if err != nil {
			return err
		}
		for _, name := range history.Names() {
			fmt.Println(name)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <prefix>",
	Short: "Show the migration whose name matches a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := dial()
		if err != nil {
			return err
		}
		m, err := migrate.FindByPrefix(cmd.Context(), conn, args[0])
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("no migration matches prefix %q", args[0])
		}
		fmt.Printf("name: %s\n", m.Name)
		for _, parent := range m.ParentNames {
			fmt.Printf("parent: %s\n", parent)
		}
		if m.GeneratedBy != "" {
			fmt.Printf("generated by: %s\n", m.GeneratedBy)
		}
		if m.Script != "" {
			fmt.Printf("\n%s\n", m.Script)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		"http://127.0.0.1:8080/db/edgedb", "database HTTP endpoint")
	rootCmd.PersistentFlags().StringVarP(&user, "user", "u", "edgedb",
		"database user")
	rootCmd.PersistentFlags().StringVar(&pass, "pass", "",
		"password (optional flag, if not provided it will be requested)")
	rootCmd.PersistentFlags().StringVar(&schemaDir, "schema-dir", "dbschema",
		"directory with .esdl schema files")

	createCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false,
		"apply high-confidence proposals without prompting")
	createCmd.Flags().IntVar(&maxRounds, "max-rounds", migrate.DefaultMaxRounds,
		"bound on describe/apply rounds in non-interactive mode")
	logCmd.Flags().BoolVar(&includeDevMode, "include-dev-mode", false,
		"include migrations generated by dev mode")

	rootCmd.AddCommand(createCmd, logCmd, showCmd)
}

// dial requests the database password when it was not given as a flag, then
// opens the HTTP connection.
func dial() (*edgehttp.Client, error) {
	password := pass
	if password == "" {
		fmt.Printf("%s password: ", user)
		byt, err := terminal.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return nil, err
		}
		fmt.Printf("\n")
		password = string(byt)
	}
	return edgehttp.New(serverURL, user, password), nil
}

// markdownRenderer displays server prompt text through glamour.
type markdownRenderer struct {
	r *glamour.TermRenderer
}

func newRenderer() migrate.Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)
	if err != nil {
		return nil
	}
	return &markdownRenderer{r: r}
}

func (m *markdownRenderer) Render(text string) (string, error) {
	return m.r.Render(migrate.PrepareMarkdown(text))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
