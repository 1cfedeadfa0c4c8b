package shell

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/sakif/itemgraph/internal/model"
	"github.com/sakif/itemgraph/internal/render"
)

// DefaultGraphFile is where `graph` writes the diagram when no file is given.
const DefaultGraphFile = "graph.html"

func (s *Shell) table() *tabwriter.Writer {
	return tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
}

// item add <name> [description]
func (s *Shell) handleItem(ctx context.Context, args []string) error {
	if len(args) < 2 || args[0] != "add" {
		return fmt.Errorf("usage: item add <name> [description]")
	}
	var desc string
	if len(args) > 2 {
		desc = args[2]
	}

	item, err := s.svc.Items.Add(ctx, args[1], desc)
	if err != nil {
		return err
	}
	s.printf("Added item %s (%s)\n", item.Name, item.ID)
	return nil
}

func (s *Shell) handleItems(ctx context.Context) error {
	items, err := s.svc.Items.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		s.printf("No items yet.\n")
		return nil
	}

	tw := s.table()
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tADDED")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Description, humanize.Time(it.CreatedAt))
	}
	return tw.Flush()
}

// link <sourceID> <targetID>
func (s *Shell) handleLink(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: link <sourceID> <targetID>")
	}
	rel, err := s.svc.Relations.Add(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	s.printf("Linked %s -> %s (%s)\n", rel.SourceID, rel.TargetID, rel.ID)
	return nil
}

func (s *Shell) handleRelations(ctx context.Context) error {
	rels, err := s.svc.Relations.List(ctx)
	if err != nil {
		return err
	}
	if len(rels) == 0 {
		s.printf("No relationships yet.\n")
		return nil
	}

	tw := s.table()
	fmt.Fprintln(tw, "ID\tSOURCE\tTARGET\tADDED")
	for _, r := range rels {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.SourceID, r.TargetID, humanize.Time(r.CreatedAt))
	}
	return tw.Flush()
}

// user add <username> <admin|user>
func (s *Shell) handleUser(ctx context.Context, args []string) error {
	if len(args) != 3 || args[0] != "add" {
		return fmt.Errorf("usage: user add <username> <%s|%s>", model.RoleAdmin, model.RoleUser)
	}
	user, err := s.svc.Users.Add(ctx, args[1], model.Role(args[2]))
	if err != nil {
		return err
	}
	s.printf("Added user %s as %s (%s)\n", user.Username, user.Role, user.ID)
	return nil
}

func (s *Shell) handleUsers(ctx context.Context) error {
	users, err := s.svc.Users.List(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		s.printf("No users yet.\n")
		return nil
	}

	tw := s.table()
	fmt.Fprintln(tw, "ID\tUSERNAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Username, u.Role)
	}
	return tw.Flush()
}

func (s *Shell) handleReport(ctx context.Context) error {
	rows, err := s.svc.Reports.Report(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.printf("No relationships yet.\n")
		return nil
	}

	tw := s.table()
	fmt.Fprintln(tw, "SOURCE\tTARGET")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Source, row.Target)
	}
	return tw.Flush()
}

// graph [file.html]
//
// The document is rendered into memory first, so a projection or template
// error leaves no file behind.
func (s *Shell) handleGraph(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: graph [file.html]")
	}
	path := DefaultGraphFile
	if len(args) == 1 {
		path = args[0]
	}

	g, err := s.svc.Reports.Graph(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.Diagram(&buf, g, render.Options{Height: "90vh"}); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	s.printf("Wrote %d nodes and %d edges to %s\n", len(g.Nodes), len(g.Edges), path)
	return nil
}

// helpOrder keeps `help` output stable; commandHelp is a map.
var helpOrder = []string{"item", "items", "link", "relations", "user", "users", "report", "graph", "help", "exit"}

var commandHelp = map[string]string{
	"item": `Syntax: item add <name> [description]
Adds an item. Use quotes for names with spaces.
Example: item add "Customer A" "Top-tier client"`,

	"items": `Syntax: items
Lists every item with its ID. Use the IDs with 'link'.`,

	"link": `Syntax: link <sourceID> <targetID>
Creates a directed relationship between two existing items.
Example: link cv37rs3pp9olc6atsptg cv37rs3pp9olc6atspu0`,

	"relations": `Syntax: relations
Lists every relationship by item ID.`,

	"user": `Syntax: user add <username> <admin|user>
Adds a user with the given role.
Example: user add alice admin`,

	"users": `Syntax: users
Lists every user.`,

	"report": `Syntax: report
Shows each relationship as source name -> target name.`,

	"graph": `Syntax: graph [file.html]
Writes the relationship diagram as a standalone HTML page (default graph.html).`,

	"help": `Syntax: help [command]
Shows the command list, or details for one command.`,

	"exit": `Syntax: exit | quit
Leaves the shell.`,
}

func (s *Shell) printHelp(args []string) {
	if len(args) == 0 {
		s.printf("Available commands:\n")
		for _, cmd := range helpOrder {
			s.printf("  %s\n", cmd)
		}
		s.printf("\nUse 'help <command>' for more information about a specific command.\n")
		return
	}

	name := args[0]
	if name == "quit" {
		name = "exit"
	}
	if help, ok := commandHelp[name]; ok {
		s.printf("%s\n", help)
		return
	}
	s.printf("Unknown command: %s\n", args[0])
}
