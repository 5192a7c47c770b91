package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/inbox"
	"github.com/masmgr/cobwalk-go/internal/output"
)

// ActionsCmd returns the actions command.
func ActionsCmd() *cli.Command {
	flags := append(commonFlags(),
		repoFlag(),
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "COB type (patch, issue or a full type name)",
			Value:   "patch",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Only read changes after this commit",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Only read changes up to this commit",
		},
	)

	return &cli.Command{
		Name:      "actions",
		Aliases:   []string{"a"},
		Usage:     "List the operations recorded in a COB history",
		ArgsUsage: "<object-id>",
		Flags:     flags,
		Action:    actionsAction,
	}
}

func actionsAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one object id, got %d arguments", c.NArg())
	}
	id, err := cob.ParseObjectID(c.Args().First())
	if err != nil {
		return err
	}
	registry := inbox.DefaultRegistry()
	typeName, err := parseTypeFlag(c.String("type"), registry)
	if err != nil {
		return err
	}
	since, err := parseHashFlag("since", c.String("since"))
	if err != nil {
		return err
	}
	until, err := parseHashFlag("until", c.String("until"))
	if err != nil {
		return err
	}

	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		rid := c.String("repo")
		storage, err := ctx.Repos.Open(rid)
		if err != nil {
			return &inbox.LookupError{What: "repository", Key: rid, Err: err}
		}
		decoder, _ := registry.Lookup(typeName)

		log := ctx.Log.With(zap.String("repo", rid), zap.Stringer("cob", id))
		stream := cob.NewStream(storage, cob.NewRange(typeName, id), typeName, decoder,
			cob.WithAliases(ctx.Aliases),
			cob.WithLogger(log),
		)

		var it *cob.Actions[any]
		switch {
		case since != nil && until != nil:
			it, err = stream.Range(*since, *until)
		case since != nil:
			it, err = stream.Since(*since)
		case until != nil:
			it, err = stream.Until(*until)
		default:
			it, err = stream.All()
		}
		if err != nil {
			return err
		}

		report := &output.ActionsReport{
			Repo:        rid,
			COB:         cob.TypedID{TypeName: typeName, ID: id},
			GeneratedAt: time.Now(),
			Operations:  cob.CollectOperations(cob.Collect(it, log)),
		}
		return writeActionsReport(c, report)
	})
}

// parseTypeFlag accepts the short names "patch" and "issue" or the full name
// of any type registry can decode.
func parseTypeFlag(s string, registry *cob.Registry) (cob.TypeName, error) {
	var name cob.TypeName
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "patch", "patches":
		name = cob.TypePatch
	case "issue", "issues":
		name = cob.TypeIssue
	default:
		name = cob.TypeName(strings.TrimSpace(s))
	}
	if _, ok := registry.Lookup(name); ok {
		return name, nil
	}
	known := make([]string, 0)
	for _, t := range registry.TypeNames() {
		known = append(known, t.String())
	}
	return "", fmt.Errorf("%w: %q (known: %s)", inbox.ErrUnknownType, s, strings.Join(known, ", "))
}

func parseHashFlag(name, s string) (*plumbing.Hash, error) {
	if s == "" {
		return nil, nil
	}
	if !plumbing.IsHash(s) {
		return nil, fmt.Errorf("invalid --%s commit %q", name, s)
	}
	h := plumbing.NewHash(s)
	return &h, nil
}
