package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/screentime/internal/models"
	"github.com/starford/screentime/internal/timeservice"
)

// parseMinutes accepts plain minutes ("90") or H:MM ("1:30").
func parseMinutes(raw string) (uint16, error) {
	raw = strings.TrimSpace(raw)
	if h, m, ok := strings.Cut(raw, ":"); ok {
		hours, herr := strconv.ParseUint(h, 10, 16)
		minutes, merr := strconv.ParseUint(m, 10, 8)
		if herr != nil || merr != nil || len(m) != 2 || minutes > 59 {
			return 0, fmt.Errorf("--time %q: expected minutes or H:MM", raw)
		}
		total := hours*60 + minutes
		if total > 65535 {
			return 0, fmt.Errorf("--time %q: at most 65535 minutes", raw)
		}
		return uint16(total), nil
	}
	n, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("--time %q: expected minutes (0-65535) or H:MM", raw)
	}
	return uint16(n), nil
}

func (g *globals) timeEntryCommand() *cli.Command {
	return &cli.Command{
		Name:  "time-entry",
		Usage: "Record and inspect base time entries",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List time entries, newest first",
				Flags: []cli.Flag{limitFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					limit, err := optionalUint8("limit", cmd.String("limit"))
					if err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						entries, err := svc.ListTimeEntries(ctx, limit)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, entries)
						}
						renderTimeEntries(cmd, entries)
						return nil
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show one time entry",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						e, err := svc.GetTimeEntry(ctx, id)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, e)
						}
						renderTimeEntries(cmd, []models.TimeEntry{*e})
						return nil
					})
				},
			},
			{
				Name:  "add",
				Usage: "Record a new base time",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "time", Usage: "Minutes, or H:MM"},
					&cli.StringFlag{Name: "created", Usage: "RFC3339 time to backdate to (default now)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.String("time") == "" {
						return fmt.Errorf("--time is required")
					}
					minutes, err := parseMinutes(cmd.String("time"))
					if err != nil {
						return err
					}
					in := models.NewTimeEntry{Time: minutes}
					if in.Created, err = optionalTime("created", cmd.String("created")); err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						e, err := svc.CreateTimeEntry(ctx, in)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, e)
						}
						renderTimeEntries(cmd, []models.TimeEntry{*e})
						return nil
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a time entry",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						n, err := svc.DeleteTimeEntry(ctx, id)
						if err != nil {
							return err
						}
						return printDeleted(cmd, g.jsonOut, n)
					})
				},
			},
		},
	}
}
