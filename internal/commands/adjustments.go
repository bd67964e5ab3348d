package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/screentime/internal/models"
	"github.com/starford/screentime/internal/timeservice"
)

func (g *globals) adjustmentCommand() *cli.Command {
	return &cli.Command{
		Name:  "adjustment",
		Usage: "Record and inspect adjustments",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List adjustments, newest first",
				Flags: []cli.Flag{
					limitFlag(),
					&cli.StringFlag{Name: "type", Usage: "Only this adjustment type id"},
					&cli.StringFlag{Name: "since", Usage: "Only adjustments created at or after this RFC3339 time"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					var (
						f   models.AdjustmentFilter
						err error
					)
					if f.Limit, err = optionalUint8("limit", cmd.String("limit")); err != nil {
						return err
					}
					if f.TypeID, err = optionalUint64("type", cmd.String("type")); err != nil {
						return err
					}
					if f.Since, err = optionalTime("since", cmd.String("since")); err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						adjustments, err := svc.ListAdjustments(ctx, f)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, adjustments)
						}
						renderAdjustments(cmd, adjustments)
						return nil
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show one adjustment",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						a, err := svc.GetAdjustment(ctx, id)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, a)
						}
						renderAdjustments(cmd, []models.Adjustment{*a})
						return nil
					})
				},
			},
			{
				Name:  "add",
				Usage: "Apply an adjustment type",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "Adjustment type id"},
					&cli.StringFlag{Name: "comment", Usage: "Optional note"},
					&cli.StringFlag{Name: "created", Usage: "RFC3339 time to backdate to (default now)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					typeID, err := optionalUint64("type", strings.TrimSpace(cmd.String("type")))
					if err != nil {
						return err
					}
					if typeID == nil {
						return fmt.Errorf("--type is required")
					}
					in := models.NewAdjustment{AdjustmentTypeID: *typeID}
					if c := cmd.String("comment"); c != "" {
						in.Comment = &c
					}
					if in.Created, err = optionalTime("created", cmd.String("created")); err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						a, err := svc.CreateAdjustment(ctx, in)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, a)
						}
						renderAdjustments(cmd, []models.Adjustment{*a})
						return nil
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete an adjustment",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						n, err := svc.DeleteAdjustment(ctx, id)
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
