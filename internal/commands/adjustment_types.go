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

func (g *globals) adjustmentTypeCommand() *cli.Command {
	return &cli.Command{
		Name:    "adjustment-type",
		Aliases: []string{"type"},
		Usage:   "Manage adjustment types",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List adjustment types",
				Flags: []cli.Flag{limitFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					limit, err := optionalUint8("limit", cmd.String("limit"))
					if err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						types, err := svc.ListAdjustmentTypes(ctx, limit)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, types)
						}
						renderAdjustmentTypes(cmd, types)
						return nil
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show one adjustment type",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						at, err := svc.GetAdjustmentType(ctx, id)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, at)
						}
						renderAdjustmentTypes(cmd, []models.AdjustmentType{*at})
						return nil
					})
				},
			},
			{
				Name:  "add",
				Usage: "Create an adjustment type",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "What the adjustment is for"},
					&cli.StringFlag{Name: "adjustment", Usage: "Signed minutes, -128 to 127 (use --adjustment=-5 for negatives)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					raw := strings.TrimSpace(cmd.String("adjustment"))
					if raw == "" {
						return fmt.Errorf("--adjustment is required")
					}
					delta, err := strconv.ParseInt(raw, 10, 8)
					if err != nil {
						return fmt.Errorf("--adjustment must be between -128 and 127")
					}
					in := models.NewAdjustmentType{Description: cmd.String("description"), Adjustment: int8(delta)}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						at, err := svc.CreateAdjustmentType(ctx, in)
						if err != nil {
							return err
						}
						if g.jsonOut {
							return printJSON(cmd, at)
						}
						renderAdjustmentTypes(cmd, []models.AdjustmentType{*at})
						return nil
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete an adjustment type no adjustment uses",
				ArgsUsage: "ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := idArg(cmd)
					if err != nil {
						return err
					}
					return g.withService(ctx, func(svc *timeservice.Service) error {
						n, err := svc.DeleteAdjustmentType(ctx, id)
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
