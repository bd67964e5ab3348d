package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/starford/screentime/internal/models"
)

const createdLayout = "2006-01-02 15:04:05"

func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

func printJSON(cmd *cli.Command, v any) error {
	enc := json.NewEncoder(out(cmd))
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(cmd *cli.Command, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out(cmd))
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func renderAdjustmentTypes(cmd *cli.Command, types []models.AdjustmentType) {
	table := newTable(cmd, "ID", "Description", "Adjustment")
	for _, t := range types {
		table.Append([]string{
			strconv.FormatUint(t.ID, 10),
			t.Description,
			fmt.Sprintf("%+d", t.Adjustment),
		})
	}
	table.Render()
}

func renderAdjustments(cmd *cli.Command, adjustments []models.Adjustment) {
	table := newTable(cmd, "ID", "Type", "Created", "Comment")
	for _, a := range adjustments {
		comment := ""
		if a.Comment != nil {
			comment = *a.Comment
		}
		table.Append([]string{
			strconv.FormatUint(a.ID, 10),
			strconv.FormatUint(a.AdjustmentTypeID, 10),
			a.Created.Local().Format(createdLayout),
			comment,
		})
	}
	table.Render()
}

func renderTimeEntries(cmd *cli.Command, entries []models.TimeEntry) {
	table := newTable(cmd, "ID", "Time", "Created")
	for _, e := range entries {
		table.Append([]string{
			strconv.FormatUint(e.ID, 10),
			e.FormattedTime(),
			e.Created.Local().Format(createdLayout),
		})
	}
	table.Render()
}

func printDeleted(cmd *cli.Command, jsonOut bool, n int64) error {
	if jsonOut {
		return printJSON(cmd, map[string]int64{"deleted": n})
	}
	_, err := fmt.Fprintf(out(cmd), "deleted %d\n", n)
	return err
}

// idArg parses the single positional id argument.
func idArg(cmd *cli.Command) (uint64, error) {
	if cmd.Args().Len() != 1 {
		return 0, fmt.Errorf("%s: expected exactly one ID argument", cmd.Name)
	}
	id, err := strconv.ParseUint(cmd.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid ID %q", cmd.Name, cmd.Args().First())
	}
	return id, nil
}

func optionalUint8(name, raw string) (*uint8, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("--%s must be between 0 and 255", name)
	}
	v := uint8(n)
	return &v, nil
}

func optionalUint64(name, raw string) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("--%s must be a positive integer", name)
	}
	return &n, nil
}

func optionalTime(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("--%s must be an RFC3339 timestamp", name)
	}
	return &ts, nil
}

func limitFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "limit",
		Usage: "Max rows to list (default 10)",
	}
}
