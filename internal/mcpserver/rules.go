package mcpserver

// RulesURI identifies the rules resource.
const RulesURI = "screentime://rules"

// Rules explains to LLM consumers how the adjusted screen time is derived,
// so that they record adjustments instead of editing the time directly.
const Rules = `# Screen Time Rules

The tracked value is a number of **minutes**, shown as ` + "`H:MM`" + `.

## Records

- **Time entry**: an authoritative base value. The most recent one (by
  ` + "`created`" + `) is the starting point; older entries no longer matter.
- **Adjustment type**: a named rule worth a fixed signed number of minutes
  between -128 and 127 (for example "Chores: +15" or "Late to bed: -10").
- **Adjustment**: one application of an adjustment type at a point in time,
  with an optional comment.

Nothing is ever edited. Mistakes are corrected by adding records.

## How the current time is computed

1. Start from the latest time entry, or 0 if there is none.
2. Take every adjustment created at or after that entry, oldest first.
3. Add each adjustment's value in turn. Whenever the running total drops
   below zero it becomes zero before the next adjustment is applied.

Negative values are never carried as debt: from 0, applying -1 then +2
gives 2, not 1.

## Tools

- ` + "`get_adjusted_time`" + ` returns the current value.
- ` + "`list_adjustment_types`" + ` shows which rules exist and their ids.
- ` + "`add_adjustment`" + ` applies a rule by id. Use this for rewards and penalties.
- ` + "`add_time_entry`" + ` resets the base value. It discards the effect of all
  earlier adjustments, so only use it when explicitly asked to set the time.
`
