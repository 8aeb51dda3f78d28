package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/fijkbridge/internal/dispatch"
	"github.com/vmunix/fijkbridge/internal/eventcode"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the player event code table",
	Args:  cobra.NoArgs,
	RunE:  runCodesCmd,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <value|name>...",
	Short: "Resolve event codes by value or name",
	Long: `Resolve event codes by numeric value or symbolic name.

Names are matched case-insensitively; '-' and ' ' may stand in for '_'
and the IJKMPET_ prefix is optional.

Examples:
  fijkctl lookup 402
  fijkctl lookup seek-complete
  fijkctl lookup 402 700 9999`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookupCmd,
}

func init() {
	rootCmd.AddCommand(codesCmd)
	rootCmd.AddCommand(lookupCmd)
	codesCmd.Flags().String("category", "", "Only show codes in this category")
	codesCmd.Flags().Bool("forwarded", false, "Only show codes forwarded to the host")
}

type codeRow struct {
	Code      int32  `json:"code"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Forwarded bool   `json:"forwarded"`
}

func newCodeRow(c eventcode.EventCode) codeRow {
	return codeRow{
		Code:      int32(c),
		Name:      c.String(),
		Category:  string(c.Category()),
		Forwarded: dispatch.Accepts(c),
	}
}

// filterCodes returns the table rows matching category and forwarded.
func filterCodes(category string, forwardedOnly bool) []codeRow {
	var rows []codeRow
	for _, c := range eventcode.All() {
		row := newCodeRow(c)
		if category != "" && !strings.EqualFold(row.Category, category) {
			continue
		}
		if forwardedOnly && !row.Forwarded {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func runCodesCmd(cmd *cobra.Command, _ []string) error {
	category, _ := cmd.Flags().GetString("category")
	forwardedOnly, _ := cmd.Flags().GetBool("forwarded")

	rows := filterCodes(category, forwardedOnly)
	if jsonOutput {
		printJSON(rows)
		return nil
	}
	printCodes(os.Stdout, rows)
	return nil
}

func printCodes(w io.Writer, rows []codeRow) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "No codes")
		return
	}
	_, _ = fmt.Fprintf(w, "  %-6s %-34s %-14s %s\n", "CODE", "NAME", "CATEGORY", "HOST")
	_, _ = fmt.Fprintln(w, "  "+strings.Repeat("-", 62))
	for _, r := range rows {
		host := ""
		if r.Forwarded {
			host = "yes"
		}
		_, _ = fmt.Fprintf(w, "  %-6d %-34s %-14s %s\n", r.Code, r.Name, r.Category, host)
	}
}

// lookupResult is the outcome of resolving one argument.
type lookupResult struct {
	Query       string   `json:"query"`
	Found       bool     `json:"found"`
	Code        *codeRow `json:"code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func lookup(query string) lookupResult {
	res := lookupResult{Query: query}
	if n, err := strconv.Atoi(query); err == nil {
		if c, ok := eventcode.Lookup(n); ok {
			row := newCodeRow(c)
			res.Found = true
			res.Code = &row
		}
		return res
	}

	if c, ok := eventcode.Parse(query); ok {
		row := newCodeRow(c)
		res.Found = true
		res.Code = &row
		return res
	}
	res.Suggestions = eventcode.Suggest(query)
	return res
}

func runLookupCmd(_ *cobra.Command, args []string) error {
	results := make([]lookupResult, 0, len(args))
	missing := 0
	for _, a := range args {
		r := lookup(a)
		if !r.Found {
			missing++
		}
		results = append(results, r)
	}

	if jsonOutput {
		printJSON(results)
	} else {
		printLookup(os.Stdout, results)
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d not found", missing, len(args))
	}
	return nil
}

func printLookup(w io.Writer, results []lookupResult) {
	for _, r := range results {
		switch {
		case r.Found:
			_, _ = fmt.Fprintf(w, "%-24s %d %s (%s)\n", r.Query, r.Code.Code, r.Code.Name, r.Code.Category)
		case len(r.Suggestions) > 0:
			_, _ = fmt.Fprintf(w, "%-24s unknown, did you mean %s?\n", r.Query, strings.Join(r.Suggestions, ", "))
		default:
			_, _ = fmt.Fprintf(w, "%-24s unknown\n", r.Query)
		}
	}
}
