package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/aryankumar/brogw/internal/executor"
	"github.com/aryankumar/brogw/internal/registry"
	"github.com/aryankumar/brogw/internal/util"
	"github.com/aryankumar/brogw/internal/wellstore"
)

const maxBarWidth = 40

// TableFormatter formats output as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case nil:
		return nil
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatWells outputs wells as a table
func (f *TableFormatter) FormatWells(w io.Writer, wells []registry.Well) error {
	if len(wells) == 0 {
		fmt.Fprintln(w, "No wells")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"KEY", "TUBE", "X", "Y", "TOP FILTER"}
	if f.options.Wide {
		headers = append(headers, "BOTTOM FILTER", "SURFACE", "TUBE TOP")
	}
	f.setHeaders(table, headers, colors)

	for _, well := range wells {
		row := []string{
			colors.WellKey("%s", well.Key()),
			strconv.Itoa(well.TubeNr),
			formatFloat(&well.X),
			formatFloat(&well.Y),
			formatFloat(well.ScreenTop),
		}
		if f.options.Wide {
			row = append(row, formatFloat(well.ScreenBottom), formatFloat(well.GroundLevel), formatFloat(well.TubeTop))
		}
		table.Append(row)
	}

	table.Render()

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "%d wells\n", len(wells))
	return nil
}

// FormatHistogram outputs histogram bins as a table with a text bar per bin
func (f *TableFormatter) FormatHistogram(w io.Writer, bins []wellstore.Bin) error {
	if len(bins) == 0 {
		fmt.Fprintln(w, "No filter depths")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeaders(table, []string{"FROM (m NAP)", "TO (m NAP)", "COUNT", ""}, colors)

	peak := 0
	for _, b := range bins {
		peak = max(peak, b.Count)
	}

	for _, b := range bins {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("#", b.Count*maxBarWidth/peak)
		}
		table.Append([]string{
			strconv.FormatFloat(b.Low, 'f', 2, 64),
			strconv.FormatFloat(b.High, 'f', 2, 64),
			strconv.Itoa(b.Count),
			colors.Bar("%s", bar),
		})
	}

	table.Render()
	return nil
}

// FormatOutcomes outputs download outcomes as a table followed by a summary
func (f *TableFormatter) FormatOutcomes(w io.Writer, outcomes []executor.Outcome) error {
	if len(outcomes) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"WELL", "STATUS", "DURATION"}
	if f.options.Wide {
		headers = append(headers, "ERROR")
	}
	f.setHeaders(table, headers, colors)

	sorted := append([]executor.Outcome(nil), outcomes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	for _, outcome := range sorted {
		table.Append(f.formatOutcomeRow(outcome, colors))
	}

	table.Render()

	f.printSummary(w, outcomes, colors)
	return nil
}

// formatOutcomeRow formats a single outcome as a table row
func (f *TableFormatter) formatOutcomeRow(outcome executor.Outcome, colors *ColorScheme) []string {
	status := "Success"
	if !outcome.Success {
		status = "Failed"
	}

	row := []string{
		colors.WellKey("%s", outcome.Key),
		colors.StatusColor(!outcome.Success)("%s", status),
		colors.Duration("%s", outcome.Duration.Round(1000).String()),
	}

	if f.options.Wide {
		row = append(row, util.Truncate(outcome.Error, 50))
	}
	return row
}

// formatMap formats a map as a two-column table (key-value pairs) in key order
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

func (f *TableFormatter) setHeaders(table *tablewriter.Table, headers []string, colors *ColorScheme) {
	if f.options.NoHeaders {
		return
	}
	if colors.Disabled {
		table.SetHeader(headers)
		return
	}
	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colors.Header("%s", h)
	}
	table.SetHeader(colored)
}

// createTable creates a new borderless, tab-padded table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the outcomes
func (f *TableFormatter) printSummary(w io.Writer, outcomes []executor.Outcome, colors *ColorScheme) {
	summary := executor.Summarize(outcomes)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := colors.Success("%d succeeded", summary.Succeeded)

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if summary.Failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	durationText := colors.Duration("avg=%s", summary.AvgDuration.Round(1000))

	fmt.Fprintf(w, "%s, %s, %s\n", successText, failedText, durationText)
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
