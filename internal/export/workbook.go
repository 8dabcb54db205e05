// Package export writes downloaded series to an Excel workbook with a line chart.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aryankumar/brogw/internal/registry"
	"github.com/aryankumar/brogw/internal/util"
)

// Sheet names
const (
	MetadataSheet  = "Metadata"
	ChartDataSheet = "Chart Data"
	ChartSheet     = "Chart"
	CreditsSheet   = "Credits & Disclaimer"
)

const (
	headerFill    = "D9E1F2"
	dateFormat    = "yyyy-mm-dd hh:mm:ss"
	axisDate      = "dd-mm-yyyy"
	maxColWidth   = 50
	chartWidth    = 800
	chartHeight   = 480
	dateColWidth  = 20
	minSeriesCol  = 18
	creditsWidth  = 80
	defaultSource = "BRO"
	defaultUnit   = "m NAP"
)

// MetadataHeaders are the columns of the metadata sheet
var MetadataHeaders = []string{
	"GMW ID", "Name", "BRO ID", "Tube Nr", "X (RD)", "Y (RD)",
	"Surface Level (m NAP)", "Filter Top (m NAP)", "Filter Bottom (m NAP)",
	"Tube Top (m NAP)", "Source", "Unit", "Measurements Count",
}

// Options controls workbook generation
type Options struct {
	// Now is the retrieval time written to the credits sheet
	Now time.Time

	Logger *slog.Logger
}

// Result describes a written workbook
type Result struct {
	Path          string
	Wells         int
	ChartedSeries int
	Rows          int
}

// DefaultFileName returns the suggested workbook name for a time
func DefaultFileName(now time.Time) string {
	return "BRO_GMW_" + now.Format("060102_150405") + ".xlsx"
}

// WriteWorkbook builds the workbook for series and saves it to path
func WriteWorkbook(path string, series []*registry.Series, opts Options) (Result, error) {
	f, res, err := Build(series, opts)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return Result{}, fmt.Errorf("saving workbook: %w", err)
	}
	res.Path = path

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("workbook written",
		"path", path,
		"wells", res.Wells,
		"charted", res.ChartedSeries,
		"rows", res.Rows)
	return res, nil
}

// Build creates the workbook in memory
func Build(series []*registry.Series, opts Options) (*excelize.File, Result, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	f := excelize.NewFile()
	w := &writer{f: f}

	if err := f.SetSheetName("Sheet1", MetadataSheet); err != nil {
		return nil, Result{}, err
	}

	var err error
	if w.headerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	}); err != nil {
		return nil, Result{}, fmt.Errorf("creating header style: %w", err)
	}
	dateFmt := dateFormat
	if w.dateStyle, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return nil, Result{}, fmt.Errorf("creating date style: %w", err)
	}

	res := Result{Wells: len(series)}

	w.writeMetadata(series)

	columns := chartColumns(series)
	if len(columns) > 0 {
		if res.Rows, err = w.writeChartData(columns); err != nil {
			return nil, Result{}, err
		}
		if err := w.addChart(len(columns), res.Rows); err != nil {
			return nil, Result{}, err
		}
		res.ChartedSeries = len(columns)
	}

	if err := w.writeCredits(opts.Now); err != nil {
		return nil, Result{}, err
	}

	if idx, err := f.GetSheetIndex(MetadataSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, res, w.err
}

type writer struct {
	f           *excelize.File
	headerStyle int
	dateStyle   int
	err         error
}

func (w *writer) set(sheet string, col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(sheet, cell, v)
}

func (w *writer) style(sheet string, col, row, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, cell, cell, style)
}

func (w *writer) width(sheet string, col int, width float64) {
	if w.err != nil {
		return
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetColWidth(sheet, name, name, width)
}

func (w *writer) writeMetadata(series []*registry.Series) {
	widths := make([]int, len(MetadataHeaders))
	for i, h := range MetadataHeaders {
		w.set(MetadataSheet, i+1, 1, h)
		w.style(MetadataSheet, i+1, 1, w.headerStyle)
		widths[i] = len(h)
	}

	for r, s := range series {
		for c, v := range metadataRow(s) {
			if v == nil {
				continue
			}
			w.set(MetadataSheet, c+1, r+2, v)
			widths[c] = max(widths[c], len([]rune(display(v))))
		}
	}

	for i, width := range widths {
		w.width(MetadataSheet, i+1, float64(min(width+2, maxColWidth)))
	}
}

func metadataRow(s *registry.Series) []any {
	md := s.Metadata

	gmwID := s.GMWID
	if gmwID == "" {
		if id, ok := registry.ExtractGMWID(s.Name + s.BroID); ok {
			gmwID = id
		} else {
			gmwID = s.BroID
		}
	}
	tube := md.TubeNr
	if tube == 0 {
		tube = s.TubeNr
	}
	source := md.Source
	if source == "" {
		source = defaultSource
	}
	unit := md.Unit
	if unit == "" {
		unit = defaultUnit
	}

	return []any{
		gmwID, s.Name, s.BroID, tube,
		num(md.X), num(md.Y), num(md.GroundLevel), num(md.ScreenTop), num(md.ScreenBottom), num(md.TubeTop),
		source, unit, s.Len(),
	}
}

func num(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func display(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

type column struct {
	name   string
	values map[time.Time]float64
}

// chartColumns returns one column per series with measurements, named after the
// well and unique within the sheet
func chartColumns(series []*registry.Series) []column {
	used := make(map[string]bool)
	var cols []column
	for _, s := range series {
		if s.Len() == 0 {
			continue
		}

		base := util.SheetSafeName(s.Label())
		name := base
		for i := 2; used[name]; i++ {
			suffix := fmt.Sprintf(" (%d)", i)
			name = clip(base, util.MaxSheetNameLength-len(suffix)) + suffix
		}
		used[name] = true

		values := make(map[time.Time]float64, s.Len())
		for _, m := range s.Measurements {
			values[m.Time.UTC()] = m.Value
		}
		cols = append(cols, column{name: name, values: values})
	}
	return cols
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (w *writer) writeChartData(cols []column) (int, error) {
	if _, err := w.f.NewSheet(ChartDataSheet); err != nil {
		return 0, fmt.Errorf("creating %s sheet: %w", ChartDataSheet, err)
	}

	seen := make(map[time.Time]struct{})
	for _, c := range cols {
		for t := range c.values {
			seen[t] = struct{}{}
		}
	}
	times := make([]time.Time, 0, len(seen))
	for t := range seen {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	w.set(ChartDataSheet, 1, 1, "datetime")
	w.style(ChartDataSheet, 1, 1, w.headerStyle)
	for i, c := range cols {
		w.set(ChartDataSheet, i+2, 1, c.name)
		w.style(ChartDataSheet, i+2, 1, w.headerStyle)
	}

	for r, t := range times {
		row := r + 2
		w.set(ChartDataSheet, 1, row, t)
		w.style(ChartDataSheet, 1, row, w.dateStyle)
		for i, c := range cols {
			if v, ok := c.values[t]; ok {
				w.set(ChartDataSheet, i+2, row, v)
			}
		}
	}

	w.width(ChartDataSheet, 1, dateColWidth)
	for i, c := range cols {
		w.width(ChartDataSheet, i+2, float64(max(len([]rune(c.name))+2, minSeriesCol)))
	}
	return len(times), w.err
}

func (w *writer) addChart(nCols, nRows int) error {
	ref := "'" + ChartDataSheet + "'!"
	series := make([]excelize.ChartSeries, nCols)
	for i := range series {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		series[i] = excelize.ChartSeries{
			Name:       fmt.Sprintf("%s$%s$1", ref, col),
			Categories: fmt.Sprintf("%s$A$2:$A$%d", ref, nRows+1),
			Values:     fmt.Sprintf("%s$%s$2:$%s$%d", ref, col, col, nRows+1),
		}
	}

	chart := &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Grondwaterstand"}},
		XAxis: excelize.ChartAxis{
			Title:  []excelize.RichTextRun{{Text: "Datum"}},
			NumFmt: excelize.ChartNumFmt{CustomNumFmt: axisDate},
		},
		YAxis: excelize.ChartAxis{
			Title:          []excelize.RichTextRun{{Text: "Stijghoogte (m NAP)"}},
			MajorGridLines: true,
		},
		Legend:       excelize.ChartLegend{Position: "bottom"},
		ShowBlanksAs: "span",
		Dimension:    excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
	}

	if err := w.f.AddChartSheet(ChartSheet, chart); err != nil {
		return fmt.Errorf("adding chart: %w", err)
	}
	return nil
}

// CreditsLines returns the text of the credits sheet
func CreditsLines(now time.Time) []string {
	return []string{
		"Data retrieved with brogw",
		"Date of retrieval: " + now.Format("2006-01-02 15:04"),
		"",
		"Data source: BRO (Basisregistratie Ondergrond)",
		"",
		"DISCLAIMER",
		`This software is provided "as is", without warranty of any kind, express or implied,`,
		"including but not limited to the warranties of merchantability, fitness for a particular",
		"purpose and noninfringement. In no event shall the authors or copyright holders be liable",
		"for any claim, damages or other liability, whether in an action of contract, tort or otherwise,",
		"arising from, out of or in connection with the software or the use or other dealings in the software.",
	}
}

func (w *writer) writeCredits(now time.Time) error {
	if _, err := w.f.NewSheet(CreditsSheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", CreditsSheet, err)
	}
	for i, line := range CreditsLines(now) {
		if line != "" {
			w.set(CreditsSheet, 1, i+1, line)
		}
	}
	w.width(CreditsSheet, 1, creditsWidth)
	return w.err
}
