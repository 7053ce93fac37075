package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"thesislab/pkg/core/driver"
)

// MarginBenchmark is one comparable-company data point lifted from a saved
// HTML table: a margin, a multiple, whatever the column header names. Every
// benchmark carries a citation back to the saved page.
type MarginBenchmark struct {
	Company  string          `json:"company"`
	Metric   string          `json:"metric"`
	Value    float64         `json:"value"`
	Citation driver.Citation `json:"citation"`
}

// ParseBenchmarks extracts benchmarks from the first table of a locally
// saved HTML page. The first column is the company name; every other
// column becomes a metric named by its header. Percent values are
// converted to fractions; "x" multiples and "$" amounts are read as-is.
func ParseBenchmarks(r io.Reader, source string) ([]MarginBenchmark, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing benchmark HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in benchmark page")
	}

	var headers []string
	table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})
	if len(headers) < 2 {
		return nil, fmt.Errorf("benchmark table needs a company column and at least one metric column")
	}

	citation := driver.Citation{Source: source}
	var benchmarks []MarginBenchmark
	var rowErr error

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || rowErr != nil {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		company := strings.TrimSpace(cells.First().Text())
		if company == "" {
			return
		}
		cells.Each(func(j int, cell *goquery.Selection) {
			if j == 0 || j >= len(headers) || rowErr != nil {
				return
			}
			raw := strings.TrimSpace(cell.Text())
			if raw == "" || raw == "-" || raw == "n/a" {
				return
			}
			value, err := parseCell(raw)
			if err != nil {
				rowErr = fmt.Errorf("row %d, column %q: %w", i, headers[j], err)
				return
			}
			benchmarks = append(benchmarks, MarginBenchmark{
				Company:  company,
				Metric:   headers[j],
				Value:    value,
				Citation: citation,
			})
		})
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if len(benchmarks) == 0 {
		return nil, fmt.Errorf("benchmark table contained no data rows")
	}
	return benchmarks, nil
}

// parseCell reads "12.5%", "8.3x", "$1,234.5" or a plain number.
func parseCell(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, ",", "")
	s = strings.TrimPrefix(s, "$")

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSuffix(s, "x")

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse value %q", raw)
	}
	if percent {
		v /= 100
	}
	return v, nil
}
