// Package export renders completed product records into the three formats
// the storefront workflow needs: a plain-text review file, a Shopify bulk
// import workbook, and an HTML table for pasting into spreadsheets.
package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/powertoolstore/forge/internal/core"
)

const (
	// Vendor is stamped on every exported row.
	Vendor = "The Power Tool Store"

	// StatusActive marks exported listings as live on import.
	StatusActive = "active"

	// SheetName is the worksheet Shopify's bulk importer reads.
	SheetName = "Shopify Export"
)

var nonHandleChars = regexp.MustCompile(`[^a-z0-9]+`)

// Handle derives a Shopify URL handle from a title: lowercase, with every
// run of non-alphanumeric characters collapsed to a single hyphen.
func Handle(title string) string {
	h := nonHandleChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(h, "-")
}

// rowHandle derives the Shopify handle for a record: from the generated
// title when present, otherwise from the SKU.
func rowHandle(r core.ProductRecord) string {
	if r.GeneratedTitle != "" {
		return Handle(r.GeneratedTitle)
	}
	return Handle(r.SKU)
}

// Text renders the queue as a human-review file: a bracketed header block
// per product followed by the raw HTML body. Every record is included in
// queue order; ungenerated fields are simply empty.
func Text(records []core.ProductRecord) string {
	blocks := make([]string, len(records))
	for i, r := range records {
		blocks[i] = fmt.Sprintf("[SKU: %s]\n[TITLE: %s]\n[TAGS: %s]\n-----------------\n%s\n\n",
			r.SKU, r.GeneratedTitle, r.GeneratedTags, r.GeneratedCopy)
	}
	return strings.Join(blocks, "\n")
}

// columns is the Shopify bulk import header row, in import order.
var columns = []string{"Handle", "Title", "Body (HTML)", "Tags", "SKU", "Vendor", "Status"}

// Workbook builds the Shopify bulk import spreadsheet, one row per record
// in queue order. The caller owns the returned file and must Close it.
func Workbook(records []core.ProductRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(SheetName, "A1", &columns); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []any{rowHandle(r), r.GeneratedTitle, r.GeneratedCopy, r.GeneratedTags, r.SKU, Vendor, StatusActive}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// tableColumns is the clipboard table layout: the content a merchandiser
// pastes into a review sheet, not the full import row.
var tableColumns = []string{"SKU", "Title", "HTML", "Tags"}

// HTMLTable renders the queue as a four-column HTML table fragment, one row
// per record. Cell values are escaped, so the generated body arrives in a
// spreadsheet as literal markup, not rendered HTML.
func HTMLTable(records []core.ProductRecord) string {
	var b strings.Builder
	b.WriteString(`<table border="1"><thead><tr>`)
	for _, col := range tableColumns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(col))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, r := range records {
		cells := []string{r.SKU, r.GeneratedTitle, r.GeneratedCopy, r.GeneratedTags}
		b.WriteString("<tr>")
		for _, c := range cells {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(c))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
