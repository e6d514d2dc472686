// package formatter converts favourites to and from export formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/shared"
)

// Supported export formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// Formats lists every supported export format.
var Formats = []string{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// Extension returns the file extension for format, without the dot.
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return "md"
	default:
		return format
	}
}

// Export renders favourites in the given format.
func Export(favs []models.Favourite, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(favs)
	case FormatMarkdown:
		return ExportToMarkdown(favs), nil
	case FormatText:
		return ExportToText(favs), nil
	case FormatJSON:
		return ExportToJSON(favs)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// ExportToCSV converts favourites to CSV format with columns: Symbol, Name, AddedAt
func ExportToCSV(favs []models.Favourite) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Symbol", "Name", "AddedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, fav := range favs {
		record := []string{fav.Symbol, fav.Name, formatTime(fav.AddedAt)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts favourites to a Markdown table
func ExportToMarkdown(favs []models.Favourite) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Favourites\n\n")
	fmt.Fprintf(&buf, "**Symbols**: %d\n\n", len(favs))

	if len(favs) == 0 {
		buf.WriteString("_No favourites yet._\n")
		return buf.Bytes()
	}

	buf.WriteString("| # | Symbol | Name | Added |\n")
	buf.WriteString("|---|--------|------|-------|\n")
	for i, fav := range favs {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s |\n", i+1, fav.Symbol, escapePipes(fav.Name), formatDate(fav.AddedAt))
	}

	return buf.Bytes()
}

// ExportToText converts favourites to plain text format
func ExportToText(favs []models.Favourite) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Favourites: %d\n", len(favs))
	if len(favs) > 0 {
		buf.WriteString("\n")
	}

	for i, fav := range favs {
		fmt.Fprintf(&buf, "%d. %-6s %s\n", i+1, fav.Symbol, fav.Name)
	}

	return buf.Bytes()
}

// ExportToJSON converts favourites to an indented JSON array
func ExportToJSON(favs []models.Favourite) ([]byte, error) {
	if favs == nil {
		favs = []models.Favourite{}
	}
	data, err := json.MarshalIndent(favs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal favourites: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport renders favourites and writes them to path, creating parent directories.
//
// An empty path defaults to favourites.{ext} in the working directory.
func WriteExport(favs []models.Favourite, format, path string) (string, error) {
	data, err := Export(favs, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "favourites." + Extension(format)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// ParseCSVImport reads `symbol,name` rows. A first row whose first cell is "symbol"
// (any case) is treated as a header. Blank rows are skipped, extra columns ignored,
// and the name column is optional.
func ParseCSVImport(r io.Reader) ([]models.Favourite, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var favs []models.Favourite
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse CSV: %v", shared.ErrInvalidInput, err)
		}

		symbol := strings.TrimSpace(record[0])
		if row == 0 && strings.EqualFold(symbol, "symbol") {
			continue
		}
		if symbol == "" {
			if len(record) == 1 || strings.TrimSpace(strings.Join(record, "")) == "" {
				continue
			}
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has a name but no symbol", shared.ErrInvalidInput, line)
		}

		var name string
		if len(record) > 1 {
			name = strings.TrimSpace(record[1])
		}
		favs = append(favs, models.Favourite{Symbol: symbol, Name: name})
	}

	return favs, nil
}

// ReadCSVImport opens path and parses it with [ParseCSVImport].
func ReadCSVImport(path string) ([]models.Favourite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return ParseCSVImport(f)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
