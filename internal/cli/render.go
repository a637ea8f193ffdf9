package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/foxxcyber/turismo/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

var recordHeaders = []string{
	"ID", "From Comunidad", "From Provincia", "To Comunidad", "To Provincia",
	"Start Date", "End Date", "Total",
}

// recordRow flattens a record into table cells. Missing sides render empty.
func recordRow(r models.Turismo) []string {
	row := make([]string, 0, len(recordHeaders))
	row = append(row, r.ID)
	row = append(row, locationCells(r.From)...)
	row = append(row, locationCells(r.To)...)
	if r.TimeRange != nil {
		row = append(row, r.TimeRange.FechaInicio, r.TimeRange.FechaFin)
	} else {
		row = append(row, "", "")
	}
	return append(row, strconv.Itoa(r.Total))
}

func locationCells(l *models.Location) []string {
	if l == nil {
		return []string{"", ""}
	}
	return []string{l.Comunidad, l.Provincia}
}

func renderRecords(records []models.Turismo) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(recordHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func renderRecord(r models.Turismo) string {
	row := recordRow(r)
	t := table.New().Border(lipgloss.RoundedBorder()).BorderStyle(mutedStyle)
	for i, h := range recordHeaders {
		t.Row(titleStyle.Render(h), row[i])
	}
	return t.String()
}
