package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/vmunix/reqarr/internal/request"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// stdinIsTerminal reports whether stdin is an interactive terminal.
func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func requestRows(items []*request.Request) [][]string {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.UserID,
			string(r.Kind),
			strconv.FormatInt(r.MediaID, 10),
			formatScope(r.Season, r.Episode),
			string(r.Status),
			humanize.Time(r.CreatedAt),
		})
	}
	return rows
}

func printRequests(items []*request.Request) {
	if len(items) == 0 {
		fmt.Println("No requests.")
		return
	}
	headers := []string{"ID", "User", "Kind", "Media", "Scope", "Status", "Created"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
	fmt.Println(renderTable(headers, requestRows(items), aligns))
	fmt.Printf("%d request(s)\n", len(items))
}

func printRequest(r *request.Request) {
	fmt.Printf("Request:  #%d\n", r.ID)
	fmt.Printf("User:     %s\n", r.UserID)
	fmt.Printf("Media:    %s %d", r.Kind, r.MediaID)
	if scope := formatScope(r.Season, r.Episode); scope != "-" {
		fmt.Printf(" (%s)", scope)
	}
	fmt.Println()
	fmt.Printf("Status:   %s\n", r.Status)
	fmt.Printf("Created:  %s (%s)\n", r.CreatedAt.Local().Format(time.DateTime), humanize.Time(r.CreatedAt))
	if !r.UpdatedAt.Equal(r.CreatedAt) {
		fmt.Printf("Updated:  %s (%s)\n", r.UpdatedAt.Local().Format(time.DateTime), humanize.Time(r.UpdatedAt))
	}
}

// formatScope renders a season/episode pair as "S02", "S02E05" or "-".
func formatScope(season, episode *int) string {
	var b strings.Builder
	if season != nil {
		fmt.Fprintf(&b, "S%02d", *season)
	}
	if episode != nil {
		fmt.Fprintf(&b, "E%02d", *episode)
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
