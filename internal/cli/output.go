package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render writes v as JSON in --json mode and through text otherwise.
func (a *app) render(w io.Writer, v any, text func(io.Writer) error) error {
	if a.flags.jsonMode {
		return writeJSON(w, v)
	}
	return text(w)
}

func table(w io.Writer, header string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatScores(scores map[string]int) string {
	if len(scores) == 0 {
		return "-"
	}
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id + "=" + strconv.Itoa(scores[id])
	}
	return strings.Join(parts, " ")
}

func locationRows(views []types.LocationView) [][]string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			v.Name,
			v.Address,
			formatFloat(v.Latitude),
			formatFloat(v.Longitude),
			formatScores(v.Criteria),
		})
	}
	return rows
}

const locationHeader = "ID\tNAME\tADDRESS\tLAT\tLON\tSCORES"

func criterionRows(criteria []types.Criterion) [][]string {
	rows := make([][]string, 0, len(criteria))
	for _, c := range criteria {
		rows = append(rows, []string{c.ID, c.Name, formatFloat(c.Weight), string(c.Type)})
	}
	return rows
}

const criterionHeader = "ID\tNAME\tWEIGHT\tTYPE"
