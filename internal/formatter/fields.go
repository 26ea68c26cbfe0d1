package formatter

import (
	"strconv"

	"formrelay/internal/matcher"
	"formrelay/internal/models"
	"formrelay/internal/normalizer"
	"formrelay/pkg/utils"
)

// DefaultValueWidth bounds the value column of the field report.
const DefaultValueWidth = 40

// winnerMark flags the label each logical field resolved to.
const winnerMark = " *"

// FieldTable lists every label of fields with its value and its score
// against each logical field's candidates. The winning label of each
// field is marked with an asterisk.
func FieldTable(fields *models.Fields, candidates normalizer.Candidates, valueWidth int) string {
	if valueWidth <= 0 {
		valueWidth = DefaultValueWidth
	}

	columns := []struct {
		all  []matcher.Result
		best matcher.Result
	}{
		{matcher.MatchAll(fields, candidates.Email), matcher.Match(fields, candidates.Email)},
		{matcher.MatchAll(fields, candidates.Phone), matcher.Match(fields, candidates.Phone)},
		{matcher.MatchAll(fields, candidates.Name), matcher.Match(fields, candidates.Name)},
	}

	header := []string{"Label", "Value", "Email", "Phone", "Name"}
	rows := make([][]string, 0, fields.Len())

	i := 0
	fields.Each(func(label, value string) {
		row := []string{label, utils.TruncateWidth(value, valueWidth)}

		for _, col := range columns {
			cell := strconv.Itoa(col.all[i].Score)
			if col.best.Found() && col.best.MatchedKey == label {
				cell += winnerMark
			}

			row = append(row, cell)
		}

		rows = append(rows, row)
		i++
	})

	return RenderTable(header, rows)
}
