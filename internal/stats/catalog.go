package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/zigen/internal/catalog"
	"github.com/verte-zerg/zigen/internal/model"
)

// RenderCatalog prints the radicals in their given order together with
// usage counts, per-mille share and frequency rank.
func RenderCatalog(w io.Writer, radicals []model.Radical) error {
	if len(radicals) == 0 {
		_, err := fmt.Fprintln(w, "Catalog is empty.")
		return err
	}
	sum := 0
	for _, r := range radicals {
		sum += r.Frequency
	}
	rank := make([]int, len(radicals))
	for pos, idx := range catalog.ByFrequency(radicals, nil) {
		rank[idx] = pos + 1
	}

	headers := []string{"#", "Radical", "Code", "Freq", "‰", "Rank"}
	rows := make([][]string, 0, len(radicals))
	for i, r := range radicals {
		permille := 0.0
		if sum > 0 {
			permille = float64(r.Frequency) / float64(sum) * 1000
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.Text,
			strings.ToUpper(r.BigCode) + strings.ToLower(r.SmallCode),
			fmt.Sprintf("%d", r.Frequency),
			fmt.Sprintf("%.4f", permille),
			fmt.Sprintf("%d", rank[i]),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{0: true, 3: true, 4: true, 5: true})
	lines = append(lines, fmt.Sprintf("%d radicals, %d uses in total", len(radicals), sum))
	return writeLines(w, lines...)
}
