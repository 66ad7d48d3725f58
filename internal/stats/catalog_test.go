package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/zigen/internal/model"
)

func TestRenderCatalog(t *testing.T) {
	var buf bytes.Buffer
	radicals := []model.Radical{
		{Text: "丁", Code: "ab", BigCode: "a", SmallCode: "b", Frequency: 1},
		{Text: "乙", Code: "c", BigCode: "c", Frequency: 3},
	}
	if err := RenderCatalog(&buf, radicals); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "Ab") || !strings.Contains(lines[1], "250.0000") || !strings.HasSuffix(lines[1], "2") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "750.0000") || !strings.HasSuffix(lines[2], "1") {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
	if lines[3] != "2 radicals, 4 uses in total" {
		t.Fatalf("unexpected footer: %q", lines[3])
	}
}

func TestRenderCatalogEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCatalog(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Catalog is empty." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
