// Package catalog loads radical tables and arranges them for practice.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/zigen/internal/model"
)

// Load reads the frequency table and the code table and merges them.
// Only failures to open or read either file are returned; malformed lines
// are skipped.
func Load(frequencyPath, codePath string) ([]model.Radical, error) {
	freqs, err := loadFile(frequencyPath, ParseFrequencies)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequency table: %w", err)
	}
	radicals, err := loadFile(codePath, ParseCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to load code table: %w", err)
	}
	Merge(radicals, freqs)
	return radicals, nil
}

func loadFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	file, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only table.
			_ = cerr
		}
	}()
	return parse(file)
}

// ParseCodes reads "<code> <text> [...]" lines.
func ParseCodes(r io.Reader) ([]model.Radical, error) {
	var radicals []model.Radical
	err := scanFields(r, func(fields []string) {
		if rad, ok := NewRadical(fields[0], fields[1]); ok {
			radicals = append(radicals, rad)
		}
	})
	if err != nil {
		return nil, err
	}
	return radicals, nil
}

// ParseFrequencies reads "<text> <count> [...]" lines. A count that is not a
// non-negative integer is recorded as 0. Later lines win for repeated texts.
func ParseFrequencies(r io.Reader) (map[string]int, error) {
	freqs := map[string]int{}
	err := scanFields(r, func(fields []string) {
		count, err := strconv.Atoi(fields[1])
		if err != nil || count < 0 {
			count = 0
		}
		freqs[fields[0]] = count
	})
	if err != nil {
		return nil, err
	}
	return freqs, nil
}

// Merge overwrites each radical's frequency from freqs; radicals without an
// entry get 0.
func Merge(radicals []model.Radical, freqs map[string]int) {
	for i := range radicals {
		radicals[i].Frequency = freqs[radicals[i].Text]
	}
}

// NewRadical splits code into its big (first character) and small parts.
func NewRadical(code, text string) (model.Radical, bool) {
	if code == "" {
		return model.Radical{}, false
	}
	_, size := utf8.DecodeRuneInString(code)
	return model.Radical{
		Code:      code,
		Text:      text,
		BigCode:   code[:size],
		SmallCode: code[size:],
	}, true
}

func scanFields(r io.Reader, fn func(fields []string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		fn(fields)
	}
	return scanner.Err()
}
