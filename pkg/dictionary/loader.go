// Package dictionary reads tab separated word lists and owns the word table
// that the pattern index resolves identifiers through.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Record is one raw line of a dictionary source file.
type Record struct {
	Word        string
	Explanation string
}

// ErrStop can be returned from a RecordFunc to end reading early without error.
var ErrStop = errors.New("stop reading")

// RecordFunc receives records in file order.
type RecordFunc func(rec Record) error

// ReadRecords reads "word<TAB>explanation" lines from r until EOF.
// A line without a tab is a word with an empty explanation; blank lines are
// skipped.
func ReadRecords(r io.Reader, fn RecordFunc) error {
	reader := bufio.NewReader(r)
	lineNo := 0

	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read line %d: %w", lineNo+1, err)
		}
		if len(line) > 0 {
			lineNo++
			line = strings.TrimRight(line, "\r\n")
			if line != "" {
				rec := splitRecord(line)
				if ferr := fn(rec); ferr != nil {
					if errors.Is(ferr, ErrStop) {
						return nil
					}
					return ferr
				}
			}
		}
		if err == io.EOF {
			log.Debugf("Read %d dictionary lines", lineNo)
			return nil
		}
	}
}

func splitRecord(line string) Record {
	word, explanation, found := strings.Cut(line, "\t")
	if !found {
		log.Debugf("Record without explanation: %q", line)
	}
	return Record{Word: word, Explanation: explanation}
}

// ReadFile opens path and streams its records to fn.
func ReadFile(path string, fn RecordFunc) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dictionary file %s: %w", path, err)
	}
	defer file.Close()

	return ReadRecords(file, fn)
}
