package cache

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type Format string

const (
	// JSONLFormat holds one JSON encoded Lookup per line.
	JSONLFormat Format = "jsonl"
	// TSVFormat holds one record per line: wikidata id, wikipedia page id,
	// names, P31 values, P279 values and categories. List columns are
	// separated by "|". Trailing columns may be omitted.
	TSVFormat Format = "tsv"
)

// maxLineSize bounds a knowledge base line, a record may carry many names.
const maxLineSize = 1024 * 1024

// Value is sent by Read for each record. The last value carries io.EOF or
// the error that stopped the reader.
type Value struct {
	Lookup *Lookup
	Err    error
}

// Read streams the records of r. Lines that cannot be parsed are logged
// and skipped, records without a name too.
func Read(format Format, r io.Reader) (<-chan Value, error) {
	var parse func(line string) (*Lookup, error)
	switch format {
	case JSONLFormat:
		parse = parseJSONL
	case TSVFormat:
		parse = parseTSV
	default:
		return nil, fmt.Errorf("unsupported knowledge base format %q", format)
	}

	values := make(chan Value)
	go read(r, parse, values)
	return values, nil
}

func read(r io.Reader, parse func(string) (*Lookup, error), values chan Value) {
	defer close(values)

	scn := bufio.NewScanner(r)
	scn.Buffer(make([]byte, 64*1024), maxLineSize)
	row := 0
	for scn.Scan() {
		row++
		line := strings.TrimSpace(scn.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lookup, err := parse(line)
		if err != nil {
			log.Warn().Int("row", row).Err(err).Msg("invalid knowledge base record")
			continue
		}
		if len(lookup.Keys()) == 0 {
			log.Warn().Int("row", row).Msg("knowledge base record without name")
			continue
		}
		values <- Value{Lookup: lookup}
	}

	err := scn.Err()
	if err == nil {
		err = io.EOF
	}
	values <- Value{Err: err}
}

// ReadWithCallback reads every record of r and calls onLookup for each.
func ReadWithCallback(format Format, r io.Reader, onLookup func(*Lookup) error) error {
	values, err := Read(format, r)
	if err != nil {
		return err
	}
	defer func() {
		for range values {
		}
	}()

	for v := range values {
		if v.Err == io.EOF {
			return nil
		} else if v.Err != nil {
			return v.Err
		}
		if err := onLookup(v.Lookup); err != nil {
			return err
		}
	}
	return nil
}

func parseJSONL(line string) (*Lookup, error) {
	var lookup Lookup
	if err := json.Unmarshal([]byte(line), &lookup); err != nil {
		return nil, err
	}
	return &lookup, nil
}

func splitList(column string) []string {
	var values []string
	for _, v := range strings.Split(column, "|") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func parseTSV(line string) (*Lookup, error) {
	columns := strings.Split(line, "\t")
	if len(columns) < 3 {
		return nil, fmt.Errorf("expected at least 3 columns, got %d", len(columns))
	}

	lookup := &Lookup{
		WikidataID: strings.TrimSpace(columns[0]),
		Names:      splitList(columns[2]),
	}
	if ref := strings.TrimSpace(columns[1]); ref != "" {
		pageID, err := strconv.Atoi(ref)
		if err != nil {
			return nil, fmt.Errorf("wikipedia page id: %w", err)
		}
		lookup.WikipediaExternalRef = pageID
	}
	for i, list := range []*[]string{&lookup.P31, &lookup.P279, &lookup.Categories} {
		if len(columns) > 3+i {
			*list = splitList(columns[3+i])
		}
	}
	return lookup, nil
}
