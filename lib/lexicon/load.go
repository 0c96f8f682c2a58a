package lexicon

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/matcher"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrResource wraps every failure to read a lexical resource.
var ErrResource = errors.New("lexical resource")

// Config holds the paths of the lexical resources.
type Config struct {
	Vocabulary     string   `mapstructure:"vocabulary"`
	IDF            string   `mapstructure:"idf"`
	Categories     string   `mapstructure:"categories"`
	PropertyValues []string `mapstructure:"property_values"`
	Stopwords      string   `mapstructure:"stopwords"`
	Languages      string   `mapstructure:"languages"`
	Blacklist      string   `mapstructure:"blacklist"`
	Addresses      string   `mapstructure:"addresses"`
	CaseSensitive  bool     `mapstructure:"case_sensitive"`
}

func resourceError(name, path string, err error) error {
	return fmt.Errorf("%w %s (%s): %v", ErrResource, name, path, err)
}

// Load reads every resource named by conf from fs. Any missing or unreadable
// resource fails the whole load: a partial lexicon is never returned.
// Addresses are optional and skipped when no path is configured.
func Load(fs afero.Fs, conf Config) (*Lexicon, error) {
	l := &Lexicon{}
	var err error

	if l.software, err = loadVocabulary(fs, conf.Vocabulary, conf.CaseSensitive); err != nil {
		return nil, err
	}
	if l.idf, err = loadIDF(fs, conf.IDF); err != nil {
		return nil, err
	}
	if l.categories, err = loadSet(fs, "categories", conf.Categories, strings.ToLower); err != nil {
		return nil, err
	}
	if len(conf.PropertyValues) == 0 {
		return nil, resourceError("property values", "", errors.New("no file configured"))
	}
	l.propertyValues = map[string]struct{}{}
	for _, path := range conf.PropertyValues {
		values, err := loadSet(fs, "property values", path, nil)
		if err != nil {
			return nil, err
		}
		for v := range values {
			l.propertyValues[v] = struct{}{}
		}
	}
	if l.stopwords, err = loadSet(fs, "stopwords", conf.Stopwords, nil); err != nil {
		return nil, err
	}
	if l.languages, err = loadLanguages(fs, conf.Languages); err != nil {
		return nil, err
	}
	if conf.Blacklist == "" {
		return nil, resourceError("blacklist", "", errors.New("no file configured"))
	}
	if l.blacklist, err = blocklist.Load(fs, conf.Blacklist); err != nil {
		return nil, resourceError("blacklist", conf.Blacklist, err)
	}
	if conf.Addresses != "" {
		if l.addresses, err = readLines(fs, "addresses", conf.Addresses); err != nil {
			return nil, err
		}
	}

	log.Info().Fields(l.Stats()).Msg("lexicon loaded")
	return l, nil
}

var (
	shared     *Lexicon
	sharedErr  error
	sharedOnce sync.Once
)

// Shared loads the process wide lexicon on first use. Concurrent callers
// wait for the single load and all receive its outcome, including its error.
func Shared(fs afero.Fs, conf Config) (*Lexicon, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = Load(fs, conf)
	})
	return shared, sharedErr
}

func open(fs afero.Fs, name, path string) (afero.File, error) {
	if path == "" {
		return nil, resourceError(name, path, errors.New("no file configured"))
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, resourceError(name, path, err)
	}
	return f, nil
}

func closeResource(c io.Closer, name, path string, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = resourceError(name, path, cerr)
	}
}

func loadVocabulary(fs afero.Fs, path string, caseSensitive bool) (m *matcher.Matcher, err error) {
	f, err := open(fs, "vocabulary", path)
	if err != nil {
		return nil, err
	}
	defer closeResource(f, "vocabulary", path, &err)

	m, err = matcher.Load(f, caseSensitive)
	if err != nil {
		return nil, resourceError("vocabulary", path, err)
	}
	log.Debug().Str("path", path).Int("phrases", m.Size()).Msg("software vocabulary loaded")
	return m, nil
}

// loadIDF reads a gzip compressed term<TAB>idf table. Malformed rows are logged and skipped.
func loadIDF(fs afero.Fs, path string) (idf map[string]float64, err error) {
	f, err := open(fs, "idf", path)
	if err != nil {
		return nil, err
	}
	defer closeResource(f, "idf", path, &err)

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, resourceError("idf", path, err)
	}
	defer closeResource(gz, "idf", path, &err)

	return parseIDF(gz, path)
}

func parseIDF(r io.Reader, path string) (map[string]float64, error) {
	idf := make(map[string]float64)
	scn := bufio.NewScanner(r)
	row := 0
	for scn.Scan() {
		row++
		line := scn.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries := strings.Split(line, "\t")
		if len(entries) != 2 {
			log.Warn().Int("row", row).Strs("entries", entries).Msg("invalid row in idf tsv")
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(entries[1]), 64)
		if err != nil {
			log.Warn().Int("row", row).Strs("entries", entries).Msg("invalid idf value")
			continue
		}
		idf[entries[0]] = value
	}
	if err := scn.Err(); err != nil {
		return nil, resourceError("idf", path, err)
	}
	return idf, nil
}

func readLines(fs afero.Fs, name, path string) (lines []string, err error) {
	f, err := open(fs, name, path)
	if err != nil {
		return nil, err
	}
	defer closeResource(f, name, path, &err)

	scn := bufio.NewScanner(f)
	for scn.Scan() {
		line := strings.TrimSpace(scn.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scn.Err(); err != nil {
		return nil, resourceError(name, path, err)
	}
	return lines, nil
}

func loadSet(fs afero.Fs, name, path string, transform func(string) string) (map[string]struct{}, error) {
	lines, err := readLines(fs, name, path)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if transform != nil {
			line = transform(line)
		}
		set[line] = struct{}{}
	}
	return set, nil
}

// loadLanguages reads name,wiki_url,knowledge_id rows. Every language is also
// indexed by the upper case form of its name.
func loadLanguages(fs afero.Fs, path string) (languages map[string]LanguageInfo, err error) {
	f, err := open(fs, "languages", path)
	if err != nil {
		return nil, err
	}
	defer closeResource(f, "languages", path, &err)

	upper := cases.Upper(language.Und)
	languages = make(map[string]LanguageInfo)

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, resourceError("languages", path, err)
		}
		row++
		if row == 1 && strings.EqualFold(record[0], "name") {
			continue
		}
		if len(record) < 3 || record[0] == "" {
			log.Warn().Int("row", row).Strs("entries", record).Msg("invalid row in programming language csv")
			continue
		}
		info := LanguageInfo{WikiURL: record[1], KnowledgeID: record[2]}
		languages[record[0]] = info
		if u := upper.String(record[0]); u != record[0] {
			if _, exists := languages[u]; !exists {
				languages[u] = info
			}
		}
	}
	return languages, nil
}
