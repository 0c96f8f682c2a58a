package main

import (
	"bufio"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/lexicon"
)

// config structure
type tokenizerConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Lexicon        lexicon.Config
	// text or html
	Format string
	// "-" reads stdin
	Input string
}

var config tokenizerConfig

func initConfig() {
	err := lib.InitializeConfig("./config/tokenizer.yml", map[string]interface{}{
		"log_level": "info",
		"format":    plainFormat,
		"input":     "-",
		"lexicon": map[string]interface{}{
			"vocabulary":      "./resources/lexicon/softwareVoc.txt",
			"idf":             "./resources/lexicon/idf.label.en.txt.gz",
			"categories":      "./resources/lexicon/wikipedia.categories.txt",
			"property_values": []string{"./resources/lexicon/wikidata.P31.txt", "./resources/lexicon/wikidata.P279.txt"},
			"stopwords":       "./resources/lexicon/stopwords_en.txt",
			"languages":       "./resources/lexicon/programming_languages.csv",
			"blacklist":       "./resources/lexicon/blacklist_software_names.txt",
			"addresses":       "",
			"case_sensitive":  false,
		},
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func main() {
	initConfig()

	fs := afero.NewOsFs()
	lex, err := lexicon.Load(fs, config.Lexicon)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	var in io.Reader = os.Stdin
	if config.Input != "-" {
		f, err := fs.Open(config.Input)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(os.Stdout)
	snippets, err := tokenizer{lexicon: lex}.run(config.Format, in, out)
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	log.Info().Int("snippets", snippets).Str("input", config.Input).Msg("document tokenized")
}
