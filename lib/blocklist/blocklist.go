/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package blocklist

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Blocklist holds software names that must never be reported.
type Blocklist struct {
	CaseSensitive   map[string]bool
	CaseInsensitive map[string]bool
}

// Allowed returns true if name is not blocklisted.
func (blocklist Blocklist) Allowed(name string) bool {
	if _, ok := blocklist.CaseSensitive[name]; ok {
		return false
	}

	if _, ok := blocklist.CaseInsensitive[strings.ToLower(name)]; ok {
		return false
	}

	return true
}

// Len returns the number of blocklisted entries.
func (blocklist Blocklist) Len() int {
	return len(blocklist.CaseSensitive) + len(blocklist.CaseInsensitive)
}

// Load reads a blocklist from fs. Files ending in .yml or .yaml hold
// case_sensitive and case_insensitive lists; any other file is one
// case sensitive name per line, with lines starting with # ignored.
func Load(fs afero.Fs, path string) (*Blocklist, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("could not find blocklist at %v", path))
		return nil, err
	}

	var res *Blocklist
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		res, err = parseYAML(b)
	default:
		res, err = parseLines(b)
	}
	if err != nil {
		log.Error().Msg(fmt.Sprintf("could not load blocklist from %v", path))
		return nil, err
	}

	log.Info().Int("entries", res.Len()).Msg(fmt.Sprintf("blocklist set from %v", path))

	return res, nil
}

func parseYAML(b []byte) (*Blocklist, error) {
	type yamlBlocklist struct {
		CaseSensitive   []string `yaml:"case_sensitive"`
		CaseInsensitive []string `yaml:"case_insensitive"`
	}

	yamlBl := yamlBlocklist{}
	if err := yaml.Unmarshal(b, &yamlBl); err != nil {
		return nil, err
	}

	res := &Blocklist{
		CaseSensitive:   map[string]bool{},
		CaseInsensitive: map[string]bool{},
	}
	for _, v := range yamlBl.CaseSensitive {
		res.CaseSensitive[v] = true
	}
	for _, v := range yamlBl.CaseInsensitive {
		res.CaseInsensitive[strings.ToLower(v)] = true
	}
	return res, nil
}

func parseLines(b []byte) (*Blocklist, error) {
	res := &Blocklist{
		CaseSensitive:   map[string]bool{},
		CaseInsensitive: map[string]bool{},
	}
	scn := bufio.NewScanner(bytes.NewReader(b))
	for scn.Scan() {
		line := strings.TrimSpace(scn.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		res.CaseSensitive[line] = true
	}
	return res, scn.Err()
}
