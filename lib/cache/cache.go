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

package cache

import (
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

// Lookup is the knowledge base record we store for a software name.
type Lookup struct {
	WikidataID           string   `json:"wikidataId"`
	WikipediaExternalRef int      `json:"wikipediaExternalRef,omitempty"`
	Lang                 string   `json:"lang,omitempty"`
	Score                float64  `json:"score,omitempty"`
	Names                []string `json:"names"`
	P31                  []string `json:"P31,omitempty"`
	P279                 []string `json:"P279,omitempty"`
	Categories           []string `json:"categories,omitempty"`
}

// Key is the store key of a software name: case and spacing are ignored.
func Key(name string) string {
	return strings.ToLower(text.CollapseSpaces(name))
}

// Keys returns the distinct keys of the record's names.
func (l *Lookup) Keys() []string {
	seen := make(map[string]struct{}, len(l.Names))
	var keys []string
	for _, name := range l.Names {
		k := Key(name)
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
