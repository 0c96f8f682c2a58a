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

package html

import (
	"container/list"
	"fmt"
)

type htmlStack struct {
	*list.List
	disallowed      bool
	disallowedDepth int
	inline          bool
	inlineTag       *htmlTag
	inlineDepth     int
}

type htmlTag struct {
	name      string
	children  int
	innerText []byte
	// textStart is the position of the first collected text, -1 before any.
	textStart int
	xpath     string
}

func (s *htmlStack) init() {
	if s.List == nil {
		s.List = list.New()
	}
}

func (s *htmlStack) push(tag *htmlTag) {
	s.init()

	if front := s.Front(); front != nil {
		front.Value.(*htmlTag).children++
	}

	if !s.inline && s.Front() != nil {
		if _, ok := inlineNodes[tag.name]; ok {
			s.inline = true
			s.inlineDepth = s.Len() + 1
			s.inlineTag = s.Front().Value.(*htmlTag)
		}
	}

	s.PushFront(tag)
	tag.xpath = s.xpath()

	if !s.disallowed {
		if _, ok := disallowedNodes[tag.name]; ok {
			s.disallowed = true
			s.disallowedDepth = s.Len()
		}
	}
}

// collectText appends text found at position to the paragraph being read.
func (s *htmlStack) collectText(text []byte, position int) {
	s.init()

	if s.Front() == nil {
		return
	}
	tag := s.Front().Value.(*htmlTag)
	if s.inline {
		tag = s.inlineTag
	}
	if tag.textStart < 0 {
		tag.textStart = position
	}
	tag.innerText = append(tag.innerText, text...)
}

// void handles an element without content. Only a line break adds text.
func (s *htmlStack) void(name string, position int) {
	if name == "br" && !s.disallowed {
		s.collectText([]byte{'\n'}, position)
	}
}

func (s *htmlStack) pop(callback func(tag *htmlTag) error) error {
	s.init()

	e := s.Front()
	if e == nil {
		return nil
	}
	if s.disallowed && s.Len() == s.disallowedDepth {
		s.disallowed = false
		s.disallowedDepth = 0
	}
	if s.inline && s.Len() == s.inlineDepth {
		s.inline = false
		s.inlineDepth = 0
		s.inlineTag = nil
	}
	tag := e.Value.(*htmlTag)

	s.Remove(e)
	return callback(tag)
}

// xpath addresses the front element by child position below the root element.
func (s *htmlStack) xpath() string {
	element := s.Back()
	if element == nil {
		return "/"
	}
	path := "/" + element.Value.(*htmlTag).name
	for ; element.Prev() != nil; element = element.Prev() {
		path += fmt.Sprintf("/*[%d]", element.Value.(*htmlTag).children)
	}
	return path
}
