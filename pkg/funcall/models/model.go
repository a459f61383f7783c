// Copyright 2026 Benoit Pereira da Silva
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

import "strings"

// ModelID is a unique identifier for a chat model.
type ModelID string

// Tag represents a category tag for a model.
type Tag string

// Predefined tags.
const (
	TagCloud Tag = "cloud"
	TagTools Tag = "tools"
	TagChat  Tag = "chat"
)

type Models []Model

type Model struct {

	// ID is the stable alias used in the API, e.g. "gpt-3.5-turbo".
	ID ModelID

	// Name is a human-friendly display name.
	Name string

	// Family groups versioned variants sharing capabilities and request shape.
	Family string

	// Tags is a list of cross-cutting capabilities.
	Tags []Tag

	// Description is a short, UI-friendly summary of the model.
	Description string

	// Snapshots optionally list known pinned model versions (if any).
	Snapshots []string

	// Deprecated indicates the model is listed as deprecated.
	Deprecated bool
}

func (m Model) SupportsTools() bool { return hasTag(m.Tags, TagTools) }

func hasTag(tags []Tag, want Tag) bool {
	w := strings.TrimSpace(string(want))
	if w == "" {
		return false
	}
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(string(t)), w) {
			return true
		}
	}
	return false
}
