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

// LookupChatModel tries to find a curated chat model entry by:
//  1. exact ID match (base model IDs), then
//  2. snapshot ID match (pinned versions listed in Snapshots).
//
// When a snapshot match is found, the returned model is a copy of the base entry
// with ID set to the snapshot value.
func LookupChatModel(id ModelID) (Model, bool) {
	idStr := strings.TrimSpace(string(id))
	if idStr == "" {
		return Model{}, false
	}

	// 1) Exact match on base ID.
	for _, m := range AllChatModels {
		if strings.TrimSpace(string(m.ID)) == idStr {
			return m, true
		}
	}

	// 2) Snapshot match.
	for _, m := range AllChatModels {
		for _, snap := range m.Snapshots {
			if strings.TrimSpace(snap) == idStr {
				pinned := m
				pinned.ID = ModelID(idStr)
				return pinned, true
			}
		}
	}

	return Model{}, false
}

// InChatFamily reports whether id belongs to the supported chat-completion
// family. Membership is a containment test against the canonical family
// prefix rather than exact equality, so versioned variants such as
// "gpt-3.5-turbo-16k-0613" are accepted.
func InChatFamily(id ModelID) bool {
	idStr := strings.TrimSpace(string(id))
	if idStr == "" {
		return false
	}
	return strings.Contains(idStr, ChatFamily)
}
