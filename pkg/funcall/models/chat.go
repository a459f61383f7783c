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

// Chat-completion model identifiers.
//
// NOTE: These are API model IDs (the string passed in the `model` parameter), not marketing names.
const (
	GPT35Turbo      ModelID = "gpt-3.5-turbo"
	GPT35Turbo16K   ModelID = "gpt-3.5-turbo-16k"
	GPT35TurboInstr ModelID = "gpt-3.5-turbo-instruct"
)

// DefaultChatModel is the canonical member of the supported chat-completion family.
// Family membership is decided against this identifier, not by exact equality,
// so pinned snapshots and sized variants remain accepted.
const DefaultChatModel = GPT35Turbo

// ChatFamily is the family prefix shared by every supported chat model.
const ChatFamily = string(GPT35Turbo)

// AllChatModels is a curated list of the chat-completion models this binding supports.
//
// Notes:
//   - This list intentionally focuses on developer-facing, documented model IDs.
//   - Snapshots are provided for frequently pinned models; when in doubt, use the base ID.
var AllChatModels = Models{
	{
		ID:          GPT35Turbo,
		Name:        "GPT-3.5 Turbo",
		Family:      ChatFamily,
		Tags:        []Tag{TagCloud, TagChat, TagTools},
		Description: "Chat-completion model with function calling support.",
		Snapshots:   []string{"gpt-3.5-turbo-0613", "gpt-3.5-turbo-1106", "gpt-3.5-turbo-0125"},
	},
	{
		ID:          GPT35Turbo16K,
		Name:        "GPT-3.5 Turbo 16K",
		Family:      ChatFamily,
		Tags:        []Tag{TagCloud, TagChat, TagTools},
		Description: "Extended-context variant of GPT-3.5 Turbo.",
		Snapshots:   []string{"gpt-3.5-turbo-16k-0613"},
	},
	{
		ID:          GPT35TurboInstr,
		Name:        "GPT-3.5 Turbo Instruct",
		Family:      ChatFamily,
		Tags:        []Tag{TagCloud},
		Description: "Instruction-following variant (no chat message framing).",
		Deprecated:  true,
	},
}
