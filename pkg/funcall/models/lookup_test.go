package models

import "testing"

func TestLookupChatModel(t *testing.T) {
	tests := []struct {
		name   string
		id     ModelID
		wantOK bool
		wantID ModelID
	}{
		{
			name:   "Exact base ID",
			id:     GPT35Turbo,
			wantOK: true,
			wantID: GPT35Turbo,
		},
		{
			name:   "Snapshot ID resolves to pinned copy",
			id:     "gpt-3.5-turbo-0613",
			wantOK: true,
			wantID: "gpt-3.5-turbo-0613",
		},
		{
			name:   "16k snapshot",
			id:     "gpt-3.5-turbo-16k-0613",
			wantOK: true,
			wantID: "gpt-3.5-turbo-16k-0613",
		},
		{
			name:   "Unknown model",
			id:     "gpt-4o",
			wantOK: false,
		},
		{
			name:   "Empty ID",
			id:     "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := LookupChatModel(tt.id)
			if ok != tt.wantOK {
				t.Fatalf("LookupChatModel(%q) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if ok && m.ID != tt.wantID {
				t.Errorf("LookupChatModel(%q) ID = %q, want %q", tt.id, m.ID, tt.wantID)
			}
		})
	}
}

func TestInChatFamily(t *testing.T) {
	tests := []struct {
		id   ModelID
		want bool
	}{
		{GPT35Turbo, true},
		{"gpt-3.5-turbo-16k", true},
		{"gpt-3.5-turbo-0125", true},
		{"gpt-4", false},
		{"davinci", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := InChatFamily(tt.id); got != tt.want {
			t.Errorf("InChatFamily(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
