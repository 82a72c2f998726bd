package category

import "testing"

// TestDisplayName tests conversion of URL identifiers to display names.
func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Slayer_monsters", "Slayer monsters"},
		{"Pok%C3%A9mon", "Pokémon"},
		{"Quests_(members)", "Quests (members)"},
		{"Already display", "Already display"},
		{"  spaced__out ", "spaced out"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := DisplayName(tt.in); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestSameCategory tests category name equivalence.
func TestSameCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identifier and display name", "Slayer_monsters", "Slayer monsters", true},
		{"first letter case", "slayer monsters", "Slayer_monsters", true},
		{"later letter case differs", "Slayer Monsters", "Slayer monsters", false},
		{"escaped and decoded", "Pok%C3%A9mon", "Pokémon", true},
		{"decomposed accent", "Pokémon", "Pokémon", true},
		{"different names", "Quests", "Minigames", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SameCategory(tt.a, tt.b); got != tt.want {
				t.Errorf("SameCategory(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
