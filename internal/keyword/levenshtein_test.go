package keyword

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "hello", "hello", 0},
		{"identical unicode", "こんにちは", "こんにちは", 0},

		{"empty a", "", "hello", 5},
		{"empty b", "hello", "", 5},
		{"empty vs unicode", "", "こんにちは", 5},

		{"one substitution", "cat", "bat", 1},
		{"one insertion", "cat", "cart", 1},
		{"one deletion", "cart", "cat", 1},
		{"kitten to sitting", "kitten", "sitting", 3},

		// Typical UGC noise
		{"leetspeak", "leet", "l33t", 2},
		{"abbreviation", "see you", "c u", 6},
		{"dropped space", "see you later", "see youlater", 1},
		{"case difference", "Hello", "hello", 1},

		{"unicode substitution", "café", "cafe", 1},
		{"transposition ab-ba", "ab", "ba", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LevenshteinDistance(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
			if rev := LevenshteinDistance(tt.b, tt.a); rev != result {
				t.Errorf("LevenshteinDistance is not symmetric: (%q,%q)=%d, (%q,%q)=%d",
					tt.a, tt.b, result, tt.b, tt.a, rev)
			}
		})
	}
}

func BenchmarkLevenshteinDistance_Sentence(b *testing.B) {
	strA := "the quick brown fox jumps over the lazy dog"
	strB := "teh quikc brown fox jumsp ova the lazy dog"
	for i := 0; i < b.N; i++ {
		LevenshteinDistance(strA, strB)
	}
}
