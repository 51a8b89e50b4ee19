package axiom

import "testing"

func TestDetectEntities(t *testing.T) {
	tests := []struct {
		name        string
		claim       string
		wantNouns   int
		wantDates   int
		wantNumbers int
	}{
		{"organization", "Xiaokaikai Technology Ltd. was founded in Shenzhen", 1, 0, 0},
		{"office holder", "The company CEO announced layoffs", 1, 0, 0},
		{"year", "The bridge opened in 1998", 0, 1, 0},
		{"historical year", "The Eiffel Tower opened in 1889", 0, 1, 0},
		{"early modern year", "The treaty was signed in 1648", 0, 1, 0},
		{"not a year", "The vault holds 1450 bars and 2150 coins", 0, 0, 2},
		{"percentage", "Accuracy reached 99.7% on the test set", 0, 0, 1},
		{"magnitude", "The fund raised 3.5 billion dollars", 0, 0, 1},
		{"grouped number", "Over 1,500,000 documents were processed", 0, 0, 1},
		{"plain large number", "They shipped 12000 units", 0, 0, 1},
		{"nothing specific", "Small models can outperform large ones", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := DetectEntities(tt.claim)
			if len(ents.ProperNouns) != tt.wantNouns {
				t.Errorf("Expected %d proper nouns, got %v", tt.wantNouns, ents.ProperNouns)
			}
			if len(ents.Dates) != tt.wantDates {
				t.Errorf("Expected %d dates, got %v", tt.wantDates, ents.Dates)
			}
			if len(ents.Numbers) != tt.wantNumbers {
				t.Errorf("Expected %d numbers, got %v", tt.wantNumbers, ents.Numbers)
			}
		})
	}
}

func TestDetectEntities_YearNotCountedAsNumber(t *testing.T) {
	ents := DetectEntities("Revenue grew in 2024")
	if len(ents.Dates) != 1 || len(ents.Numbers) != 0 {
		t.Errorf("Expected year only as date, got dates=%v numbers=%v", ents.Dates, ents.Numbers)
	}
}

func TestDetectEntities_CapturesName(t *testing.T) {
	ents := DetectEntities("Reports say Acme Widget Corp. doubled output")
	if len(ents.ProperNouns) != 1 || ents.ProperNouns[0] != "Acme Widget Corp." {
		t.Errorf("Expected 'Acme Widget Corp.', got %v", ents.ProperNouns)
	}
}
