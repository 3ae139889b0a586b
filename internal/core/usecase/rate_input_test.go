package usecase

import (
	"testing"

	"marketplace-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRateKeystroke(t *testing.T) {
	cases := []struct {
		name     string
		previous string
		typed    string
		want     domain.RateInput
	}{
		{"leading zeros stripped", "6", "006.5", domain.RateInput{Text: "6.5", Value: 6.5, Accepted: true}},
		{"zero before dot kept", "", "00.5", domain.RateInput{Text: "0.5", Value: 0.5, Accepted: true}},
		{"empty is zero", "6.5", "", domain.RateInput{Text: "", Value: 0, Accepted: true}},
		{"lone dot is zero", "", ".", domain.RateInput{Text: ".", Value: 0, Accepted: true}},
		{"trailing dot while typing", "7", "7.", domain.RateInput{Text: "7.", Value: 7, Accepted: true}},
		{"upper bound accepted", "1", "15", domain.RateInput{Text: "15", Value: 15, Accepted: true}},
		{"above max rejected", "6.5", "16", domain.RateInput{Text: "6.5", Value: 6.5, Accepted: false}},
		{"letters rejected", "6.5", "6.5a", domain.RateInput{Text: "6.5", Value: 6.5, Accepted: false}},
		{"sign rejected", "6.5", "-1", domain.RateInput{Text: "6.5", Value: 6.5, Accepted: false}},
		{"exponent rejected", "6.5", "1e1", domain.RateInput{Text: "6.5", Value: 6.5, Accepted: false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeRateKeystroke(tc.previous, tc.typed))
		})
	}
}

func TestCommitRate(t *testing.T) {
	def := domain.RateInput{Text: "6.75", Value: 6.75, Accepted: true}

	assert.Equal(t, def, CommitRate(""))
	assert.Equal(t, def, CommitRate("."))
	assert.Equal(t, def, CommitRate("2.99"))
	assert.Equal(t, def, CommitRate("abc"))
	assert.Equal(t, domain.RateInput{Text: "3", Value: 3, Accepted: true}, CommitRate("3"))
	assert.Equal(t, domain.RateInput{Text: "7.25", Value: 7.25, Accepted: true}, CommitRate("007.25"))
	assert.Equal(t, domain.RateInput{Text: "15", Value: 15, Accepted: true}, CommitRate("20"))
}

func TestRateInputUseCase_Delegates(t *testing.T) {
	uc := NewRateInputUseCase()
	assert.Equal(t, SanitizeRateKeystroke("1", "002"), uc.Keystroke("1", "002"))
	assert.Equal(t, CommitRate(""), uc.Commit(""))
}
