package usecases_port

import (
	"context"
	"marketplace-service/internal/core/domain"
)

type CalculateMortgageUseCase interface {
	Execute(ctx context.Context, input domain.MortgageInput) domain.MortgageCalculation
	// Schedule - то же, что Execute, плюс помесячный график
	Schedule(ctx context.Context, input domain.MortgageInput) domain.MortgageCalculation
	Export(ctx context.Context, input domain.MortgageInput) (*domain.ExportedFile, error)
}

// RateInputUseCase - правила текстового поля процентной ставки.
type RateInputUseCase interface {
	Keystroke(previous, typed string) domain.RateInput
	Commit(text string) domain.RateInput
}
