package domain

// RateInput - состояние текстового поля процентной ставки.
// Accepted=false означает, что ввод отклонен и в поле остался предыдущий текст.
type RateInput struct {
	Text     string
	Value    float64
	Accepted bool
}
