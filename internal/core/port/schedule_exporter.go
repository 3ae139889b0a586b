package port

import "marketplace-service/internal/core/domain"

// ScheduleExporterPort сериализует график платежей в файл для скачивания.
type ScheduleExporterPort interface {
	Export(input domain.MortgageInput, result domain.MortgageResult, rows []domain.ScheduleRow) ([]byte, error)
	ContentType() string
	FileExtension() string
}
