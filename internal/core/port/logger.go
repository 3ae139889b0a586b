package port

// Fields - структурированные поля записи лога
type Fields map[string]interface{}

// LoggerPort - логгер, которым пользуются ядро и адаптеры.
// Конкретные реализации (slog, fluent, multi) лежат в adapters/logger.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)

	// WithFields возвращает дочерний логгер с добавленными полями
	WithFields(fields Fields) LoggerPort
}
