package port

// Fields - структурированные поля, прикладываемые к записи лога.
type Fields map[string]interface{}

// LoggerPort - контракт системы логирования. Ядро приложения зависит
// только от него, конкретные реализации живут в adapters/logger.
type LoggerPort interface {
	Debug(msg string, fields Fields)

	Info(msg string, fields Fields)

	Warn(msg string, fields Fields)

	// Error записывает сообщение вместе с объектом ошибки.
	Error(msg string, err error, fields Fields)

	// WithFields возвращает логгер с уже прикрепленными полями,
	// удобно для контекста вида component / trace_id.
	WithFields(fields Fields) LoggerPort
}
