package logging

// EntryLogger is the entry-style logger shape (logrus.Entry and friends)
// whose With methods return the concrete logger type.
type EntryLogger[T any] interface {
	Error(args ...any)
	Info(args ...any)
	Debug(args ...any)
	Trace(args ...any)
	WithError(err error) T
	WithField(key string, value any) T
}

// NewEntryServiceLogger adapts an entry-style logger.
func NewEntryServiceLogger[T EntryLogger[T]](entry T) ServiceLogger {
	if any(entry) == nil {
		panic("adbridge: entry logger cannot be nil")
	}
	return &entryLogger[T]{entry: entry}
}

type entryLogger[T EntryLogger[T]] struct {
	entry T
}

func (e *entryLogger[T]) With(fields LogFields) ServiceLogger {
	if len(fields) == 0 {
		return e
	}
	return &entryLogger[T]{entry: withEntryFields(e.entry, fields)}
}

func (e *entryLogger[T]) Debug(msg string, fields LogFields) {
	withEntryFields(e.entry, fields).Debug(msg)
}

func (e *entryLogger[T]) Info(msg string, fields LogFields) {
	withEntryFields(e.entry, fields).Info(msg)
}

func (e *entryLogger[T]) Error(msg string, err error, fields LogFields) {
	l := withEntryFields(e.entry, fields)
	if err != nil {
		l = l.WithError(err)
	}
	l.Error(msg)
}

func (e *entryLogger[T]) Trace(msg string, fields LogFields) {
	withEntryFields(e.entry, fields).Trace(msg)
}

func withEntryFields[T EntryLogger[T]](entry T, fields LogFields) T {
	for k, v := range fields {
		entry = entry.WithField(k, v)
	}
	return entry
}
