package errors

import stderrors "errors"

// Is и As переэкспортированы, чтобы пакет можно было импортировать вместо
// стандартного errors.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
