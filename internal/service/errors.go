package service

import "errors"

var (
	// ErrStorage оборачивает любую ошибку хранилища. Такие ошибки фатальны для текущего хода
	// диалога и возвращаются вызывающему коду вместе с исходной ошибкой.
	ErrStorage = errors.New("storage failure")
)
