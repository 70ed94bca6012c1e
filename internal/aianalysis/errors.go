package aianalysis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
)

const CodeInvalidJSON = "INVALID_JSON"

var ErrNoInput = errors.New("нет данных для анализа")

// Error is a classified AI-path failure. Status carries the upstream HTTP
// status when one exists; Code tags schema failures so the orchestrator
// can decide on its single strict retry.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "ошибка анализа"
}

func (e *Error) Unwrap() error { return e.Err }

func invalidJSONError() *Error {
	return &Error{Code: CodeInvalidJSON, Message: "Ответ модели не распознан"}
}

func isInvalidJSON(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == CodeInvalidJSON
}

// classifyTransport wraps an LLM transport failure, pulling the HTTP
// status out of the SDK error when present.
func classifyTransport(err error) *Error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &Error{Status: apierr.StatusCode, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Message: "Запрос прерван", Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return &Error{Message: "AI-сервис недоступен", Err: err}
	}
	return &Error{Err: err}
}

// advisoryMessage maps a classified failure to the human-readable note
// shown next to the rule-based report.
func advisoryMessage(err error, model string) string {
	var ae *Error
	reason := "Ошибка анализа."
	if errors.As(err, &ae) {
		switch {
		case ae.Status == 401 || ae.Status == 403:
			reason = "Неверный или незарегистрированный API ключ."
		case ae.Status == 429:
			reason = "Превышен лимит запросов AI-сервиса. Попробуйте позже."
		case ae.Status == 404:
			reason = fmt.Sprintf("Модель недоступна: %s. Попробуйте другую модель.", model)
		case strings.TrimSpace(ae.Error()) != "":
			reason = strings.TrimSuffix(ae.Error(), ".") + "."
		}
	}
	return reason + " Показан базовый анализ, проверьте данные."
}
