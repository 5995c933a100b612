package pkg

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
)

// APIResponse, tüm API yanıtları için standart zarf.
// Frontend her zaman aynı yapıyı bekler.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Page, sayfalı liste yanıtları için ortak yapı.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// JSON, başarılı bir yanıt gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, APIResponse{Success: true, Data: data})
}

// Error, hata yanıtı gönderir.
// Domain error'ları uygun HTTP status koduna çevrilir. Tanınmayan hatalar
// 500 olarak döner ve mesajları istemciye sızdırılmaz.
func Error(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = ErrInternal.Error()
	}

	write(w, status, APIResponse{Success: false, Error: msg})
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	write(w, status, APIResponse{Success: false, Error: message})
}

// DecodeJSON, request body'sini verilen hedefe çözer.
// Bilinmeyen alanlar yok sayılır; boş body hata sayılır.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func write(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// mapErrorToStatus, domain error'ları HTTP status kodlarına eşler.
// errors.Is wrap edilmiş zinciri de kontrol eder.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
