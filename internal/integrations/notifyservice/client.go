// Package notifyservice fire-and-forget клиент сервиса уведомлений
//
// Уведомление - побочный эффект успешного бронирования: его сбой логируется,
// но никогда не откатывает и не блокирует саму запись.
package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Event тип события уведомления
type Event string

const (
	EventAppointmentConfirmed Event = "appointment_confirmed"
	EventAppointmentCancelled Event = "appointment_cancelled"
)

// Notification модель уведомления для NotifyService
type Notification struct {
	IdempotencyKey string `json:"idempotency_key"`
	Event          Event  `json:"event"`
	AppointmentID  int64  `json:"appointment_id"`
	SalonID        int64  `json:"salon_id"`
	CustomerID     int64  `json:"customer_id"`
	StaffID        int64  `json:"staff_id"`
	Date           string `json:"date"`       // YYYY-MM-DD
	StartTime      string `json:"start_time"` // HH:MM
}

// Client клиент для работы с NotifyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет уведомление
// Ключ идемпотентности генерируется автоматически, если не задан -
// NotifyService дедуплицирует повторные доставки по нему
func (c *Client) Send(ctx context.Context, n *Notification) error {
	if n.IdempotencyKey == "" {
		n.IdempotencyKey = uuid.NewString()
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.IdempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	return nil
}
