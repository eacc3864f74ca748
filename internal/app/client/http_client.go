package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"tabelkeeper/internal/app/client/config"
	"tabelkeeper/internal/domain/attendance"
	"tabelkeeper/internal/domain/employee"
)

// Remote - контракт облачного хранилища со стороны киоска
type Remote interface {
	HealthCheck(ctx context.Context) error
	UpsertEmployee(ctx context.Context, req EmployeeUpsertRequest) (string, error)
	ListEmployees(ctx context.Context) ([]*employee.Employee, error)
	UpsertAttendance(ctx context.Context, req AttendanceUpsertRequest) (string, error)
	ListAttendance(ctx context.Context) ([]*attendance.Entry, error)
}

// EmployeeUpsertRequest - тело запроса отправки сотрудника
type EmployeeUpsertRequest struct {
	EmpID       string    `json:"emp_id"`
	Name        string    `json:"name"`
	Department  string    `json:"department,omitempty"`
	Designation string    `json:"designation,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// AttendanceUpsertRequest - тело запроса отправки записи посещения
type AttendanceUpsertRequest struct {
	EmpID          string     `json:"emp_id"`
	AttendanceDate string     `json:"attendance_date"`
	LoginTime      time.Time  `json:"login_time"`
	LogoutTime     *time.Time `json:"logout_time,omitempty"`
	WorkingMinutes *int       `json:"working_minutes,omitempty"`
	DeviceID       string     `json:"device_id,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty"`
}

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 10,
		},
	}

	// Определяем протокол
	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}
	baseURL := scheme + cfg.ServerAddress

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   baseURL,
		userAgent: "Tabelkeeper-Kiosk/1.0",
	}, nil
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", h.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	return nil
}

// UpsertEmployee отправляет сотрудника на сервер, возвращает облачный идентификатор
func (h *httpClient) UpsertEmployee(ctx context.Context, req EmployeeUpsertRequest) (string, error) {
	resp, err := h.doRequest(ctx, "PUT", "/api/employees", req)
	if err != nil {
		return "", err
	}

	var upsertResp struct {
		ID string `json:"id"`
	}

	if err := h.parseResponse(resp, &upsertResp); err != nil {
		return "", err
	}

	return upsertResp.ID, nil
}

// ListEmployees получает всех сотрудников с сервера
func (h *httpClient) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/employees", nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Employees []*employee.Employee `json:"employees"`
	}

	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	return listResp.Employees, nil
}

// UpsertAttendance отправляет запись посещения на сервер, возвращает облачный идентификатор
func (h *httpClient) UpsertAttendance(ctx context.Context, req AttendanceUpsertRequest) (string, error) {
	resp, err := h.doRequest(ctx, "PUT", "/api/attendance", req)
	if err != nil {
		return "", err
	}

	var upsertResp struct {
		ID string `json:"id"`
	}

	if err := h.parseResponse(resp, &upsertResp); err != nil {
		return "", err
	}

	return upsertResp.ID, nil
}

// ListAttendance получает все записи посещений с сервера
func (h *httpClient) ListAttendance(ctx context.Context) ([]*attendance.Entry, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/attendance", nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Entries []*attendance.Entry `json:"entries"`
	}

	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	return listResp.Entries, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	// Добавляем заголовки
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("ошибка сервера: %s", errResp.Error)
		}
		return fmt.Errorf("ошибка сервера: статус %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}

var _ Remote = (*httpClient)(nil)
