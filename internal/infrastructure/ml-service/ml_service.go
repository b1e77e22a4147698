package ml_service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ikarus-tech/reco-backend/internal/cfg"
	"github.com/ikarus-tech/reco-backend/pkg/e"
	"github.com/ikarus-tech/reco-backend/pkg/jitter"
	"github.com/ikarus-tech/reco-backend/pkg/logger"
)

// MLService клиент для взаимодействия с внешним сервисом эмбеддингов.
// Текст и изображения векторизуются разными моделями, поэтому эндпоинты раздельные.
type MLService struct {
	httpClient *http.Client
	cfg        *cfg.MLServiceCfg
	logger     logger.Logger
}

func NewMLService(cfg *cfg.MLServiceCfg, logger logger.Logger) *MLService {
	return &MLService{
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     logger,
	}
}

type embedTextRequest struct {
	Text string `json:"text"`
}

type embedImageRequest struct {
	ImageData string `json:"image_data"`
}

type embedResponse struct {
	Vector       []float32 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

// EmbedText векторизует текст с retry-логикой и экспоненциальной задержкой
func (m *MLService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	const op = "MLService.EmbedText"

	body, err := json.Marshal(embedTextRequest{Text: text})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return m.embedWithRetry(ctx, op, m.cfg.Addr+"/api/v1/embeddings/text", body)
}

// EmbedImage векторизует изображение с retry-логикой и экспоненциальной задержкой
func (m *MLService) EmbedImage(ctx context.Context, data []byte) ([]float32, error) {
	const op = "MLService.EmbedImage"

	body, err := json.Marshal(embedImageRequest{ImageData: base64.StdEncoding.EncodeToString(data)})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return m.embedWithRetry(ctx, op, m.cfg.Addr+"/api/v1/embeddings/image", body)
}

func (m *MLService) embedWithRetry(ctx context.Context, op, url string, body []byte) ([]float32, error) {
	const (
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	var lastErr error
	for attempt := 0; attempt < m.cfg.MaxRetries; attempt++ {
		vector, err := m.embedOnce(ctx, url, body)
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			lastErr = e.ErrProviderTimeout
		}

		if attempt == m.cfg.MaxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		m.logger.Warnf("embedding request failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	if errors.Is(lastErr, e.ErrProviderTimeout) {
		return nil, e.Wrap(op, lastErr)
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", m.cfg.MaxRetries, e.ErrProviderUnavailable))
}

// embedOnce выполняет одиночный запрос к провайдеру с таймаутом на попытку
func (m *MLService) embedOnce(ctx context.Context, url string, body []byte) ([]float32, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, payload)
	}

	var parsed embedResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	if len(parsed.Vector) == 0 {
		return nil, e.ErrEmptyVector
	}

	return parsed.Vector, nil
}
