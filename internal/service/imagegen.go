package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	ErrAPIResponse    = errors.New("image API request failed")
	ErrResponseDecode = errors.New("image API response could not be decoded")
)

// ImageGenerator turns a text prompt into a hosted image URL.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageClient calls an external text-to-image HTTP service. Every call
// carries its own timeout; a slow provider stalls one job, not the pool.
type ImageClient struct {
	APIURL string
	APIKey string
	HTTP   *http.Client
}

func NewImageClient() *ImageClient {
	timeout := viper.GetDuration("image.timeout")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &ImageClient{
		APIURL: viper.GetString("image.api_url"),
		APIKey: viper.GetString("image.api_key"),
		HTTP:   &http.Client{Timeout: timeout},
	}
}

type imageResponse struct {
	OutputURL string `json:"output_url"`
}

func (i *ImageClient) Generate(ctx context.Context, prompt string) (string, error) {
	form := url.Values{"text": {prompt}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w, %v", ErrAPIResponse, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Api-Key", i.APIKey)

	resp, err := i.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w, %v", ErrAPIResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w with status code %d", ErrAPIResponse, resp.StatusCode)
	}

	var data imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w, %v", ErrResponseDecode, err)
	}

	if data.OutputURL == "" {
		return "", fmt.Errorf("%w, missing output_url", ErrResponseDecode)
	}

	zap.L().Debug("Generated image", zap.String("outputURL", data.OutputURL))

	return data.OutputURL, nil
}
