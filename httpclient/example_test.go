package httpclient_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/restocklabs/stockops/httpclient"
	"github.com/restocklabs/stockops/resilience"
)

func ExampleNew() {
	client, err := httpclient.New(httpclient.Config{
		BaseURL: "https://api.supplier.example",
		Timeout: 5 * time.Second,
		Retry: resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			Jitter:       true,
		},
		Breaker: resilience.CircuitBreakerConfig{
			MaxFailures:  5,
			ResetTimeout: 30 * time.Second,
		},
	})
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	fmt.Println("breaker state:", client.Breaker().State())
	// Output:
	// breaker state: closed
}

func ExampleNew_validation() {
	_, err := httpclient.New(httpclient.Config{})
	fmt.Println(errors.Is(err, httpclient.ErrMissingBaseURL))

	_, err = httpclient.New(httpclient.Config{BaseURL: "no-scheme"})
	fmt.Println(errors.Is(err, httpclient.ErrInvalidBaseURL))
	// Output:
	// true
	// true
}

func ExampleClient_Get() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sku":"WIDGET-9","in_stock":true}`))
	}))
	defer server.Close()

	client, _ := httpclient.New(httpclient.Config{BaseURL: server.URL})

	resp, err := client.Get(context.Background(), "/v1/availability/WIDGET-9")
	if err != nil {
		fmt.Println("request failed:", err)
		return
	}

	var availability struct {
		SKU     string `json:"sku"`
		InStock bool   `json:"in_stock"`
	}
	_ = resp.JSON(&availability)

	fmt.Println("status:", resp.StatusCode)
	fmt.Println("sku:", availability.SKU)
	fmt.Println("in stock:", availability.InStock)
	// Output:
	// status: 200
	// sku: WIDGET-9
	// in stock: true
}

func ExampleClient_Do_failover() {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer primary.Close()

	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer backup.Close()

	client, _ := httpclient.New(httpclient.Config{
		BaseURL:          primary.URL,
		FallbackBaseURLs: []string{backup.URL},
		Retry:            resilience.RetryConfig{MaxAttempts: 1},
	})

	resp, err := client.Do(context.Background(), httpclient.Request{Path: "/v1/skus"})
	if err != nil {
		fmt.Println("request failed:", err)
		return
	}

	fmt.Println("served by fallback index:", resp.FallbackIndex)
	fmt.Println("served by backup:", resp.BaseURL == backup.URL)
	// Output:
	// served by fallback index: 0
	// served by backup: true
}

func ExampleIsStatus() {
	err := &httpclient.StatusError{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
	}

	fmt.Println(httpclient.IsStatus(err, http.StatusNotFound))
	fmt.Println(httpclient.IsStatus(err, http.StatusInternalServerError))
	// Output:
	// true
	// false
}

func ExampleNonRetryableStatus() {
	badRequest := &httpclient.StatusError{StatusCode: http.StatusBadRequest}
	throttled := &httpclient.StatusError{StatusCode: http.StatusTooManyRequests}
	serverError := &httpclient.StatusError{StatusCode: http.StatusInternalServerError}

	fmt.Println("400 non-retryable:", httpclient.NonRetryableStatus(badRequest))
	fmt.Println("429 non-retryable:", httpclient.NonRetryableStatus(throttled))
	fmt.Println("500 non-retryable:", httpclient.NonRetryableStatus(serverError))
	// Output:
	// 400 non-retryable: true
	// 429 non-retryable: false
	// 500 non-retryable: false
}
