package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
)

const reservationsPath = "/rest/v1/reservations"

// postgrestRepo talks to a hosted Postgres (Supabase) through its PostgREST
// interface, authenticating with the project's public API key.
type postgrestRepo struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPostgRESTRepo constructs a ReservationRepo for the REST endpoint at
// baseURL (e.g. "https://xyz.supabase.co"). A nil client gets a default one
// with a 10 second timeout.
func NewPostgRESTRepo(baseURL, apiKey string, client *http.Client) ReservationRepo {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &postgrestRepo{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// Insert posts one row. Prefer: return=minimal asks the server not to echo
// the created record back.
func (r *postgrestRepo) Insert(ctx context.Context, res domain.NewReservation) error {
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("repo.PostgRESTRepo.Insert: encode: %w", err)
	}

	req, err := r.newRequest(ctx, http.MethodPost, r.baseURL+reservationsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("repo.PostgRESTRepo.Insert: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("repo.PostgRESTRepo.Insert: %w", &domain.StoreError{Op: "insert", Message: err.Error(), Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("repo.PostgRESTRepo.Insert: %w", decodeStoreError("insert", resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ListAll fetches every row ordered by date, then time.
func (r *postgrestRepo) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "date.asc,time.asc")

	req, err := r.newRequest(ctx, http.MethodGet, r.baseURL+reservationsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("repo.PostgRESTRepo.ListAll: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("repo.PostgRESTRepo.ListAll: %w", &domain.StoreError{Op: "list", Message: err.Error(), Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("repo.PostgRESTRepo.ListAll: %w", decodeStoreError("list", resp))
	}

	var out []domain.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("repo.PostgRESTRepo.ListAll: decode: %w", &domain.StoreError{Op: "list", Message: err.Error(), Err: err})
	}
	for i := range out {
		out[i].Time = domain.NormalizeClock(out[i].Time)
	}
	return out, nil
}

func (r *postgrestRepo) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	return req, nil
}

// postgrestError is the JSON error body PostgREST returns on failure.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// decodeStoreError turns a non-2xx response into a StoreError, using the
// server's message when the body carries one.
func decodeStoreError(op string, resp *http.Response) *domain.StoreError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	statusErr := fmt.Errorf("unexpected status %d", resp.StatusCode)

	var pe postgrestError
	if err := json.Unmarshal(raw, &pe); err == nil && pe.Message != "" {
		return &domain.StoreError{Op: op, Message: pe.Message, Err: statusErr}
	}
	return &domain.StoreError{Op: op, Err: statusErr}
}
