// Package catalog reads product catalogs used to seed or bulk import products.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cartify/internal/service"
)

// MaxDocumentBytes caps a catalog document, whether posted or fetched.
const MaxDocumentBytes = 5 << 20

// ErrTooLarge is returned for documents over MaxDocumentBytes.
var ErrTooLarge = errors.New("catalog document too large")

// Entry is one product in a catalog document.
type Entry struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryKey string          `json:"categoryKey" validate:"required"`
	Type        string          `json:"type"`
	Featured    bool            `json:"featured"`
	Image       string          `json:"image"`
	Rating      *float64        `json:"rating,omitempty"`
}

// Input converts the entry into a service input.
func (e Entry) Input() service.ProductInput {
	return service.ProductInput{
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		CategoryKey: e.CategoryKey,
		Type:        e.Type,
		Featured:    e.Featured,
		Image:       e.Image,
		Rating:      e.Rating,
	}
}

// Inputs converts every entry.
func Inputs(entries []Entry) []service.ProductInput {
	out := make([]service.ProductInput, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Input())
	}
	return out
}

// Decode reads a catalog document. Both a bare array and an object with a
// "products" array are accepted.
func Decode(r io.Reader) ([]Entry, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(raw) > MaxDocumentBytes {
		return nil, ErrTooLarge
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var entries []Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		return entries, nil
	}
	var doc struct {
		Products []Entry `json:"products"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return doc.Products, nil
}

// Load reads a catalog from an http(s) URL or a local file path.
func Load(ctx context.Context, source string) ([]Entry, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(ctx, source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func fetch(ctx context.Context, url string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status: %d", resp.StatusCode)
	}
	return Decode(resp.Body)
}
