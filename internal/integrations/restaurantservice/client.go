package restaurantservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

const (
	restaurantsPath = "/restaurants"
	reviewsPath     = "/reviews"
)

// Client клиент REST-шлюза управляемого бэкенда (таблицы restaurants и reviews)
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetRestaurant получает ресторан по ID
func (c *Client) GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id.String())

	rows, err := c.fetch(ctx, http.MethodGet, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrRestaurantNotFound
	}

	return rows[0].ToDomain()
}

// SearchRestaurants ищет рестораны по фильтру.
// Текст ищется в названии и локации (ilike), кухня через cs.{...}, ценовой уровень и ID через in.(...)
func (c *Client) SearchRestaurants(ctx context.Context, filter domain.RestaurantFilter) ([]*domain.Restaurant, error) {
	rows, err := c.fetch(ctx, http.MethodGet, searchQuery(filter))
	if err != nil {
		return nil, err
	}

	restaurants := make([]*domain.Restaurant, 0, len(rows))
	for _, row := range rows {
		restaurant, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}

	c.log.Info("Fetched %d restaurants (query=%q, cuisine=%q)", len(restaurants), filter.Query, filter.Cuisine)
	return restaurants, nil
}

// DeleteRestaurant удаляет ресторан
func (c *Client) DeleteRestaurant(ctx context.Context, id uuid.UUID) error {
	query := url.Values{}
	query.Set("id", "eq."+id.String())

	rows, err := c.fetch(ctx, http.MethodDelete, query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrRestaurantNotFound
	}

	return nil
}

// GetReviews получает отзывы ресторана, новые первыми
func (c *Client) GetReviews(ctx context.Context, restaurantID uuid.UUID, limit int) ([]*domain.Review, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("restaurant_id", "eq."+restaurantID.String())
	query.Set("order", "created_at.desc")
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var rows []Review
	if err := c.do(ctx, http.MethodGet, reviewsPath, query, nil, &rows); err != nil {
		return nil, err
	}

	reviews := make([]*domain.Review, 0, len(rows))
	for _, row := range rows {
		review, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// CreateReview сохраняет отзыв и возвращает строку, записанную бэкендом
func (c *Client) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	body, err := json.Marshal(ReviewFromDomain(review))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode review: %v", ErrInternal, err)
	}

	var rows []Review
	if err := c.do(ctx, http.MethodPost, reviewsPath, url.Values{}, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty response on review insert", ErrInvalidResponse)
	}

	c.log.Info("Created review for restaurant=%s (rating=%d)", review.RestaurantID, review.Rating)
	return rows[0].ToDomain()
}

func searchQuery(filter domain.RestaurantFilter) url.Values {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "rating.desc,name.asc")

	if q := sanitize(filter.Query); q != "" {
		query.Set("or", fmt.Sprintf("(name.ilike.*%s*,location.ilike.*%s*)", q, q))
	}
	if cuisine := sanitize(filter.Cuisine); cuisine != "" {
		query.Set("cuisine", fmt.Sprintf("cs.{%s}", cuisine))
	}
	if len(filter.PriceTiers) > 0 {
		tiers := make([]string, len(filter.PriceTiers))
		for i, t := range filter.PriceTiers {
			tiers[i] = strconv.Itoa(t)
		}
		query.Set("price_tier", "in.("+strings.Join(tiers, ",")+")")
	}
	if len(filter.IDs) > 0 {
		ids := make([]string, len(filter.IDs))
		for i, id := range filter.IDs {
			ids[i] = id.String()
		}
		query.Set("id", "in.("+strings.Join(ids, ",")+")")
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	return query
}

// sanitize убирает символы, которые ломают синтаксис фильтров REST-шлюза
func sanitize(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '{', '}', '*', '"':
			return -1
		}
		return r
	}, s))
}

func (c *Client) fetch(ctx context.Context, method string, query url.Values) ([]Restaurant, error) {
	var rows []Restaurant
	if err := c.do(ctx, method, restaurantsPath, query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if method == http.MethodDelete || method == http.MethodPost {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("RestaurantService request failed: %s %s: %v", method, path, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusNotFound:
		return ErrRestaurantNotFound
	case http.StatusConflict:
		// нарушение внешнего ключа: ресторана с таким ID нет
		return ErrRestaurantNotFound
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
