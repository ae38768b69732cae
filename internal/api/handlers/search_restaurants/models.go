package search_restaurants

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants/models"
)

// ToServiceRequest формирует запрос поиска из query параметров
// Query params: q, cuisine, priceTier (через запятую), date, partySize, onlyAvailable, limit
func ToServiceRequest(query url.Values) (*models.SearchRequest, error) {
	req := &models.SearchRequest{
		Query:   strings.TrimSpace(query.Get("q")),
		Cuisine: strings.TrimSpace(query.Get("cuisine")),
	}

	if tiers := query.Get("priceTier"); tiers != "" {
		for _, part := range strings.Split(tiers, ",") {
			tier, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("invalid priceTier %q: %w", part, err)
			}
			req.PriceTiers = append(req.PriceTiers, tier)
		}
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.Date = &date
	}

	var err error
	if req.PartySize, err = intParam(query, "partySize"); err != nil {
		return nil, err
	}
	if req.Limit, err = intParam(query, "limit"); err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("invalid limit: %d", req.Limit)
	}

	if onlyAvailable := query.Get("onlyAvailable"); onlyAvailable != "" {
		req.OnlyAvailable, err = strconv.ParseBool(onlyAvailable)
		if err != nil {
			return nil, fmt.Errorf("invalid onlyAvailable value: %w", err)
		}
	}

	return req, nil
}

func intParam(query url.Values, name string) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
