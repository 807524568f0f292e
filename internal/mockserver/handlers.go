package mockserver

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/render"
)

// chatFailures are the error texts sent with a forced chat status
var chatFailures = map[int]string{
	http.StatusServiceUnavailable: "RAG system not initialized",
	http.StatusNotFound:           "No relevant data found",
	http.StatusTooManyRequests:    "Rate limit exceeded",
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func (s *Server) handleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	question := strings.TrimSpace(req.Message)
	if question == "" {
		fail(c, http.StatusBadRequest, "Query is required")
		return
	}

	if s.opts.ChatDelay > 0 {
		select {
		case <-time.After(s.opts.ChatDelay):
		case <-c.Request.Context().Done():
			return
		}
	}

	if s.opts.ChatRaw {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<html><body>Internal Server Error</body></html>"))
		return
	}

	if s.opts.ChatStatus != 0 {
		msg, ok := chatFailures[s.opts.ChatStatus]
		if !ok {
			msg = "internal error"
		}
		fail(c, s.opts.ChatStatus, msg)
		return
	}

	text, source := s.answer(question)
	c.JSON(http.StatusOK, gin.H{"success": true, "response": text, "source": source})
}

// answer picks a canned reply from keywords and the fixture table
func (s *Server) answer(question string) (string, string) {
	q := strings.ToLower(question)

	props := s.snapshot()
	scope := "all cities"
	for _, city := range cityNames(props) {
		if strings.Contains(q, strings.ToLower(city)) {
			props = filterCity(props, city)
			scope = city
			break
		}
	}

	switch {
	case strings.Contains(q, "buy") || strings.Contains(q, "rent"):
		buy, rent := countDecisions(props)
		total := buy + rent
		if total == 0 {
			return fmt.Sprintf("No analysed properties found for %s.", scope), "database"
		}
		verdict := "Both buying and renting are equally viable options."
		if buy > rent {
			verdict = "Buying is financially better for most properties here."
		} else if rent > buy {
			verdict = "Renting offers better financial flexibility for most properties here."
		}
		return fmt.Sprintf("For %s:\n\n- Buy recommended: %d of %d\n- Rent recommended: %d of %d\n\n**Verdict:** %s",
			scope, buy, total, rent, total, verdict), "database"

	case strings.Contains(q, "price") || strings.Contains(q, "average") || strings.Contains(q, "cost"):
		avg, _ := averages(props)
		return fmt.Sprintf("The average price in %s is ₹%s across %d properties.",
			scope, render.FormatNumber(avg), len(props)), "database"

	case strings.Contains(q, "cheap") || strings.Contains(q, "find") || strings.Contains(q, "show") || strings.Contains(q, "flat"):
		sorted := append([]models.Property(nil), props...)
		sort.SliceStable(sorted, func(i, j int) bool { return *sorted[i].Price < *sorted[j].Price })
		var b strings.Builder
		fmt.Fprintf(&b, "Found %d properties in %s.\n\n", len(sorted), scope)
		for i, p := range sorted[:min(3, len(sorted))] {
			fmt.Fprintf(&b, "%d. %s, %s: ₹%s\n", i+1, p.Location, p.City, render.FormatNumber(*p.Price))
		}
		return b.String(), "database"
	}

	return "I can help with property search, buy vs rent analysis, rental insights, and investment guidance. What would you like to know?", "basic"
}

func (s *Server) handleDashboard(c *gin.Context) {
	props := s.snapshot()
	buy, rent := countDecisions(props)
	avgPrice, avgArea := averages(props)

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"total_properties":     len(props),
		"buy_recommendations":  buy,
		"rent_recommendations": rent,
		"avg_price":            avgPrice,
		"avg_area":             avgArea,
	})
}

func (s *Server) handleProperties(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	perPage, err := intQuery(c, "per_page", models.DefaultPerPage)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	minPrice, err := floatQuery(c, "min_price")
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	maxPrice, err := floatQuery(c, "max_price")
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	props := s.snapshot()
	if city := c.Query("city"); city != "" && city != "all" {
		props = filterCity(props, city)
	}
	if decision := c.Query("decision"); decision != "" && decision != "all" {
		var kept []models.Property
		for _, p := range props {
			if p.Decision == decision {
				kept = append(kept, p)
			}
		}
		props = kept
	}
	if minPrice > 0 || maxPrice > 0 {
		var kept []models.Property
		for _, p := range props {
			if minPrice > 0 && *p.Price < minPrice {
				continue
			}
			if maxPrice > 0 && *p.Price > maxPrice {
				continue
			}
			kept = append(kept, p)
		}
		props = kept
	}

	total := len(props)
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	rows := make([]gin.H, 0, end-start)
	for _, p := range props[start:end] {
		rows = append(rows, propertyRow(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        rows,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"total_pages": (total + perPage - 1) / perPage,
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	params := models.DefaultAnalysisParams()
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	props := analyse(params)
	s.mu.Lock()
	s.properties = props
	s.params = params
	s.mu.Unlock()

	buy, rent := countDecisions(props)
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Analysis completed successfully",
		"total_properties": len(props),
		"buy_count":        buy,
		"rent_count":       rent,
	})
}

func (s *Server) handleCityOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "cities": cityNames(s.snapshot())})
}

func (s *Server) handleExport(c *gin.Context) {
	props := s.snapshot()

	switch format := c.DefaultQuery("format", models.ExportCSV); format {
	case models.ExportJSON:
		rows := make([]gin.H, 0, len(props))
		for _, p := range props {
			rows = append(rows, propertyRow(p))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})

	case models.ExportCSV:
		body, err := propertiesCSV(props)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.Header("Content-Disposition", "attachment; filename=properties.csv")
		c.Data(http.StatusOK, "text/csv; charset=utf-8", body)

	default:
		fail(c, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

// propertyRow serialises a property with nulls for missing values
func propertyRow(p models.Property) gin.H {
	var decision any
	if p.Decision != "" {
		decision = p.Decision
	}
	return gin.H{
		"location":       p.Location,
		"city":           p.City,
		"price":          p.Price,
		"area_sqft":      p.AreaSqft,
		"bhk":            p.BHK,
		"price_per_sqft": p.PricePerSqft,
		"wealth_buying":  p.WealthBuying,
		"wealth_renting": p.WealthRenting,
		"decision":       decision,
	}
}

var csvHeader = []string{
	"location", "city", "price", "area_sqft", "bhk",
	"price_per_sqft", "wealth_buying", "wealth_renting", "decision",
}

func propertiesCSV(props []models.Property) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, p := range props {
		record := []string{
			p.Location, p.City,
			csvNumber(p.Price), csvNumber(p.AreaSqft), csvNumber(p.BHK),
			csvNumber(p.PricePerSqft), csvNumber(p.WealthBuying), csvNumber(p.WealthRenting),
			p.Decision,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func csvNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func floatQuery(c *gin.Context, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number", key)
	}
	return v, nil
}

func filterCity(props []models.Property, city string) []models.Property {
	var kept []models.Property
	for _, p := range props {
		if strings.EqualFold(p.City, city) {
			kept = append(kept, p)
		}
	}
	return kept
}

func cityNames(props []models.Property) []string {
	seen := map[string]bool{}
	cities := []string{}
	for _, p := range props {
		if !seen[p.City] {
			seen[p.City] = true
			cities = append(cities, p.City)
		}
	}
	sort.Strings(cities)
	return cities
}

func countDecisions(props []models.Property) (buy, rent int) {
	for _, p := range props {
		switch p.Decision {
		case models.DecisionBuy:
			buy++
		case models.DecisionRent:
			rent++
		}
	}
	return buy, rent
}

// averages returns the mean price and the mean of the known areas
func averages(props []models.Property) (price, area float64) {
	var areas int
	for _, p := range props {
		price += *p.Price
		if p.AreaSqft != nil {
			area += *p.AreaSqft
			areas++
		}
	}
	if len(props) > 0 {
		price /= float64(len(props))
	}
	if areas > 0 {
		area /= float64(areas)
	}
	return price, area
}
