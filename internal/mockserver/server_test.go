package mockserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"

	"github.com/diogo/estate/internal/api"
	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/relay"
)

func serve(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func newTestClient(t *testing.T, s *Server) *api.Client {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	client, err := api.NewClient(
		api.WithBaseURL(ts.URL),
		api.WithHTTPClient(&fhttp.Client{}),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

type turnCollector struct {
	mu    sync.Mutex
	turns []models.Turn
}

func (c *turnCollector) AppendTurn(turn models.Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turn)
}

func (c *turnCollector) last() models.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turns[len(c.turns)-1]
}

func TestAnalyse_Decisions(t *testing.T) {
	props := analyse(models.DefaultAnalysisParams())
	testboil.FailTestIfDiff(t, len(props), len(listings))

	for _, p := range props {
		if p.AreaSqft == nil {
			if p.Decision != "" || p.WealthBuying != nil {
				t.Errorf("%s has no area but was analysed", p.Location)
			}
			continue
		}
		if p.Decision != models.DecisionBuy && p.Decision != models.DecisionRent {
			t.Errorf("%s: decision = %q", p.Location, p.Decision)
		}
	}
}

func TestHealth(t *testing.T) {
	rec := serve(t, New(Options{}), http.MethodGet, "/health", "")
	testboil.FailTestIfDiff(t, rec.Code, http.StatusOK)
	testboil.AssertStringContains(t, rec.Body.String(), "healthy")
}

func TestCORSPreflight(t *testing.T) {
	rec := serve(t, New(Options{}), http.MethodOptions, "/api/chat", "")
	testboil.FailTestIfDiff(t, rec.Code, http.StatusNoContent)
	testboil.FailTestIfDiff(t, rec.Header().Get("Access-Control-Allow-Origin"), "*")
}

func TestHandleChat(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		body       string
		wantStatus int
		wantOK     bool
		wantError  string
	}{
		{"answers", Options{}, `{"message":"average price in pune"}`, http.StatusOK, true, ""},
		{"empty question", Options{}, `{"message":"  "}`, http.StatusBadRequest, false, "Query is required"},
		{"bad body", Options{}, `not json`, http.StatusBadRequest, false, "Invalid request body"},
		{"forced 503", Options{ChatStatus: 503}, `{"message":"hi"}`, 503, false, "not initialized"},
		{"forced 429", Options{ChatStatus: 429}, `{"message":"hi"}`, 429, false, "Rate limit"},
		{"forced 500", Options{ChatStatus: 500}, `{"message":"hi"}`, 500, false, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, New(tt.opts), http.MethodPost, "/api/chat", tt.body)
			testboil.FailTestIfDiff(t, rec.Code, tt.wantStatus)

			body := gjson.Parse(rec.Body.String())
			testboil.FailTestIfDiff(t, body.Get("success").Bool(), tt.wantOK)
			if tt.wantError != "" {
				testboil.AssertStringContains(t, body.Get("error").String(), tt.wantError)
			}
		})
	}
}

func TestHandleChat_Raw(t *testing.T) {
	rec := serve(t, New(Options{ChatRaw: true}), http.MethodPost, "/api/chat", `{"message":"hi"}`)
	testboil.FailTestIfDiff(t, rec.Code, http.StatusOK)
	if gjson.Valid(rec.Body.String()) {
		t.Errorf("raw body should not be JSON: %s", rec.Body.String())
	}
}

func TestAnswer(t *testing.T) {
	s := New(Options{})

	tests := []struct {
		question   string
		wantSource string
		wantText   string
	}{
		{"average price in Pune", "database", "The average price in Pune"},
		{"should I buy or rent in mumbai", "database", "For Mumbai"},
		{"show me cheap flats in delhi", "database", "Found 3 properties in Delhi"},
		{"hello there", "basic", "I can help"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			text, source := s.answer(tt.question)
			testboil.FailTestIfDiff(t, source, tt.wantSource)
			testboil.AssertStringContains(t, text, tt.wantText)
		})
	}
}

func TestHandleProperties(t *testing.T) {
	s := New(Options{})

	t.Run("pagination", func(t *testing.T) {
		rec := serve(t, s, http.MethodGet, "/api/properties?page=2&per_page=5", "")
		body := gjson.Parse(rec.Body.String())
		testboil.FailTestIfDiff(t, int(body.Get("total").Int()), len(listings))
		testboil.FailTestIfDiff(t, int(body.Get("page").Int()), 2)
		testboil.FailTestIfDiff(t, int(body.Get("total_pages").Int()), 3)
		testboil.FailTestIfDiff(t, len(body.Get("data").Array()), 5)
	})

	t.Run("page past the end", func(t *testing.T) {
		rec := serve(t, s, http.MethodGet, "/api/properties?page=9", "")
		body := gjson.Parse(rec.Body.String())
		testboil.FailTestIfDiff(t, len(body.Get("data").Array()), 0)
	})

	t.Run("city filter ignores case", func(t *testing.T) {
		rec := serve(t, s, http.MethodGet, "/api/properties?city=pune", "")
		body := gjson.Parse(rec.Body.String())
		testboil.FailTestIfDiff(t, int(body.Get("total").Int()), 4)
	})

	t.Run("price range", func(t *testing.T) {
		rec := serve(t, s, http.MethodGet, "/api/properties?min_price=20000000&max_price=25000000", "")
		body := gjson.Parse(rec.Body.String())
		testboil.FailTestIfDiff(t, int(body.Get("total").Int()), 2)
	})

	t.Run("nulls for missing values", func(t *testing.T) {
		rec := serve(t, s, http.MethodGet, "/api/properties?city=delhi", "")
		saket := gjson.Get(rec.Body.String(), `data.#(location=="Saket")`)
		testboil.FailTestIfDiff(t, saket.Get("bhk").Type, gjson.Null)
	})

	t.Run("invalid page", func(t *testing.T) {
		rec := serve(t, s, http.MethodGet, "/api/properties?page=zero", "")
		testboil.FailTestIfDiff(t, rec.Code, http.StatusBadRequest)
	})
}

func TestHandleAnalyze(t *testing.T) {
	s := New(Options{})

	rec := serve(t, s, http.MethodPost, "/api/analyze", `{"down_payment_percent": 150}`)
	testboil.FailTestIfDiff(t, rec.Code, http.StatusBadRequest)

	rec = serve(t, s, http.MethodPost, "/api/analyze", `{"appreciation_rate": 0, "invest_rate": 15}`)
	testboil.FailTestIfDiff(t, rec.Code, http.StatusOK)
	body := gjson.Parse(rec.Body.String())
	testboil.FailTestIfDiff(t, body.Get("message").String(), "Analysis completed successfully")

	buy := int(body.Get("buy_count").Int())
	rent := int(body.Get("rent_count").Int())
	if buy+rent > int(body.Get("total_properties").Int()) {
		t.Errorf("buy %d + rent %d exceeds total", buy, rent)
	}

	dash := gjson.Parse(serve(t, s, http.MethodGet, "/api/dashboard", "").Body.String())
	testboil.FailTestIfDiff(t, int(dash.Get("buy_recommendations").Int()), buy)
}

func TestHandleExport_CSV(t *testing.T) {
	rec := serve(t, New(Options{}), http.MethodGet, "/api/export?format=csv", "")
	testboil.FailTestIfDiff(t, rec.Code, http.StatusOK)
	testboil.AssertStringContains(t, rec.Header().Get("Content-Disposition"), "properties.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	testboil.FailTestIfDiff(t, lines[0], strings.Join(csvHeader, ","))
	testboil.FailTestIfDiff(t, len(lines), len(listings)+1)
}

func TestHandleExport_UnknownFormat(t *testing.T) {
	rec := serve(t, New(Options{}), http.MethodGet, "/api/export?format=xml", "")
	testboil.FailTestIfDiff(t, rec.Code, http.StatusBadRequest)
}

func TestClientAgainstMockServer(t *testing.T) {
	client := newTestClient(t, New(Options{}))
	ctx := context.Background()

	stats, err := client.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	testboil.FailTestIfDiff(t, stats.TotalProperties, len(listings))

	page, err := client.Properties(ctx, models.PropertyFilter{City: "Mumbai", Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	testboil.FailTestIfDiff(t, page.Total, 4)
	testboil.FailTestIfDiff(t, page.TotalPages, 2)
	if !page.HasNext() || page.HasPrev() {
		t.Errorf("page 1 of 2: HasNext=%v HasPrev=%v", page.HasNext(), page.HasPrev())
	}

	cities, err := client.Cities(ctx)
	if err != nil {
		t.Fatalf("Cities() error = %v", err)
	}
	testboil.FailTestIfDiff(t, strings.Join(cities, ","), "Bangalore,Delhi,Mumbai,Pune")

	res, err := client.Analyze(ctx, models.DefaultAnalysisParams())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	testboil.FailTestIfDiff(t, res.TotalProperties, len(listings))

	export, err := client.Export(ctx, models.ExportJSON)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	testboil.FailTestIfDiff(t, len(gjson.ParseBytes(export.Data).Array()), len(listings))
}

func TestRelayAgainstMockServer(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		timeout    time.Duration
		wantSource string
	}{
		{"answer", Options{}, 0, "database"},
		{"setup required", Options{ChatStatus: 503}, 0, models.SourceSetupRequired},
		{"no results", Options{ChatStatus: 404}, 0, models.SourceNoResults},
		{"rate limited", Options{ChatStatus: 429}, 0, models.SourceRateLimited},
		{"server error", Options{ChatStatus: 500}, 0, models.SourceFallback},
		{"not json", Options{ChatRaw: true}, 0, models.SourceParseError},
		{"slow", Options{ChatDelay: time.Second}, 50 * time.Millisecond, models.SourceTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, New(tt.opts))
			sink := &turnCollector{}

			var opts []relay.Option
			if tt.timeout > 0 {
				opts = append(opts, relay.WithTimeout(tt.timeout))
			}
			r := relay.New(client, sink, nil, nil, opts...)

			if !r.Submit(context.Background(), "average price in pune") {
				t.Fatal("Submit() was not accepted")
			}
			testboil.FailTestIfDiff(t, sink.last().Source, tt.wantSource)
		})
	}
}

func TestRun_ReturnsOnContextCancel(t *testing.T) {
	s := New(Options{})
	testboil.ReturnsOnContextCancel(t, func(ctx context.Context) {
		_ = s.Run(ctx, "127.0.0.1:0")
	}, time.Second)
}
