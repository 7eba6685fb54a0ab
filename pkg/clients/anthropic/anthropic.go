package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// Client defines the AI text-to-structured-data operations the application
// consumes. Every call is a single attempt with no retry beyond the passed
// context.
type Client interface {
	ParseDeliveries(ctx context.Context, text string, providerNames []string) (DeliveryParse, error)
	ParseProvider(ctx context.Context, text string) (ProviderParse, error)
	GenerateWeeklyReport(ctx context.Context, input ReportInput) (ReportResult, error)
}

// DeliveryEntry is one (provider, quantity) pair extracted from free text.
type DeliveryEntry struct {
	Provider string  `json:"provider"`
	Quantity float64 `json:"quantity"`
}

// DeliveryParse is the structured result of the delivery parser.
type DeliveryParse struct {
	Date    string          `json:"date"`
	Entries []DeliveryEntry `json:"entries"`
}

// ProviderParse is the structured result of the provider-creation parser.
type ProviderParse struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
}

// ReportDelivery is a delivery fact fed to the report generator.
type ReportDelivery struct {
	Provider string  `json:"provider"`
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
}

// ReportProduction is a production fact fed to the report generator.
type ReportProduction struct {
	Date        string  `json:"date"`
	Units       int     `json:"units"`
	WholeMilkKg float64 `json:"whole_milk_kg"`
}

// ReportSale is a sale fact fed to the report generator.
type ReportSale struct {
	Client string  `json:"client"`
	Date   string  `json:"date"`
	Total  float64 `json:"total"`
	Paid   float64 `json:"paid"`
}

// ReportInput is the week snapshot handed to the report generator. The sales
// trend is computed by the caller and included as a fact so the model never
// invents a percentage.
type ReportInput struct {
	WeekStart              string             `json:"week_start"`
	WeekEnd                string             `json:"week_end"`
	Deliveries             []ReportDelivery   `json:"deliveries"`
	Production             []ReportProduction `json:"production"`
	Sales                  []ReportSale       `json:"sales"`
	ProviderPrices         map[string]float64 `json:"provider_prices"`
	ReplenishedSacks       float64            `json:"replenished_sacks"`
	CurrentStockSacks      float64            `json:"current_stock_sacks"`
	PreviousWeekSalesTotal float64            `json:"previous_week_sales_total"`
	SalesTrendPct          *float64           `json:"sales_trend_pct"`
}

// ReportResult is the generated weekly report text.
type ReportResult struct {
	Summary     string `json:"summary"`
	TopProvider string `json:"top_provider"`
	TopClient   string `json:"top_client"`
	StockStatus string `json:"stock_status"`
}

type anthropicClient struct {
	httpClient *resty.Client
	now        func() time.Time
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client, now: time.Now}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// ParseDeliveries extracts a target date and (provider, quantity) pairs from
// a free-text command, matching names against the known provider list.
func (c *anthropicClient) ParseDeliveries(ctx context.Context, text string, providerNames []string) (DeliveryParse, error) {
	known, _ := json.Marshal(providerNames)

	systemPrompt := fmt.Sprintf(`You extract milk delivery records from a free-text command in Spanish or English.

	Known providers (JSON array): %s
	Today's date: %s

	RULES:
	- The command names one or more providers with the liters each delivered.
	- Match provider names against the known list case-insensitively, tolerating minor misspellings; output the name EXACTLY as written in the known list. A name matching nothing in the list is output as heard.
	- Resolve relative dates ("hoy", "ayer", "yesterday") against today's date. No date mentioned means today.
	- Quantities are positive numbers of liters.
	- Your output must be ONLY a JSON object with this structure:
	  {
		"date": "YYYY-MM-DD",
		"entries": [ {"provider": "name", "quantity": 12.5} ]
	  }
	- If no deliveries can be extracted, output {"date": "", "entries": []}.`, string(known), c.now().Format("2006-01-02"))

	var out DeliveryParse
	if err := c.complete(ctx, systemPrompt, text, &out); err != nil {
		return DeliveryParse{}, err
	}
	return out, nil
}

// ParseProvider extracts a new provider's details from free text.
func (c *anthropicClient) ParseProvider(ctx context.Context, text string) (ProviderParse, error) {
	systemPrompt := `You extract a new milk provider's details from a free-text description in Spanish or English.

	RULES:
	- Extract the provider's name, unit price per liter, postal address and phone.
	- Missing fields become "" (strings) or 0 (price).
	- Your output must be ONLY a JSON object with this structure:
	  {"name": "", "price": 0.0, "address": "", "phone": ""}`

	var out ProviderParse
	if err := c.complete(ctx, systemPrompt, text, &out); err != nil {
		return ProviderParse{}, err
	}
	return out, nil
}

// GenerateWeeklyReport produces a short natural-language weekly report from
// the supplied week snapshot.
func (c *anthropicClient) GenerateWeeklyReport(ctx context.Context, input ReportInput) (ReportResult, error) {
	facts, err := json.Marshal(input)
	if err != nil {
		return ReportResult{}, fmt.Errorf("encode report input: %w", err)
	}

	systemPrompt := `You write a short weekly business report for a dairy collection operation from the JSON facts the user provides.

	RULES:
	- "summary" is 3-5 sentences in Spanish covering deliveries, production, sales and stock.
	- "top_provider" is the provider with the highest delivered volume this week ("" if none).
	- "top_client" is the client with the highest purchase amount this week ("" if none).
	- "stock_status" is one short sentence about the whole-milk stock level.
	- If "sales_trend_pct" is null, say no comparison with the previous week is possible; never invent a percentage.
	- Use ONLY the provided facts. Your output must be ONLY a JSON object:
	  {"summary": "", "top_provider": "", "top_client": "", "stock_status": ""}`

	var out ReportResult
	if err := c.complete(ctx, systemPrompt, string(facts), &out); err != nil {
		return ReportResult{}, err
	}
	return out, nil
}

// complete performs one Messages API round trip, forcing JSON output by
// prefilling the assistant turn with an opening brace.
func (c *anthropicClient) complete(ctx context.Context, systemPrompt, userText string, dest any) error {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: userText},
			{Role: "assistant", Content: "{"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		return fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return fmt.Errorf("empty response from ai")
	}

	// Reconstruct the full JSON since the opening brace was prefilled.
	responseText := "{" + respBody.Content[0].Text

	// Clean up potential markdown code blocks if the model wraps the JSON.
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
	}
	responseText = strings.TrimSpace(responseText)

	if err := json.Unmarshal([]byte(responseText), dest); err != nil {
		return fmt.Errorf("failed to unmarshal ai response: %w. Response was: %s", err, responseText)
	}
	return nil
}
