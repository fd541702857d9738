package clients

import (
	"context"
	"strings"

	"elvalg/config"
	"elvalg/internal/logger"

	json "github.com/goccy/go-json"
	"google.golang.org/genai"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const chatInstruction = `Du er en rådgiver for en norsk tjeneste som sammenligner strømavtaler.
Svar kort og konkret på norsk. Forklar prisområder (NO1-NO5), spotpris, fastpris og
bindingstid når det er relevant. Ikke anbefal en bestemt leverandør, og be aldri om
personnummer eller betalingsopplysninger.`

const invoiceInstruction = `Les strømfakturaen og svar kun med JSON på formen
{"supplier": string, "product": string, "priceOrePerKwh": number|null,
"monthlyFeeNok": number|null, "consumptionKwh": number|null, "totalNok": number|null,
"postalCode": string, "periodStart": "YYYY-MM-DD"|"", "periodEnd": "YYYY-MM-DD"|""}.
Bruk null eller tom streng når en verdi ikke finnes på fakturaen.`

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type InvoiceAnalysis struct {
	Supplier       string   `json:"supplier"`
	Product        string   `json:"product"`
	PriceOrePerKWh *float64 `json:"priceOrePerKwh"`
	MonthlyFeeNOK  *float64 `json:"monthlyFeeNok"`
	ConsumptionKWh *float64 `json:"consumptionKwh"`
	TotalNOK       *float64 `json:"totalNok"`
	PostalCode     string   `json:"postalCode"`
	PeriodStart    string   `json:"periodStart"`
	PeriodEnd      string   `json:"periodEnd"`
}

type Assistant interface {
	Chat(ctx context.Context, history []ChatTurn, message string) (string, error)
	AnalyzeInvoice(ctx context.Context, data []byte, mimeType string) (*InvoiceAnalysis, error)
}

// GenAIAssistant answers chat questions and reads uploaded invoices through
// the Gemini API. Without an API key every call returns ErrNotConfigured.
type GenAIAssistant struct {
	client *genai.Client
	model  string
	log    logger.Logger
}

func NewAssistant(ctx context.Context, config config.Config) (*GenAIAssistant, error) {
	log := logger.New("assistant").Function("NewAssistant")

	assistant := &GenAIAssistant{model: config.GenAIModel, log: logger.New("assistant")}
	if config.GenAIAPIKey == "" {
		log.Warn("GenAI API key is empty, assistant disabled")
		return assistant, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GenAIAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, log.Err("failed to create GenAI client", err)
	}

	assistant.client = client
	return assistant, nil
}

func (a *GenAIAssistant) Chat(ctx context.Context, history []ChatTurn, message string) (string, error) {
	log := a.log.Function("Chat")

	if a.client == nil {
		return "", ErrNotConfigured
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.4),
		MaxOutputTokens:   1024,
	})
	if err != nil {
		return "", log.Err("failed to generate chat reply", err, "turns", len(contents))
	}

	return strings.TrimSpace(result.Text()), nil
}

func (a *GenAIAssistant) AnalyzeInvoice(ctx context.Context, data []byte, mimeType string) (*InvoiceAnalysis, error) {
	log := a.log.Function("AnalyzeInvoice")

	if a.client == nil {
		return nil, ErrNotConfigured
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(invoiceInstruction),
	}, genai.RoleUser)

	result, err := a.client.Models.GenerateContent(ctx, a.model, []*genai.Content{content}, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, log.Err("failed to analyze invoice", err, "mimeType", mimeType, "bytes", len(data))
	}

	analysis, err := ParseInvoiceAnalysis(result.Text())
	if err != nil {
		return nil, log.Err("failed to decode invoice analysis", err)
	}

	return analysis, nil
}

// ParseInvoiceAnalysis decodes the model's JSON answer, tolerating a
// surrounding markdown code fence.
func ParseInvoiceAnalysis(text string) (*InvoiceAnalysis, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var analysis InvoiceAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}
