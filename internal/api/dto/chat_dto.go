package dto

import (
	"github.com/spec-kit/parts-assistant/internal/domain"
)

const partSelectURL = "https://www.partselect.com/"

// ChatRequest is the POST /api/chat payload.
type ChatRequest struct {
	Message             string           `json:"message" validate:"notblank,max=2000"`
	ConversationHistory []HistoryMessage `json:"conversationHistory" validate:"dive"`
}

// HistoryMessage is one prior turn.
type HistoryMessage struct {
	Role    string `json:"role" validate:"oneof=user assistant"`
	Content string `json:"content" validate:"max=2000"`
}

// History converts the payload into domain messages.
func (r ChatRequest) History() []domain.ChatMessage {
	history := make([]domain.ChatMessage, 0, len(r.ConversationHistory))
	for _, m := range r.ConversationHistory {
		history = append(history, domain.ChatMessage{Role: domain.Role(m.Role), Content: m.Content})
	}
	return history
}

// Product is a catalog part as shown to the chat client.
type Product struct {
	domain.Part
	URL string `json:"url"`
}

// ChatResponse mirrors domain.ChatResponse with product links attached.
type ChatResponse struct {
	Message             string              `json:"message"`
	Products            []Product           `json:"products"`
	Intent              domain.Intent       `json:"intent"`
	ToolUsed            domain.ToolName     `json:"toolUsed,omitempty"`
	DataSource          domain.DataSource   `json:"dataSource,omitempty"`
	ShowTicketForm      bool                `json:"showTicketForm,omitempty"`
	PrefilledTicketData *domain.TicketDraft `json:"prefilledTicketData,omitempty"`
	TicketData          *TicketResponse     `json:"ticketData,omitempty"`
}

// IntentError marks chat replies produced by request failures.
const IntentError domain.Intent = "error"

// NewChatResponse attaches product URLs to resp.
func NewChatResponse(resp domain.ChatResponse) ChatResponse {
	products := make([]Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, NewProduct(p))
	}
	out := ChatResponse{
		Message:             resp.Message,
		Products:            products,
		Intent:              resp.Intent,
		ToolUsed:            resp.ToolUsed,
		DataSource:          resp.DataSource,
		ShowTicketForm:      resp.ShowTicketForm,
		PrefilledTicketData: resp.PrefilledTicketData,
	}
	if resp.TicketData != nil {
		t := NewTicketResponse(*resp.TicketData)
		out.TicketData = &t
	}
	return out
}

// ChatError is the reply body for rejected or failed chat turns.
func ChatError(message string) ChatResponse {
	return ChatResponse{Message: message, Products: []Product{}, Intent: IntentError}
}

// NewProduct links p to its PartSelect product page.
func NewProduct(p domain.Part) Product {
	return Product{Part: p, URL: ProductURL(p.PartNumber)}
}

// ProductURL is the PartSelect page for a part number.
func ProductURL(partNumber string) string {
	return partSelectURL + partNumber + "-.htm"
}
