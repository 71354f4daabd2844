package notify

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/mstgnz/paybridge/provider"
	"github.com/shopspring/decimal"
)

//go:embed "templates"
var templateFS embed.FS

const (
	ownerOrderTemplate = "owner_order.tmpl"
	notProvided        = "not provided"
)

// Message is one rendered owner notification
type Message struct {
	To      string
	Subject string
	Body    string
}

type messageItem struct {
	Name      string
	Quantity  int64
	LineTotal string
}

type messageData struct {
	StoreName string
	Total     string
	Currency  string
	Method    string
	Reference string
	Items     []messageItem
	Email     string
	Instagram string
	Phone     string
}

func parseTemplates() (*template.Template, error) {
	return template.New("owner").ParseFS(templateFS, "templates/"+ownerOrderTemplate)
}

func newMessageData(storeName string, event *provider.WebhookEvent) messageData {
	data := messageData{
		StoreName: storeName,
		Total:     orPlaceholder(event.Total),
		Currency:  event.Currency,
		Method:    orPlaceholder(string(event.Method)),
		Reference: orPlaceholder(event.Reference),
		Email:     orPlaceholder(event.CustomerEmail),
		Instagram: orPlaceholder(event.CustomerInstagram),
		Phone:     orPlaceholder(event.CustomerPhone),
	}

	for _, item := range event.Items {
		data.Items = append(data.Items, messageItem{
			Name:      orPlaceholder(item.Name),
			Quantity:  item.Quantity,
			LineTotal: lineTotal(item),
		})
	}

	return data
}

// lineTotal multiplies the reported unit price by the quantity
func lineTotal(item provider.EventItem) string {
	price, err := decimal.NewFromString(item.Price)
	if err != nil {
		return notProvided
	}
	return price.Mul(decimal.NewFromInt(item.Quantity)).StringFixed(2)
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return notProvided
	}
	return value
}

func render(tmpl *template.Template, to, storeName string, event *provider.WebhookEvent) (*Message, error) {
	data := newMessageData(storeName, event)

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return nil, err
	}

	return &Message{
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	}, nil
}
