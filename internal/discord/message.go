package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/gameshopnepal/backend/internal/models"
)

// Discord webhook payload types. Only the embed features the storefront uses
// are modelled.
type Message struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedAuthor struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
}

// Embed color per order status. Unknown statuses fall back to gray.
var statusColors = map[string]int{
	models.OrderStatusPending:    0xFFA500, // Orange
	models.OrderStatusProcessing: 0x3498DB, // Blue
	models.OrderStatusCompleted:  0x2ECC71, // Green
	models.OrderStatusCancelled:  0xE74C3C, // Red
}

var statusEmojis = map[string]string{
	models.OrderStatusPending:    "⏳",
	models.OrderStatusProcessing: "🔄",
	models.OrderStatusCompleted:  "✅",
	models.OrderStatusCancelled:  "❌",
}

const (
	defaultStatusColor = 0x95A5A6 // Gray
	defaultStatusEmoji = "📦"

	footerText = "GameShop Nepal - Order Management"

	productAuthorIcon = "https://cdn-icons-png.flaticon.com/512/869/869636.png"

	// Discord caps an embed field value at 1024 characters.
	maxFieldLength = 1024
)

func statusColor(status string) int {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return defaultStatusColor
}

func statusEmoji(status string) string {
	if e, ok := statusEmojis[status]; ok {
		return e
	}
	return defaultStatusEmoji
}

// shortOrderID returns the uppercased first 8 characters of an order id for
// embed titles.
func shortOrderID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// Contact labels already rendered as dedicated embed fields; remark lines with
// these labels are not extracted again.
var reservedRemarkLabels = map[string]bool{
	"name":  true,
	"email": true,
	"phone": true,
}

// splitRemark extracts "Label: Value" lines from a free-text remark into
// copy-friendly key/value fields and returns the remaining text. The remaining
// text is capped at the Discord field limit.
func splitRemark(remark string) ([]EmbedField, string) {
	var fields []EmbedField
	var rest []string

	for _, line := range strings.Split(remark, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		label, value, found := strings.Cut(trimmed, ":")
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)

		if !found || label == "" || len(label) > 32 || value == "" || reservedRemarkLabels[strings.ToLower(label)] {
			rest = append(rest, trimmed)
			continue
		}

		fields = append(fields, EmbedField{
			Name:   "🔑 " + label,
			Value:  fmt.Sprintf("`%s`", value),
			Inline: true,
		})
	}

	remaining := strings.Join(rest, "\n")
	if len(remaining) > maxFieldLength {
		remaining = remaining[:maxFieldLength]
	}
	return fields, remaining
}

// itemsDescription formats the order line items, one bullet per item.
// The variation segment is omitted when empty.
func itemsDescription(items []models.OrderItem) string {
	var b strings.Builder
	for _, raw := range items {
		item := raw.WithDefaults()
		variationText := ""
		if item.Variation != "" {
			variationText = fmt.Sprintf(" (%s)", item.Variation)
		}
		fmt.Fprintf(&b, "• **%dx** %s%s - Rs %s\n", item.Quantity, item.Name, variationText, formatAmount(item.Price))
	}
	return b.String()
}

// BuildOrderMessage produces the new-order announcement payload. It performs
// no I/O; missing order fields degrade to placeholders, never errors.
func BuildOrderMessage(order models.Order, product *models.Product) Message {
	o := order.WithDefaults()

	items := itemsDescription(o.Items)
	if items == "" {
		items = "No items"
	}

	emoji := statusEmoji(o.Status)

	embed := Embed{
		Title:       fmt.Sprintf("%s New Order - #%s", emoji, shortOrderID(o.ID)),
		Description: "A new order has been placed on GameShop Nepal!",
		Color:       statusColor(o.Status),
		Fields: []EmbedField{
			{Name: "👤 Customer Name", Value: o.CustomerName, Inline: true},
			{Name: "📧 Email", Value: o.CustomerEmail, Inline: true},
			{Name: "📱 Phone", Value: o.CustomerPhone, Inline: true},
			{Name: "📦 Order Items", Value: items, Inline: false},
			{Name: "💰 Total Amount", Value: fmt.Sprintf("**Rs %s**", formatAmount(o.TotalAmount)), Inline: true},
			{Name: "📊 Status", Value: fmt.Sprintf("%s %s", emoji, strings.ToUpper(o.Status)), Inline: true},
			{Name: "🆔 Order ID", Value: fmt.Sprintf("`%s`", o.ID), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &EmbedFooter{Text: footerText},
	}

	if strings.TrimSpace(o.Remark) != "" {
		callouts, rest := splitRemark(o.Remark)
		embed.Fields = append(embed.Fields, callouts...)
		if rest != "" {
			embed.Fields = append(embed.Fields, EmbedField{Name: "📝 Remarks", Value: rest, Inline: false})
		}
	}

	if product != nil {
		p := product.WithDefaults()
		if p.ImageURL != "" {
			embed.Thumbnail = &EmbedImage{URL: p.ImageURL}
		}
		embed.Author = &EmbedAuthor{
			Name:    fmt.Sprintf("Product: %s", p.Name),
			IconURL: productAuthorIcon,
		}
	}

	return Message{
		Content: "@everyone 🔔 **New Order Received!**",
		Embeds:  []Embed{embed},
	}
}

// BuildStatusChangeMessage produces the status-transition payload. The embed
// color follows the new status.
func BuildStatusChangeMessage(order models.Order, oldStatus, newStatus string) Message {
	o := order.WithDefaults()

	oldEmoji := statusEmoji(oldStatus)
	newEmoji := statusEmoji(newStatus)

	embed := Embed{
		Title: fmt.Sprintf("%s Order Status Changed - #%s", newEmoji, shortOrderID(o.ID)),
		Description: fmt.Sprintf("Status: %s **%s** → %s **%s**",
			oldEmoji, strings.ToUpper(oldStatus), newEmoji, strings.ToUpper(newStatus)),
		Color: statusColor(newStatus),
		Fields: []EmbedField{
			{Name: "👤 Customer", Value: o.CustomerName, Inline: true},
			{Name: "💰 Amount", Value: fmt.Sprintf("Rs %s", formatAmount(o.TotalAmount)), Inline: true},
			{Name: "🆔 Order ID", Value: fmt.Sprintf("`%s`", o.ID), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &EmbedFooter{Text: footerText},
	}

	return Message{
		Content: "@everyone 📢 **Order Status Updated!**",
		Embeds:  []Embed{embed},
	}
}
