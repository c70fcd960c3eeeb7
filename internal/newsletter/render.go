package newsletter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplateNotFound is returned by Render for an unknown template id.
var ErrTemplateNotFound = errors.New("template not found")

// Reserved variable names injected by the renderer. Caller-supplied values of
// the same name are overwritten.
const (
	varUnsubscribeLink = "unsubscribe_link"
	varWebsiteLink     = "website_link"
	varImageSection    = "product_image_section"
	varButtonSection   = "button_section"
)

const productImageSectionHTML = `
            <div style="text-align: center; margin: 20px 0;">
                <img src="%s" alt="%s"
                     style="max-width: 100%%; height: auto; border-radius: 12px; border: 1px solid #2a2a2a;">
            </div>
            `

const buttonSectionHTML = `
            <div style="text-align: center; padding: 20px 0;">
                <a href="%s" style="display: inline-block; background: #F5A623; color: #000; padding: 15px 50px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 16px;">
                    %s
                </a>
            </div>
            `

// Render produces the subject and HTML body of one message. It injects the
// computed defaults (unsubscribe and website links, conditional fragments) and
// then substitutes every literal {name} placeholder whose name is present in
// the augmented variable bag. Placeholders without a matching variable stay
// verbatim; substituted values are never re-scanned, so braces inside values
// survive untouched.
func (r *Registry) Render(templateID string, variables map[string]string, baseURL string) (string, string, error) {
	t, ok := r.byID[templateID]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	vars := make(map[string]string, len(variables)+4)
	for k, v := range variables {
		vars[k] = v
	}
	vars[varUnsubscribeLink] = baseURL + "/unsubscribe"
	vars[varWebsiteLink] = baseURL

	switch t.ID {
	case "new_product":
		if img := vars["product_image"]; img != "" {
			alt := vars["product_name"]
			if alt == "" {
				alt = "Product"
			}
			vars[varImageSection] = fmt.Sprintf(productImageSectionHTML, img, alt)
		} else {
			vars[varImageSection] = ""
		}
	case "custom":
		if vars["button_text"] != "" && vars["button_link"] != "" {
			vars[varButtonSection] = fmt.Sprintf(buttonSectionHTML, vars["button_link"], vars["button_text"])
		} else {
			vars[varButtonSection] = ""
		}
	}

	return substitute(t.Subject, vars), substitute(t.Body, vars), nil
}

// substitute performs a single left-to-right pass over pattern, replacing each
// {name} whose name exists in vars. Unmatched placeholders (and stray braces)
// are emitted as-is.
func substitute(pattern string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(pattern))

	i := 0
	for i < len(pattern) {
		open := strings.IndexByte(pattern[i:], '{')
		if open < 0 {
			b.WriteString(pattern[i:])
			break
		}
		open += i

		closing := strings.IndexByte(pattern[open:], '}')
		if closing < 0 {
			b.WriteString(pattern[i:])
			break
		}
		closing += open

		name := pattern[open+1 : closing]
		if val, ok := vars[name]; ok {
			b.WriteString(pattern[i:open])
			b.WriteString(val)
			i = closing + 1
		} else {
			b.WriteString(pattern[i : open+1])
			i = open + 1
		}
	}
	return b.String()
}
