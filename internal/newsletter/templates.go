package newsletter

// Template is an immutable preset newsletter template. Subject and Body hold
// literal {name} placeholders. Variables documents the inputs an operator is
// expected to supply; it is not enforced at render time.
type Template struct {
	ID          string
	Name        string
	Description string
	Subject     string
	Variables   []string
	Body        string
}

// TemplateInfo is the public metadata returned to the admin UI.
type TemplateInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Variables   []string `json:"variables"`
	Subject     string   `json:"subject"`
}

// Registry holds the fixed template set, built once at startup.
type Registry struct {
	templates []Template
	byID      map[string]*Template
}

// NewRegistry returns the registry of preset storefront templates.
func NewRegistry() *Registry {
	r := &Registry{
		templates: []Template{
			{
				ID:          "new_product",
				Name:        "New Product Launch",
				Description: "Announce a new product to your customers",
				Subject:     "🚀 New Product Alert: {product_name} is Here!",
				Variables:   []string{"product_name", "product_description", "product_price", "product_image", "product_link"},
				Body:        newProductBody,
			},
			{
				ID:          "sale_announcement",
				Name:        "Sale Announcement",
				Description: "Announce a sale or special discount",
				Subject:     "🔥 {sale_name} - Up to {discount_percent}% OFF!",
				Variables:   []string{"sale_name", "discount_percent", "sale_description", "end_date", "shop_link"},
				Body:        saleAnnouncementBody,
			},
			{
				ID:          "weekly_update",
				Name:        "Weekly Update",
				Description: "Weekly newsletter with updates and highlights",
				Subject:     "📬 This Week at GameShop Nepal",
				Variables:   []string{"greeting_text", "highlight_1", "highlight_2", "highlight_3", "featured_product", "featured_price", "shop_link"},
				Body:        weeklyUpdateBody,
			},
			{
				ID:          "restock_alert",
				Name:        "Restock Alert",
				Description: "Notify customers about restocked products",
				Subject:     "🔔 {product_name} is Back in Stock!",
				Variables:   []string{"product_name", "product_description", "product_price", "shop_link"},
				Body:        restockAlertBody,
			},
			{
				ID:          "custom",
				Name:        "Custom Email",
				Description: "Create a custom newsletter from scratch",
				Subject:     "{subject}",
				Variables:   []string{"subject", "heading", "body_text", "button_text", "button_link"},
				Body:        customBody,
			},
		},
	}

	r.byID = make(map[string]*Template, len(r.templates))
	for i := range r.templates {
		r.byID[r.templates[i].ID] = &r.templates[i]
	}
	return r
}

// List returns the public metadata of all templates in registration order.
func (r *Registry) List() []TemplateInfo {
	infos := make([]TemplateInfo, 0, len(r.templates))
	for _, t := range r.templates {
		infos = append(infos, TemplateInfo{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Variables:   t.Variables,
			Subject:     t.Subject,
		})
	}
	return infos
}

// Get looks up a template by id.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

const newProductBody = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Arial, sans-serif; background-color: #000000; color: #ffffff;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <!-- Header -->
        <div style="text-align: center; padding: 30px 0; border-bottom: 2px solid #F5A623;">
            <h1 style="margin: 0; color: #F5A623; font-size: 28px; font-weight: bold;">GSN</h1>
            <p style="margin: 10px 0 0; color: #888;">GameShop Nepal</p>
        </div>

        <!-- New Product Banner -->
        <div style="text-align: center; padding: 40px 20px; background: linear-gradient(135deg, #1a1a1a 0%, #0a0a0a 100%); margin: 20px 0; border-radius: 12px; border: 1px solid #F5A623;">
            <span style="background: #F5A623; color: #000; padding: 5px 15px; border-radius: 20px; font-size: 12px; font-weight: bold;">NEW ARRIVAL</span>
            <h2 style="color: #ffffff; font-size: 32px; margin: 20px 0 10px;">{product_name}</h2>
            <p style="color: #888; font-size: 16px; margin: 0;">{product_description}</p>
        </div>

        <!-- Product Image -->
        {product_image_section}

        <!-- Price & CTA -->
        <div style="text-align: center; padding: 30px 0;">
            <p style="color: #F5A623; font-size: 36px; font-weight: bold; margin: 0 0 20px;">Rs {product_price}</p>
            <a href="{product_link}" style="display: inline-block; background: #F5A623; color: #000; padding: 15px 50px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 16px;">
                Shop Now →
            </a>
        </div>

        <!-- Footer -->
        <div style="text-align: center; padding: 30px 0; border-top: 1px solid #2a2a2a; margin-top: 20px;">
            <p style="color: #666; margin: 5px 0; font-size: 12px;">GameShop Nepal - Your Trusted Digital Store</p>
            <p style="color: #666; margin: 5px 0; font-size: 11px;">
                <a href="{unsubscribe_link}" style="color: #666;">Unsubscribe</a> | <a href="{website_link}" style="color: #666;">Visit Website</a>
            </p>
        </div>
    </div>
</body>
</html>
`

const saleAnnouncementBody = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Arial, sans-serif; background-color: #000000; color: #ffffff;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <!-- Header -->
        <div style="text-align: center; padding: 30px 0; border-bottom: 2px solid #F5A623;">
            <h1 style="margin: 0; color: #F5A623; font-size: 28px; font-weight: bold;">GSN</h1>
        </div>

        <!-- Sale Banner -->
        <div style="text-align: center; padding: 50px 20px; background: linear-gradient(135deg, #F5A623 0%, #FF6B35 100%); margin: 20px 0; border-radius: 12px;">
            <h2 style="color: #000; font-size: 42px; margin: 0; font-weight: 900;">{sale_name}</h2>
            <p style="color: #000; font-size: 72px; font-weight: 900; margin: 10px 0;">{discount_percent}% OFF</p>
            <p style="color: #000; font-size: 16px; margin: 0;">{sale_description}</p>
        </div>

        <!-- Countdown -->
        <div style="text-align: center; padding: 20px; background: #1a1a1a; border-radius: 8px; margin: 20px 0;">
            <p style="color: #F5A623; margin: 0; font-size: 14px;">⏰ Sale ends: <strong>{end_date}</strong></p>
        </div>

        <!-- CTA -->
        <div style="text-align: center; padding: 30px 0;">
            <a href="{shop_link}" style="display: inline-block; background: #F5A623; color: #000; padding: 18px 60px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 18px;">
                SHOP THE SALE →
            </a>
        </div>

        <!-- Footer -->
        <div style="text-align: center; padding: 30px 0; border-top: 1px solid #2a2a2a; margin-top: 20px;">
            <p style="color: #666; margin: 5px 0; font-size: 12px;">GameShop Nepal</p>
            <p style="color: #666; margin: 5px 0; font-size: 11px;">
                <a href="{unsubscribe_link}" style="color: #666;">Unsubscribe</a>
            </p>
        </div>
    </div>
</body>
</html>
`

const weeklyUpdateBody = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Arial, sans-serif; background-color: #000000; color: #ffffff;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <!-- Header -->
        <div style="text-align: center; padding: 30px 0; border-bottom: 2px solid #F5A623;">
            <h1 style="margin: 0; color: #F5A623; font-size: 28px; font-weight: bold;">GSN Weekly</h1>
            <p style="margin: 10px 0 0; color: #888;">Your Digital Products Update</p>
        </div>

        <!-- Greeting -->
        <div style="padding: 30px 0;">
            <p style="color: #cccccc; font-size: 16px; line-height: 1.8;">{greeting_text}</p>
        </div>

        <!-- Highlights -->
        <div style="background: #0A0A0A; border: 1px solid #2a2a2a; border-radius: 12px; padding: 25px; margin: 20px 0;">
            <h3 style="color: #F5A623; margin: 0 0 20px; font-size: 18px;">📌 This Week's Highlights</h3>
            <ul style="color: #cccccc; line-height: 2.2; padding-left: 20px; margin: 0;">
                <li>{highlight_1}</li>
                <li>{highlight_2}</li>
                <li>{highlight_3}</li>
            </ul>
        </div>

        <!-- Featured Product -->
        <div style="text-align: center; padding: 30px; background: linear-gradient(135deg, #1a1a1a 0%, #0a0a0a 100%); border-radius: 12px; border: 1px solid #F5A623; margin: 20px 0;">
            <span style="color: #F5A623; font-size: 12px; text-transform: uppercase; letter-spacing: 2px;">Featured This Week</span>
            <h3 style="color: #fff; font-size: 24px; margin: 15px 0;">{featured_product}</h3>
            <p style="color: #F5A623; font-size: 28px; font-weight: bold; margin: 10px 0;">Rs {featured_price}</p>
            <a href="{shop_link}" style="display: inline-block; background: #F5A623; color: #000; padding: 12px 35px; text-decoration: none; border-radius: 6px; font-weight: bold; margin-top: 15px;">
                View Product
            </a>
        </div>

        <!-- Footer -->
        <div style="text-align: center; padding: 30px 0; border-top: 1px solid #2a2a2a; margin-top: 20px;">
            <p style="color: #888; margin: 5px 0;">See you next week! 👋</p>
            <p style="color: #666; margin: 15px 0 5px; font-size: 11px;">
                <a href="{unsubscribe_link}" style="color: #666;">Unsubscribe</a> | <a href="{website_link}" style="color: #666;">Visit Store</a>
            </p>
        </div>
    </div>
</body>
</html>
`

const restockAlertBody = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Arial, sans-serif; background-color: #000000; color: #ffffff;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <!-- Header -->
        <div style="text-align: center; padding: 30px 0; border-bottom: 2px solid #F5A623;">
            <h1 style="margin: 0; color: #F5A623; font-size: 28px; font-weight: bold;">GSN</h1>
        </div>

        <!-- Alert Banner -->
        <div style="text-align: center; padding: 40px 20px; background: #0A0A0A; border: 2px solid #10B981; margin: 20px 0; border-radius: 12px;">
            <span style="background: #10B981; color: #fff; padding: 8px 20px; border-radius: 20px; font-size: 14px; font-weight: bold;">✓ BACK IN STOCK</span>
            <h2 style="color: #ffffff; font-size: 28px; margin: 25px 0 10px;">{product_name}</h2>
            <p style="color: #888; font-size: 14px; margin: 0;">{product_description}</p>
            <p style="color: #F5A623; font-size: 32px; font-weight: bold; margin: 20px 0;">Rs {product_price}</p>
        </div>

        <!-- CTA -->
        <div style="text-align: center; padding: 20px 0;">
            <p style="color: #888; margin-bottom: 20px;">⚡ Limited stock available - Order now!</p>
            <a href="{shop_link}" style="display: inline-block; background: #10B981; color: #fff; padding: 15px 50px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 16px;">
                Order Now →
            </a>
        </div>

        <!-- Footer -->
        <div style="text-align: center; padding: 30px 0; border-top: 1px solid #2a2a2a; margin-top: 20px;">
            <p style="color: #666; margin: 5px 0; font-size: 12px;">GameShop Nepal</p>
            <p style="color: #666; margin: 5px 0; font-size: 11px;">
                <a href="{unsubscribe_link}" style="color: #666;">Unsubscribe</a>
            </p>
        </div>
    </div>
</body>
</html>
`

const customBody = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Arial, sans-serif; background-color: #000000; color: #ffffff;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <!-- Header -->
        <div style="text-align: center; padding: 30px 0; border-bottom: 2px solid #F5A623;">
            <h1 style="margin: 0; color: #F5A623; font-size: 28px; font-weight: bold;">GSN</h1>
            <p style="margin: 10px 0 0; color: #888;">GameShop Nepal</p>
        </div>

        <!-- Content -->
        <div style="padding: 40px 20px;">
            <h2 style="color: #F5A623; font-size: 28px; margin: 0 0 20px; text-align: center;">{heading}</h2>
            <div style="color: #cccccc; font-size: 16px; line-height: 1.8;">
                {body_text}
            </div>
        </div>

        <!-- CTA Button -->
        {button_section}

        <!-- Footer -->
        <div style="text-align: center; padding: 30px 0; border-top: 1px solid #2a2a2a; margin-top: 30px;">
            <p style="color: #666; margin: 5px 0; font-size: 12px;">GameShop Nepal - Your Trusted Digital Store</p>
            <p style="color: #666; margin: 5px 0; font-size: 11px;">
                <a href="{unsubscribe_link}" style="color: #666;">Unsubscribe</a> | <a href="{website_link}" style="color: #666;">Visit Website</a>
            </p>
        </div>
    </div>
</body>
</html>
`
