package settings

import (
	"os"
	"strconv"
)

// Category groups related settings keys. The admin UI edits one category at a
// time and the resolver exposes one typed struct per category.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryBranding      Category = "branding"
	CategoryEmail         Category = "email"
	CategoryPayments      Category = "payments"
	CategoryStorage       Category = "storage"
	CategorySecurity      Category = "security"
	CategoryNotifications Category = "notifications"
	CategoryIntegrations  Category = "integrations"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryGeneral,
	CategoryBranding,
	CategoryEmail,
	CategoryPayments,
	CategoryStorage,
	CategorySecurity,
	CategoryNotifications,
	CategoryIntegrations,
}

// Known reports whether c is a recognized category.
func Known(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// General holds site-wide settings
type General struct {
	SiteName        string `json:"siteName"`
	Tagline         string `json:"tagline"`
	ContactEmail    string `json:"contactEmail"`
	ContactPhone    string `json:"contactPhone"`
	Address         string `json:"address"`
	OfficeHours     string `json:"officeHours"`
	MaintenanceMode bool   `json:"maintenanceMode"`
}

// Branding holds look-and-feel settings
type Branding struct {
	LogoURL        string `json:"logoUrl"`
	FaviconURL     string `json:"faviconUrl"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FooterText     string `json:"footerText"`
}

// Email holds SMTP transporter settings
type Email struct {
	SMTPHost     string `json:"smtpHost"`
	SMTPPort     int    `json:"smtpPort"`
	SMTPSecure   bool   `json:"smtpSecure"`
	SMTPUsername string `json:"smtpUsername"`
	SMTPPassword string `json:"smtpPassword"`
	FromEmail    string `json:"fromEmail"`
	FromName     string `json:"fromName"`
	ReplyTo      string `json:"replyTo"`
}

// Payments holds payment gateway settings
type Payments struct {
	EnableStripe         bool    `json:"enableStripe"`
	StripeSecretKey      string  `json:"stripeSecretKey"`
	StripePublishableKey string  `json:"stripePublishableKey"`
	StripeWebhookSecret  string  `json:"stripeWebhookSecret"`
	EnableRazorpay       bool    `json:"enableRazorpay"`
	RazorpayKeyID        string  `json:"razorpayKeyId"`
	RazorpayKeySecret    string  `json:"razorpayKeySecret"`
	Currency             string  `json:"currency"`
	ConsultationFee      float64 `json:"consultationFee"`
}

// Storage holds upload storage settings
type Storage struct {
	Provider           string   `json:"provider"` // s3 or local
	AWSAccessKeyID     string   `json:"awsAccessKeyId"`
	AWSSecretAccessKey string   `json:"awsSecretAccessKey"`
	AWSRegion          string   `json:"awsRegion"`
	AWSS3Bucket        string   `json:"awsS3Bucket"`
	AWSEndpoint        string   `json:"awsEndpoint"` // for S3-compatible stores
	ForcePathStyle     bool     `json:"forcePathStyle"`
	MaxFileSizeMB      int      `json:"maxFileSizeMb"`
	AllowedFileTypes   []string `json:"allowedFileTypes"`
}

// Security holds back-office security settings
type Security struct {
	EnableTwoFactor       bool `json:"enableTwoFactor"`
	SessionTimeoutMinutes int  `json:"sessionTimeoutMinutes"`
	PasswordMinLength     int  `json:"passwordMinLength"`
	MaxLoginAttempts      int  `json:"maxLoginAttempts"`
}

// Notifications holds outbound notification settings
type Notifications struct {
	EnableEmailNotifications bool   `json:"enableEmailNotifications"`
	AdminEmail               string `json:"adminEmail"`
	NotifyOnAppointment      bool   `json:"notifyOnAppointment"`
	NotifyOnPayment          bool   `json:"notifyOnPayment"`
}

// Integrations holds third-party tracking and webhook settings
type Integrations struct {
	GoogleAnalyticsID string `json:"googleAnalyticsId"`
	FacebookPixelID   string `json:"facebookPixelId"`
	WhatsAppNumber    string `json:"whatsappNumber"`
	CRMWebhookURL     string `json:"crmWebhookUrl"`
}

// Resolved is the merged view of every category. Every field always carries a
// value: the hard-coded default, an environment seed, or a persisted override.
type Resolved struct {
	General       General       `json:"general"`
	Branding      Branding      `json:"branding"`
	Email         Email         `json:"email"`
	Payments      Payments      `json:"payments"`
	Storage       Storage       `json:"storage"`
	Security      Security      `json:"security"`
	Notifications Notifications `json:"notifications"`
	Integrations  Integrations  `json:"integrations"`
}

// Defaults returns the base Resolved object: hard-coded defaults with
// environment-variable seeds for secrets and hosts. Persisted rows are merged
// on top of this; if the store is unreachable this object is what callers get.
func Defaults() *Resolved {
	return &Resolved{
		General: General{
			SiteName:     "GlobalPath Education",
			Tagline:      "Your journey to studying abroad starts here",
			ContactEmail: envOr("CONTACT_EMAIL", "hello@globalpath.example"),
			ContactPhone: "",
			Address:      "",
			OfficeHours:  "Mon-Fri 9:00-18:00",
		},
		Branding: Branding{
			LogoURL:        "/assets/img/logo.svg",
			FaviconURL:     "/assets/img/favicon.ico",
			PrimaryColor:   "#0b5fff",
			SecondaryColor: "#12b886",
			FooterText:     "© GlobalPath Education. All rights reserved.",
		},
		Email: Email{
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     envOrInt("SMTP_PORT", 587),
			SMTPSecure:   false,
			SMTPUsername: os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			FromEmail:    envOr("SMTP_FROM_EMAIL", "no-reply@globalpath.example"),
			FromName:     envOr("SMTP_FROM_NAME", "GlobalPath Education"),
			ReplyTo:      "",
		},
		Payments: Payments{
			EnableStripe:         false,
			StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
			StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
			StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
			EnableRazorpay:       false,
			RazorpayKeyID:        os.Getenv("RAZORPAY_KEY_ID"),
			RazorpayKeySecret:    os.Getenv("RAZORPAY_KEY_SECRET"),
			Currency:             "usd",
			ConsultationFee:      0,
		},
		Storage: Storage{
			Provider:           envOr("STORAGE_PROVIDER", "local"),
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			AWSRegion:          envOr("AWS_REGION", "us-east-1"),
			AWSS3Bucket:        os.Getenv("AWS_S3_BUCKET"),
			AWSEndpoint:        os.Getenv("AWS_S3_ENDPOINT"),
			ForcePathStyle:     false,
			MaxFileSizeMB:      10,
			AllowedFileTypes:   []string{".jpg", ".jpeg", ".png", ".webp", ".pdf", ".doc", ".docx"},
		},
		Security: Security{
			EnableTwoFactor:       false,
			SessionTimeoutMinutes: 60,
			PasswordMinLength:     8,
			MaxLoginAttempts:      5,
		},
		Notifications: Notifications{
			EnableEmailNotifications: true,
			AdminEmail:               os.Getenv("ADMIN_EMAIL"),
			NotifyOnAppointment:      true,
			NotifyOnPayment:          true,
		},
		Integrations: Integrations{
			GoogleAnalyticsID: os.Getenv("GA_MEASUREMENT_ID"),
			FacebookPixelID:   os.Getenv("FB_PIXEL_ID"),
			WhatsAppNumber:    "",
			CRMWebhookURL:     "",
		},
	}
}

// categoryTarget returns a pointer to the category struct inside r, or nil for
// an unknown category.
func (r *Resolved) categoryTarget(c Category) interface{} {
	switch c {
	case CategoryGeneral:
		return &r.General
	case CategoryBranding:
		return &r.Branding
	case CategoryEmail:
		return &r.Email
	case CategoryPayments:
		return &r.Payments
	case CategoryStorage:
		return &r.Storage
	case CategorySecurity:
		return &r.Security
	case CategoryNotifications:
		return &r.Notifications
	case CategoryIntegrations:
		return &r.Integrations
	default:
		return nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
