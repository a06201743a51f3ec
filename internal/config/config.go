package config

import (
	"os"
	"strings"
)

type Config struct {
	// HTTP
	Port    string
	SiteURL string

	// Admin API
	AuthSecret    string
	AdminPassword string

	// Prodamus (Scheme A)
	ProdamusFormURL   string
	ProdamusSecretKey string

	// WayForPay (Scheme B)
	WayForPayMerchantAccount string
	WayForPaySecretKey       string
	WayForPayPayURL          string

	// Telegram
	BotToken    string
	BotUsername string
	AdminChatID string

	// Storage
	RedisURL string
	DBPath   string
}

func Load() *Config {
	return &Config{
		// HTTP
		Port:    getEnv("PORT", "8080"),
		SiteURL: strings.TrimSuffix(getEnv("SITE_URL", "https://your-site.vercel.app"), "/"),

		// Admin API
		AuthSecret:    getEnv("AUTH_SECRET", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		// Prodamus
		ProdamusFormURL:   getEnv("PRODAMUS_FORM_URL", ""),
		ProdamusSecretKey: getEnv("PRODAMUS_SECRET_KEY", ""),

		// WayForPay (defaults are the public sandbox credentials)
		WayForPayMerchantAccount: getEnv("WAYFORPAY_MERCHANT_ACCOUNT", "test_merch_n1"),
		WayForPaySecretKey:       getEnv("WAYFORPAY_SECRET_KEY", "flk3409refn54t54t*FNJret"),
		WayForPayPayURL:          getEnv("WAYFORPAY_PAY_URL", "https://secure.wayforpay.com/pay"),

		// Telegram
		BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotUsername: getEnv("TELEGRAM_BOT_USERNAME", "your_marathon_bot"),
		AdminChatID: getEnv("TELEGRAM_ADMIN_CHAT_ID", ""),

		// Storage
		RedisURL: getEnv("REDIS_URL", ""),
		DBPath:   getEnv("DB_PATH", "./landing.db"),
	}
}

// MerchantDomain returns the hostname part of SiteURL; WayForPay expects
// merchantDomainName without a scheme.
func (c *Config) MerchantDomain() string {
	domain := c.SiteURL
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
