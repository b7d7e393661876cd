package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration.
type Config struct {
	// Browser
	BrowserBin        string        `koanf:"OFFERSCRAP_BROWSER_BIN"`
	BrowserURL        string        `koanf:"OFFERSCRAP_BROWSER_URL" validate:"omitempty,url"`
	Headless          bool          `koanf:"OFFERSCRAP_HEADLESS"`
	ViewportWidth     int           `koanf:"OFFERSCRAP_VIEWPORT_WIDTH" validate:"gte=320,lte=3840"`
	ViewportHeight    int           `koanf:"OFFERSCRAP_VIEWPORT_HEIGHT" validate:"gte=240,lte=2160"`
	NavigationTimeout time.Duration `koanf:"OFFERSCRAP_NAV_TIMEOUT" validate:"gt=0"`
	CardTimeout       time.Duration `koanf:"OFFERSCRAP_CARD_TIMEOUT" validate:"gt=0"`

	// Scrolling
	ScrollStableRounds int           `koanf:"OFFERSCRAP_SCROLL_STABLE_ROUNDS" validate:"gte=1,lte=50"`
	ScrollMaxRounds    int           `koanf:"OFFERSCRAP_SCROLL_MAX_ROUNDS" validate:"gtefield=ScrollStableRounds,lte=500"`
	ScrollSettle       time.Duration `koanf:"OFFERSCRAP_SCROLL_SETTLE" validate:"gte=0"`

	// Stores
	WillysStore string `koanf:"OFFERSCRAP_WILLYS_STORE" validate:"required"`

	// Pacing
	RespectRobots bool    `koanf:"OFFERSCRAP_RESPECT_ROBOTS"`
	DelayProfile  string  `koanf:"OFFERSCRAP_DELAY_PROFILE" validate:"oneof=cautious normal aggressive off"`
	RatePerSecond float64 `koanf:"OFFERSCRAP_RATE_PER_SECOND" validate:"gt=0"`
	RateBurst     int     `koanf:"OFFERSCRAP_RATE_BURST" validate:"gte=1"`

	// HTTP server
	HTTPPort string `koanf:"PORT" validate:"required,numeric"`
	APIKey   string `koanf:"OFFERSCRAP_API_KEY"`

	// Proxy
	ProxyMode      string `koanf:"OFFERSCRAP_PROXY_MODE" validate:"oneof=direct decodo custom"`
	ProxyURL       string `koanf:"OFFERSCRAP_PROXY_URL" validate:"required_if=ProxyMode custom"`
	DecodoUsername string `koanf:"DECODO_USERNAME" validate:"required_if=ProxyMode decodo"`
	DecodoPassword string `koanf:"DECODO_PASSWORD" validate:"required_if=ProxyMode decodo"`
	DecodoCountry  string `koanf:"DECODO_COUNTRY"`
	DecodoCity     string `koanf:"DECODO_CITY"`

	// Logging
	LogLevel      string `koanf:"OFFERSCRAP_LOG_LEVEL" validate:"oneof=trace debug info warn warning error"`
	LogFile       string `koanf:"OFFERSCRAP_LOG_FILE"`
	LogMaxSizeMB  int    `koanf:"OFFERSCRAP_LOG_MAX_SIZE_MB" validate:"gte=1"`
	LogMaxBackups int    `koanf:"OFFERSCRAP_LOG_MAX_BACKUPS" validate:"gte=0"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Headless:           true,
		ViewportWidth:      1280,
		ViewportHeight:     800,
		NavigationTimeout:  45 * time.Second,
		CardTimeout:        15 * time.Second,
		ScrollStableRounds: 6,
		ScrollMaxRounds:    60,
		ScrollSettle:       450 * time.Millisecond,
		WillysStore:        "Willys Växjö I11",
		RespectRobots:      true,
		DelayProfile:       "normal",
		RatePerSecond:      0.5,
		RateBurst:          1,
		HTTPPort:           "8080",
		ProxyMode:          "direct",
		DecodoCountry:      "se",
		LogLevel:           "info",
		LogMaxSizeMB:       50,
		LogMaxBackups:      5,
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from the
// environment variables named by the koanf struct tags. Blank variables are
// ignored. Values that do not parse are reported together.
func (c *Config) LoadFromEnv() error {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(c, "koanf"), nil); err != nil {
		return fmt.Errorf("load current settings: %w", err)
	}

	ek := koanf.New(".")
	err := ek.Load(env.Provider("", ".", func(s string) string {
		if !k.Exists(s) {
			return ""
		}
		return s
	}), nil)
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	for key, val := range ek.All() {
		raw := strings.TrimSpace(fmt.Sprint(val))
		if raw == "" {
			continue
		}
		if err := k.Set(key, raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	return k.UnmarshalWithConf("", c, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       durationHook,
			WeaklyTypedInput: true,
			Result:           c,
		},
	})
}

var durationType = reflect.TypeOf(time.Duration(0))

// durationHook decodes string durations in Go syntax or as bare milliseconds.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType || from.Kind() != reflect.String {
		return data, nil
	}
	return parseDuration(strings.TrimSpace(data.(string)))
}

// parseDuration accepts Go duration syntax or a bare number of milliseconds.
func parseDuration(raw string) (time.Duration, error) {
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(raw)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report env names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("koanf"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate checks the configuration and names the first offending setting.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Errorf("invalid configuration: %s=%v fails %q", first.Field(), first.Value(), tagWithParam(first))
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
