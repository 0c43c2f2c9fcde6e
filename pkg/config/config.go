package config

import (
	"time"
)

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"0.0.0.0"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Gateway configures the MBLaos banking gateway client.
type Gateway struct {
	BaseUrl     string `envconfig:"BASE_URL" required:"true"`
	PhoneNumber string `envconfig:"PHONE_NUMBER" required:"true"`
	Password    string `envconfig:"PASSWORD" required:"true"`
	// SealKey is the hex-encoded 32-byte key used to seal the password
	// into the opaque blob the gateway login endpoint expects.
	SealKey     string        `envconfig:"SEAL_KEY" required:"true"`
	Currency    string        `envconfig:"CURRENCY" default:"LAK"`
	ClientIp    string        `envconfig:"CLIENT_IP" default:"127.0.0.1"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
}

// Poll bounds the status poller. The legacy clients polled every 5s
// forever; the poller here backs off and gives up after MaxElapsedTime.
type Poll struct {
	InitialInterval time.Duration `envconfig:"INITIAL_INTERVAL" default:"5s"`
	Multiplier      float64       `envconfig:"MULTIPLIER" default:"1.6"`
	MaxInterval     time.Duration `envconfig:"MAX_INTERVAL" default:"30s"`
	MaxElapsedTime  time.Duration `envconfig:"MAX_ELAPSED_TIME" default:"10m"`
}

// Callback holds the deep-link URLs embedded into the redirect request and
// the store fallbacks used when the banking app is not installed.
type Callback struct {
	SuccessUrl   string `envconfig:"SUCCESS_URL" default:"laokitchen://pay"`
	FailUrl      string `envconfig:"FAIL_URL" default:"laokitchen://pay"`
	ReturnUrl    string `envconfig:"RETURN_URL" default:"laokitchen://pay"`
	AppStoreUrl  string `envconfig:"APP_STORE_URL" default:"https://apps.apple.com/search?term=mblaos"`
	PlayStoreUrl string `envconfig:"PLAY_STORE_URL" default:"https://play.google.com/store/search?q=mblaos"`
}

// Amount is the display-currency to gateway-currency conversion boundary.
// The mobile clients displayed USD but sent LAK-denominated amounts to the
// gateway without converting; Rate=1 reproduces that behavior. See DESIGN.md.
type Amount struct {
	DisplayCurrency string  `envconfig:"DISPLAY_CURRENCY" default:"USD"`
	GatewayCurrency string  `envconfig:"GATEWAY_CURRENCY" default:"LAK"`
	Rate            float64 `envconfig:"RATE" default:"1"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[payflow]"`
}

// App is the root application configuration.
type App struct {
	Env       string     `envconfig:"ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	DB        *DB        `envconfig:"DB"`
	Auth      *Auth      `envconfig:"AUTH"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Gateway   *Gateway   `envconfig:"GATEWAY"`
	Poll      *Poll      `envconfig:"POLL"`
	Callback  *Callback  `envconfig:"CALLBACK"`
	Amount    *Amount    `envconfig:"AMOUNT"`
	Log       *Log       `envconfig:"LOG"`
}
