package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "OPTIKPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App    AppConfig
	Sheets SheetsConfig
	Shop   ShopConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Shop.parseDestinations(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OPTIKPOS_APP_ENV" default:"dev"`
	Port         string `envconfig:"OPTIKPOS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"OPTIKPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OPTIKPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SheetsConfig locates the shop workbook and names its worksheets. The
// worksheet names default to the tabs the shop has used for years; they are
// configurable only so a staging copy of the workbook can be pointed at.
type SheetsConfig struct {
	SpreadsheetID   string        `envconfig:"OPTIKPOS_SHEETS_SPREADSHEET_ID" required:"true"`
	CredentialsFile string        `envconfig:"OPTIKPOS_SHEETS_CREDENTIALS_FILE"`
	CacheTTL        time.Duration `envconfig:"OPTIKPOS_SHEETS_CACHE_TTL" default:"5m"`

	FramesSheet            string `envconfig:"OPTIKPOS_SHEETS_FRAMES" default:"dframe"`
	LensStockSheet         string `envconfig:"OPTIKPOS_SHEETS_LENS_STOCK" default:"dlensa"`
	LensPriceRulesSheet    string `envconfig:"OPTIKPOS_SHEETS_LENS_PRICE_RULES" default:"lensa_luar_stock"`
	TransactionsSheet      string `envconfig:"OPTIKPOS_SHEETS_TRANSACTIONS" default:"transaksi"`
	PaymentsSheet          string `envconfig:"OPTIKPOS_SHEETS_PAYMENTS" default:"pembayaran"`
	CustomersSheet         string `envconfig:"OPTIKPOS_SHEETS_CUSTOMERS" default:"pelanggan"`
	FrameLogSheet          string `envconfig:"OPTIKPOS_SHEETS_FRAME_LOG" default:"log_frame"`
	LensLogSheet           string `envconfig:"OPTIKPOS_SHEETS_LENS_LOG" default:"log_lensa"`
	OutOfTownOrdersSheet   string `envconfig:"OPTIKPOS_SHEETS_OOT_ORDERS" default:"pesanan_luar_kota"`
	OutOfTownPaymentsSheet string `envconfig:"OPTIKPOS_SHEETS_OOT_PAYMENTS" default:"pembayaran_luar_kota"`
}

// ShopConfig carries the identifier prefixes and the out-of-town destination
// roster. Destinations is "Name:Code" pairs, comma separated; the codes end up
// inside OMSKW identifiers so changing them breaks id continuity.
type ShopConfig struct {
	Prefix          string `envconfig:"OPTIKPOS_SHOP_PREFIX" default:"OM"`
	OutOfTownPrefix string `envconfig:"OPTIKPOS_SHOP_OOT_PREFIX" default:"OMSKW"`
	Destinations    string `envconfig:"OPTIKPOS_SHOP_DESTINATIONS" default:"Nelly:01,Rahmat:02"`
	Timezone        string `envconfig:"OPTIKPOS_SHOP_TIMEZONE" default:"Asia/Jakarta"`

	destinationCodes map[string]string
}

func (s *ShopConfig) parseDestinations() error {
	s.destinationCodes = map[string]string{}
	for _, pair := range strings.Split(s.Destinations, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, code, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(code) == "" {
			return fmt.Errorf("invalid destination entry %q (want Name:Code)", pair)
		}
		s.destinationCodes[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(code)
	}
	if len(s.destinationCodes) == 0 {
		return fmt.Errorf("at least one out-of-town destination required")
	}
	return nil
}

// LocationCode resolves a destination name to its two-digit id code.
func (s ShopConfig) LocationCode(name string) (string, bool) {
	code, ok := s.destinationCodes[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// DestinationCodes returns a copy of the name-to-code roster.
func (s ShopConfig) DestinationCodes() map[string]string {
	codes := make(map[string]string, len(s.destinationCodes))
	for name, code := range s.destinationCodes {
		codes[name] = code
	}
	return codes
}

// DestinationNames lists the configured destinations (for validation messages).
func (s ShopConfig) DestinationNames() []string {
	names := make([]string, 0, len(s.destinationCodes))
	for name := range s.destinationCodes {
		names = append(names, name)
	}
	return names
}
