package pipeline

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/drewzambelli/wtml/lib/configutil"
	"github.com/drewzambelli/wtml/lib/scrapers/disclosures"
)

type ScraperConfig struct {
	BaseUrl string `json:"base_url"`
	// requests per second, <= 0 means one request per second
	MaxRate     float64 `json:"max_rate"`
	JitterMinMs int     `json:"jitter_min_ms"`
	JitterMaxMs int     `json:"jitter_max_ms"`
}

type HeadshotConfig struct {
	Dir     string `json:"dir"`
	Bucket  string `json:"bucket"`
	BaseUrl string `json:"base_url"`
}

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

type Config struct {
	// directory the stage csv files are written to
	WorkDir string `json:"work_dir"`
	// oldest travel archive year worth probing
	YearFloor   int            `json:"year_floor"`
	Clerk       ScraperConfig  `json:"clerk"`
	Disclosures ScraperConfig  `json:"disclosures"`
	Headshots   HeadshotConfig `json:"headshots"`
	Smtp        SmtpConfig     `json:"smtp"`
}

func LoadConfig(name string) (Config, error) {
	config, err := configutil.ReadConfig[Config](name)
	if err != nil {
		return Config{}, err
	}
	if config.WorkDir == "" {
		config.WorkDir = "work"
	}
	if config.YearFloor == 0 {
		config.YearFloor = disclosures.FirstFilingYear
	}
	return config, nil
}

// Credentials never live in config.json5, they come from the
// environment (or a .env file during development).
type Credentials struct {
	DatabaseUrl string
	AuthToken   string
}

func LoadCredentials() Credentials {
	godotenv.Load()
	return Credentials{
		DatabaseUrl: os.Getenv("WTML_DATABASE_URL"),
		AuthToken:   os.Getenv("WTML_DATABASE_AUTH_TOKEN"),
	}
}
