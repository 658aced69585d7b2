package config

import (
	"log"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ApiName is the routing key that selects which remote API a call goes to.
type ApiName string

const (
	AccessApi     ApiName = "AccessApi"
	AttendanceApi ApiName = "AttendanceApi"
	GivingApi     ApiName = "GivingApi"
	MembershipApi ApiName = "MembershipApi"
)

// Stage selects a fixed set of remote API base URLs.
type Stage string

const (
	StageDev     Stage = "dev"
	StageStaging Stage = "staging"
	StageProd    Stage = "prod"
)

// Config is built once at startup and never mutated afterwards. Maps are only
// exposed through accessors that return copies.
type Config struct {
	Port           string
	JWTSecret      string
	MongoURI       string
	DBName         string
	SkipAuth       bool
	Environment    string
	AppId          string
	AllowedOrigins string
	APITimeout     time.Duration
	HealthSchedule string

	Stage              Stage
	DefaultApi         ApiName
	ChumsApi           string
	ContentRoot        string
	GoogleAnalyticsTag string

	apiURLs map[ApiName]string
}

// APIURL returns the base URL for the named API.
func (c *Config) APIURL(name ApiName) (string, bool) {
	u, ok := c.apiURLs[name]
	return u, ok
}

// APIURLs returns a copy of every configured API base URL.
func (c *Config) APIURLs() map[ApiName]string {
	return maps.Clone(c.apiURLs)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return FromEnv(os.LookupEnv), nil
}

// FromEnv builds a Config using lookup for every variable.
func FromEnv(lookup func(string) (string, bool)) *Config {
	get := func(key, fallback string) string {
		if value, exists := lookup(key); exists {
			return value
		}
		return fallback
	}

	timeout, err := time.ParseDuration(get("API_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}

	cfg := &Config{
		Port:           get("PORT", "8080"),
		JWTSecret:      get("JWT_SECRET", "secret"),
		MongoURI:       get("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         get("DB_NAME", "chums-admin"),
		SkipAuth:       get("SKIP_AUTH", "false") == "true",
		Environment:    get("ENVIRONMENT", "development"),
		AppId:          get("APP_ID", "chums-admin"),
		AllowedOrigins: get("ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:3101"),
		APITimeout:     timeout,
		HealthSchedule: get("HEALTH_CHECK_SCHEDULE", "@every 1m"),
		DefaultApi:     MembershipApi,
	}

	switch Stage(strings.ToLower(get("STAGE", ""))) {
	case StageStaging:
		cfg.initStaging()
	case StageProd:
		cfg.initProd()
	default:
		cfg.initDev(get)
	}
	return cfg
}

func (c *Config) initDev(get func(string, string) string) {
	c.Stage = StageDev
	c.apiURLs = map[ApiName]string{
		AccessApi:     get("ACCESS_API", ""),
		AttendanceApi: get("ATTENDANCE_API", ""),
		GivingApi:     get("GIVING_API", ""),
		MembershipApi: get("MEMBERSHIP_API", ""),
	}
	c.ChumsApi = get("CHUMS_API", "")
	c.ContentRoot = get("CONTENT_ROOT", "")
	c.GoogleAnalyticsTag = get("GOOGLE_ANALYTICS", "")
}

// None of the staging or prod values are secret.
func (c *Config) initStaging() {
	c.Stage = StageStaging
	c.apiURLs = map[ApiName]string{
		AccessApi:     "https://accessapi.staging.churchapps.org",
		AttendanceApi: "https://attendanceapi.staging.churchapps.org",
		GivingApi:     "https://givingapi.staging.churchapps.org",
		MembershipApi: "https://membershipapi.staging.churchapps.org",
	}
	c.ChumsApi = "https://api.staging.chums.org"
}

func (c *Config) initProd() {
	c.Stage = StageProd
	c.apiURLs = map[ApiName]string{
		AccessApi:     "https://accessapi.churchapps.org",
		AttendanceApi: "https://attendanceapi.churchapps.org",
		GivingApi:     "https://givingapi.churchapps.org",
		MembershipApi: "https://membershipapi.churchapps.org",
	}
	c.ChumsApi = "https://api.chums.org"
	c.GoogleAnalyticsTag = "UA-164774603-4"
}
