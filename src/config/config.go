package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Values read once at startup. Required values fail the process immediately
// so a misconfigured deploy never gets as far as accepting leads.
var (
	MongoURI     string
	RedisURI     string
	AppPort      string
	AppBaseURL   string
	UploadDir    string
	JWTSecret    string
	DefaultAffID string

	PhonexaURL     string
	PhonexaTimeout time.Duration

	GetAddressURL    string
	GetAddressAPIKey string

	// CreateRecordFromStep is the earliest step allowed to mint a Form
	// Record. Steps before it validate without persisting, so abandoned
	// postcode-only sessions never leave placeholder documents behind.
	CreateRecordFromStep string
)

// Load reads .env (if present) and populates the package variables.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	MongoURI = mustGet("MONGO_URI")
	DefaultAffID = mustGet("DEFAULT_AFF_ID")

	RedisURI = os.Getenv("REDIS_URI")
	AppPort = getOr("APP_URI", "4000")
	AppBaseURL = getOr("APP_BASE_URL", "http://localhost:"+AppPort)
	UploadDir = getOr("UPLOAD_DIR", "./uploads")
	JWTSecret = getOr("JWT_SECRET", "your_secret_key")

	PhonexaURL = getOr("PHONEXA_URL", "https://leads-inst47-client.phonexa.uk/lead/")
	PhonexaTimeout = 10 * time.Second

	GetAddressURL = getOr("GETADDRESS_URL", "https://api.getaddress.io")
	GetAddressAPIKey = os.Getenv("GETADDRESS_API_KEY")

	CreateRecordFromStep = getOr("CREATE_RECORD_FROM_STEP", "personal-details")
}

func mustGet(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("❌ %s environment variable not set. Please create a .env file and set it.", key)
	}
	return v
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
