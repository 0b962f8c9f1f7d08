package studyhub

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	APIBaseURL  string
	APIToken    string
	SoundsDir   string
}

func LoadConfig() (Config, error) {
	isProd := flag.Bool("p", false, "is production environment")
	flag.Parse()
	if *isProd {
		_ = godotenv.Load(".env")
	} else {
		_ = godotenv.Load(".env.dev")
	}

	config := Config{
		DatabaseURL: os.Getenv("STUDYHUB_DB_PATH"),
		HTTPAddr:    os.Getenv("STUDYHUB_HTTP_ADDR"),
		APIBaseURL:  os.Getenv("STUDYHUB_API_BASE_URL"),
		APIToken:    os.Getenv("STUDYHUB_API_TOKEN"),
		SoundsDir:   os.Getenv("STUDYHUB_SOUNDS_DIR"),
	}

	if config.APIBaseURL == "" {
		return Config{}, fmt.Errorf("required environment variable: STUDYHUB_API_BASE_URL")
	}

	if config.DatabaseURL == "" {
		config.DatabaseURL = "studyhub.db"
	}
	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8090"
	}

	return config, nil
}
