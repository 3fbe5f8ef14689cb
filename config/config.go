package config

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

// Extraction tunes the order extractor.
type Extraction struct {
	SectionMaxLines int
	UseTagger       bool
	TaggerModels    []string
	SpacyURL        string
	GeonamesDir     string
	TaggerTimeout   time.Duration
	FreightMin      float64
	FreightMax      float64
}

type Config struct {
	Extraction    Extraction
	TelegramToken string
	DBPath        string
	OutDocsPath   string
	PdfsFolder    string
	JSONOutput    string
	Env           string
}

// Load reads .env when present and builds the configuration from the
// environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Extraction: Extraction{
			SectionMaxLines: getEnvAsInt("CITY_SECTION_MAX_LINES", 30),
			UseTagger:       getEnvAsBool("USE_TAGGER_CITIES", true),
			TaggerModels:    getEnvAsList("TAGGER_CITY_MODELS", []string{"pl_core_news_sm", "de_core_news_sm"}),
			SpacyURL:        getEnv("SPACY_URL", ""),
			GeonamesDir:     getEnv("GEONAMES_DIR", ""),
			TaggerTimeout:   getEnvAsDuration("TAGGER_TIMEOUT", 30*time.Second),
			FreightMin:      getEnvAsFloat("FRACHT_MIN", 50),
			FreightMax:      getEnvAsFloat("FRACHT_MAX", 5000),
		},
		TelegramToken: getEnv("TELEGRAM_API", ""),
		DBPath:        getEnv("DB_PATH", "./bot.db"),
		OutDocsPath:   GetOutDocsPath(),
		PdfsFolder:    getEnv("PDFS_FOLDER", "pdfs"),
		JSONOutput:    getEnv("JSON_OUTPUT", "extraction_results.json"),
		Env:           getEnv("ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value. An empty value keeps the
// default, "none" gives an empty list.
func getEnvAsList(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if strings.EqualFold(value, "none") {
		return []string{}
	}
	list := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func GetOutDocsPath() string {
	if path := os.Getenv("OUTDOCS_PATH"); path != "" {
		return path
	}

	return "./storage/"
}

func GetFullPath(filename string) string {
	return filepath.Join(GetOutDocsPath(), filename)
}

func DownloadFile(url, fileName string) (string, error) {
	var fullPath string

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := os.MkdirAll(GetOutDocsPath(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}

	fullPath = GetFullPath(fileName)
	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to write to file: %w", err)
	}

	return fullPath, nil
}

func VERY_BAD(chatId int64, bot *tgbotapi.BotAPI) {
	bot.Send(tgbotapi.NewMessage(chatId, Translate(GetLang(chatId), "something_went_wrong")))
}
