package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is built once at startup and passed by value to every component.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server   ServerConfig
	Upload   UploadConfig
	Store    StoreConfig
	Queue    QueueConfig
	Speech   SpeechConfig
	OCR      OCRConfig
	Analyzer AnalyzerConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
}

type UploadConfig struct {
	Dir               string   `envconfig:"UPLOAD_DIR" default:"uploads" validate:"required"`
	MaxFileSizeMB     int64    `envconfig:"MAX_FILE_SIZE_MB" default:"100" validate:"gt=0"`
	AllowedExtensions []string `envconfig:"ALLOWED_EXTENSIONS" default:".mp3,.wav,.m4a,.mp4,.avi,.mov,.png,.jpg,.jpeg,.pdf,.docx,.txt,.xlsx" validate:"min=1,dive,startswith=."`
}

// MaxBytes is the upload limit in bytes.
func (u UploadConfig) MaxBytes() int64 { return u.MaxFileSizeMB << 20 }

// Allowed reports whether the extension (with leading dot) may be uploaded.
func (u UploadConfig) Allowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, a := range u.AllowedExtensions {
		if strings.ToLower(a) == ext {
			return true
		}
	}
	return false
}

type StoreConfig struct {
	Backend   string        `envconfig:"STORE_BACKEND" default:"memory" validate:"oneof=memory redis"`
	RedisURL  string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0" validate:"required_if=Backend redis"`
	StatusTTL time.Duration `envconfig:"STATUS_TTL" default:"1h" validate:"gt=0"`
	ResultTTL time.Duration `envconfig:"RESULT_TTL" default:"24h" validate:"gt=0"`
}

type QueueConfig struct {
	Workers int `envconfig:"WORKERS" default:"4" validate:"gt=0"`
	Size    int `envconfig:"QUEUE_SIZE" default:"256" validate:"gt=0"`
}

type SpeechConfig struct {
	// Providers lists the speech providers in the order they are tried.
	Providers     []string      `envconfig:"SPEECH_PROVIDERS" default:"google,whisper,gateway" validate:"dive,oneof=google whisper gateway"`
	Language      string        `envconfig:"DEFAULT_LANGUAGE" default:"en-US" validate:"required"`
	Diarize       bool          `envconfig:"DIARIZE" default:"true"`
	SpeakerCount  int           `envconfig:"SPEAKER_COUNT" default:"2" validate:"gte=1"`
	GoogleEnabled bool          `envconfig:"GOOGLE_SPEECH_ENABLED" default:"false"`
	OpenAIKey     string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1" validate:"url"`
	WhisperModel  string        `envconfig:"WHISPER_MODEL" default:"whisper-1"`
	GatewayURL    string        `envconfig:"TRANSCRIBE_URL" validate:"omitempty,url"`
	PollInterval  time.Duration `envconfig:"TRANSCRIBE_POLL_INTERVAL" default:"1500ms" validate:"gt=0"`
	PollAttempts  int           `envconfig:"TRANSCRIBE_POLL_ATTEMPTS" default:"40" validate:"gt=0"`
	FFmpegPath    string        `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"120s"`
}

type OCRConfig struct {
	TesseractPath string `envconfig:"TESSERACT_PATH" default:"tesseract"`
	TessdataDir   string `envconfig:"TESSDATA_PREFIX"`
	Languages     string `envconfig:"OCR_LANGUAGES" default:"eng+chi_sim+chi_tra+msa"`
}

type AnalyzerConfig struct {
	GeminiKey    string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	MaxRetryTime time.Duration `envconfig:"ANALYZER_MAX_RETRY" default:"45s"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds and validates a Config from the process environment only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints declared on the config tree.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
