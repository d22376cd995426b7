package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/savemoney/internal/stt"
)

// LoadSTTConfig reads stt.* keys, reusing the OpenAI credentials when no
// dedicated transcription key is set.
func LoadSTTConfig() stt.Config {
	cfg := stt.Config{
		APIKey:   firstNonEmpty(viper.GetString("stt.api_key"), os.Getenv("OPENAI_API_KEY")),
		BaseURL:  firstNonEmpty(viper.GetString("stt.base_url"), os.Getenv("OPENAI_BASE_URL")),
		Model:    viper.GetString("stt.model"),
		Language: viper.GetString("stt.language"),
		Timeout:  viper.GetDuration("stt.timeout"),
		Mock:     viper.GetBool("stt.mock"),
	}
	return cfg
}

// DatabasePath returns the expanded journal path.
func DatabasePath() string {
	return ExpandPath(firstNonEmpty(viper.GetString("database.path"), DefaultDatabasePath))
}

// KeywordsPath returns the keyword table override, or "" for the embedded tables.
func KeywordsPath() string {
	return ExpandPath(viper.GetString("parser.keywords_path"))
}
